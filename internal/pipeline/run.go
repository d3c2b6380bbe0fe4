// Package pipeline provides the high-level orchestration from a customer
// request to generated steps and annotated screenshots.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/awside/symtrain-assistant/internal/analysis"
	"github.com/awside/symtrain-assistant/internal/dataset"
	"github.com/awside/symtrain-assistant/internal/embeddings"
	"github.com/awside/symtrain-assistant/internal/llm"
	"github.com/awside/symtrain-assistant/internal/logging"
	"github.com/awside/symtrain-assistant/internal/observability"
	"github.com/awside/symtrain-assistant/internal/search"
	"github.com/awside/symtrain-assistant/internal/store"
	"github.com/awside/symtrain-assistant/internal/types"
	"github.com/awside/symtrain-assistant/internal/vision"
)

// Step names reported in progress events
const (
	StepLoad     = "load_simulations"
	StepAnalyze  = "analyze_simulations"
	StepIndex    = "build_index"
	StepGenerate = "generate_steps"
	StepMap      = "map_steps"
)

// Step categories
const (
	CategoryIngestion = "ingestion"
	CategoryAnalysis  = "analysis"
	CategoryVision    = "vision"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	// DataDir is loaded when Simulations is nil
	DataDir     string
	Simulations []*types.Simulation
	Request     string

	Client llm.Client // Required
	// Embedder, when set, selects few-shot examples by transcript similarity
	Embedder llm.Embedder
	// Store caches analyses and embeddings and records the run
	Store store.Store

	NExamples   int
	Concurrency int

	// Vision maps the generated steps onto screenshots
	Vision  bool
	Process vision.ProcessOptions

	Verbose    bool
	Printer    *observability.Printer
	Logger     *zap.Logger
	OnProgress ProgressCallback
}

// Result holds the outputs of a pipeline run
type Result struct {
	RunID       uuid.UUID             `json:"run_id"`
	Simulations int                   `json:"simulations"`
	Analyses    []*types.Analysis     `json:"analyses"`
	Generated   *types.GeneratedSteps `json:"generated"`
	Report      *types.Report         `json:"report,omitempty"`
}

type runner struct {
	opts    *RunOptions
	runID   uuid.UUID
	logger  *zap.Logger
	printer *observability.Printer
}

// emitProgress calls the progress callback if configured
func (r *runner) emitProgress(step, category, message string, content any) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			RunID:    r.runID.String(),
			Content:  content,
		})
	}
}

// Run loads and analyzes the simulations, generates steps for the request
// and optionally maps them onto screenshots.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.Client == nil {
		return nil, analysis.ErrNoClient
	}
	if opts.Request == "" {
		return nil, errors.New("a customer request is required")
	}

	r := &runner{opts: &opts, logger: logging.OrNop(opts.Logger), printer: opts.Printer}
	if r.printer == nil {
		r.printer = observability.NewPrinter(os.Stdout)
	}
	r.runID = r.startRun(ctx)

	result, err := r.run(ctx)
	status := store.RunStatusCompleted
	if err != nil {
		status = store.RunStatusFailed
	}
	r.finishRun(ctx, status, result)
	return result, err
}

func (r *runner) run(ctx context.Context) (*Result, error) {
	opts := r.opts
	result := &Result{RunID: r.runID}

	// Step 1: Load simulations
	sims := opts.Simulations
	if sims == nil {
		var err error
		sims, err = dataset.LoadSimulations(opts.DataDir, r.logger)
		if err != nil {
			return nil, fmt.Errorf("loading simulations failed: %w", err)
		}
	}
	result.Simulations = len(sims)
	r.emitProgress(StepLoad, CategoryIngestion, fmt.Sprintf("Loaded %d simulations", len(sims)), nil)

	// Step 2: analysis and the embedding index are independent
	g, gCtx := errgroup.WithContext(ctx)

	var analyses []*types.Analysis
	var index *embeddings.Index
	var mu sync.Mutex

	g.Go(func() error {
		var cache analysis.Cache
		if opts.Store != nil {
			cache = opts.Store
		}
		out, err := analysis.AnalyzeAll(gCtx, opts.Client, sims, analysis.AnalyzeOptions{
			Concurrency: opts.Concurrency,
			Cache:       cache,
			Logger:      r.logger,
		})
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		mu.Lock()
		analyses = out
		mu.Unlock()
		return nil
	})

	if opts.Embedder != nil {
		g.Go(func() error {
			var cache embeddings.Cache
			if opts.Store != nil {
				cache = opts.Store
			}
			idx, err := embeddings.BuildIndex(gCtx, opts.Embedder, embeddings.DocumentsFromSimulations(sims), opts.Concurrency, cache)
			if err != nil {
				// Similarity selection is optional; category examples still work
				r.logger.Warn("embedding index unavailable", zap.Error(err))
				return nil
			}
			mu.Lock()
			index = idx
			mu.Unlock()
			r.emitProgress(StepIndex, CategoryAnalysis, fmt.Sprintf("Embedded %d transcripts", idx.Len()), nil)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.Analyses = analyses
	r.emitProgress(StepAnalyze, CategoryAnalysis, fmt.Sprintf("Analyzed %d simulations", len(analyses)), analyses)
	if opts.Verbose {
		r.printer.PrintAnalyses(analyses)
	}

	// Step 3: Generate steps for the request
	genOpts := analysis.GenerateOptions{NExamples: opts.NExamples}
	if index != nil && index.Len() > 0 {
		genOpts.Finder = &search.Finder{Embedder: opts.Embedder, Index: index}
	}
	generated, err := analysis.GenerateSteps(ctx, opts.Client, opts.Request, analyses, genOpts)
	if err != nil {
		return result, fmt.Errorf("step generation failed: %w", err)
	}
	result.Generated = generated
	r.emitProgress(StepGenerate, CategoryAnalysis,
		fmt.Sprintf("Generated %d steps (%s)", len(generated.Steps), generated.Category), generated)
	if opts.Verbose {
		r.printer.PrintGeneratedSteps(generated)
	}

	if !opts.Vision {
		return result, nil
	}

	// Step 4: Map steps onto screenshots from every simulation
	items, dirs := dataset.CollectVisualItems(sims)
	processOpts := opts.Process
	processOpts.Locator.ImageDirs = dirs
	processOpts.Assign.RequestContext = opts.Request
	if processOpts.Logger == nil {
		processOpts.Logger = r.logger
	}

	report := vision.ProcessWithVision(generated.Steps, items, processOpts)
	result.Report = report
	r.emitProgress(StepMap, CategoryVision,
		fmt.Sprintf("Mapped %d of %d steps", report.MappedSteps, report.TotalSteps), report)
	if opts.Verbose {
		r.printer.PrintReportSummary(report)
	}

	return result, nil
}

// startRun records the run when a store is configured. Store failures never
// stop the pipeline.
func (r *runner) startRun(ctx context.Context) uuid.UUID {
	if r.opts.Store == nil {
		return uuid.New()
	}
	id, err := r.opts.Store.CreateRun(ctx, r.opts.Request)
	if err != nil {
		r.logger.Warn("failed to record run", zap.Error(err))
		return uuid.New()
	}
	return id
}

func (r *runner) finishRun(ctx context.Context, status string, result *Result) {
	if r.opts.Store == nil {
		return
	}
	category, rate := "", 0.0
	if result != nil && result.Generated != nil {
		category = result.Generated.Category
	}
	if result != nil && result.Report != nil {
		rate = result.Report.MappingRate()
	}
	if err := r.opts.Store.CompleteRun(ctx, r.runID, status, category, rate); err != nil {
		r.logger.Warn("failed to complete run record", zap.String("run_id", r.runID.String()), zap.Error(err))
	}
}
