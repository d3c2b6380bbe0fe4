package analysis

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/awside/symtrain-assistant/internal/dataset"
	"github.com/awside/symtrain-assistant/internal/llm"
	"github.com/awside/symtrain-assistant/internal/logging"
	"github.com/awside/symtrain-assistant/internal/types"
)

// DefaultConcurrency bounds in-flight LLM calls during batch analysis
const DefaultConcurrency = 4

// Cache persists analyses keyed by simulation file path.
// GetAnalysis returns (nil, nil) on a miss.
type Cache interface {
	GetAnalysis(ctx context.Context, filePath string) (*types.Analysis, error)
	SaveAnalysis(ctx context.Context, analysis *types.Analysis) error
}

// AnalyzeOptions configures AnalyzeAll
type AnalyzeOptions struct {
	Concurrency int
	Cache       Cache
	Logger      *zap.Logger
}

// Analyze summarizes a single simulation. LLM failures do not return an
// error: the reason records the failure and the category is Uncategorized.
func Analyze(ctx context.Context, client llm.Client, sim *types.Simulation, logger *zap.Logger) *types.Analysis {
	logger = logging.OrNop(logger)
	analysis := &types.Analysis{
		FilePath: sim.FilePath,
		Name:     sim.Name,
		Dialogue: dataset.MergeDialogue(sim.AudioItems),
		Category: Uncategorized,
		Steps:    []string{},
	}

	extraction, err := ExtractReasonAndSteps(ctx, client, analysis.Dialogue)
	if err != nil {
		logger.Warn("extraction failed", zap.String("file", sim.FilePath), zap.Error(err))
		analysis.Reason = fmt.Sprintf("Error: %v", err)
		return analysis
	}
	analysis.Reason = extraction.Reason
	analysis.Steps = extraction.Steps

	category, err := CategorizeSimulation(ctx, client, extraction.Reason)
	if err != nil {
		logger.Warn("categorization failed", zap.String("file", sim.FilePath), zap.Error(err))
		return analysis
	}
	analysis.Category = category
	return analysis
}

// AnalyzeAll analyzes every simulation that carries dialogue, returning
// results in input order. Cached analyses are reused while their dialogue
// still matches the simulation.
func AnalyzeAll(ctx context.Context, client llm.Client, sims []*types.Simulation, opts AnalyzeOptions) ([]*types.Analysis, error) {
	logger := logging.OrNop(opts.Logger)
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	withAudio := make([]*types.Simulation, 0, len(sims))
	for _, sim := range sims {
		if len(sim.AudioItems) > 0 {
			withAudio = append(withAudio, sim)
		}
	}

	results := make([]*types.Analysis, len(withAudio))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, sim := range withAudio {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			analysis := cached(gCtx, opts.Cache, sim, logger)
			if analysis == nil {
				analysis = Analyze(gCtx, client, sim, logger)
				if opts.Cache != nil {
					if err := opts.Cache.SaveAnalysis(gCtx, analysis); err != nil {
						logger.Warn("failed to cache analysis", zap.String("file", sim.FilePath), zap.Error(err))
					}
				}
			}

			mu.Lock()
			results[i] = analysis
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}
	return results, nil
}

func cached(ctx context.Context, cache Cache, sim *types.Simulation, logger *zap.Logger) *types.Analysis {
	if cache == nil {
		return nil
	}
	analysis, err := cache.GetAnalysis(ctx, sim.FilePath)
	if err != nil {
		logger.Warn("failed to read cached analysis", zap.String("file", sim.FilePath), zap.Error(err))
		return nil
	}
	if analysis == nil || analysis.Dialogue != dataset.MergeDialogue(sim.AudioItems) {
		return nil
	}
	logger.Debug("using cached analysis", zap.String("file", sim.FilePath))
	return analysis
}
