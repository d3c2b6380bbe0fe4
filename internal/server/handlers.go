package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/awside/symtrain-assistant/internal/observability"
	"github.com/awside/symtrain-assistant/internal/pipeline"
	"github.com/awside/symtrain-assistant/internal/store"
	"github.com/awside/symtrain-assistant/internal/types"
	"github.com/awside/symtrain-assistant/internal/vision"
)

// maxBodyBytes bounds request bodies; visual item lists can be large
const maxBodyBytes = 16 << 20

// AssignParams overrides the server's assignment defaults for one request
type AssignParams struct {
	Threshold        *float64 `json:"threshold,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxImageReuse    *int     `json:"max_image_reuse,omitempty" validate:"omitempty,gte=0"`
	DiversityPenalty *float64 `json:"diversity_penalty,omitempty" validate:"omitempty,gte=0,lte=2"`
}

func (p AssignParams) apply(opts vision.AssignOptions) vision.AssignOptions {
	if p.Threshold != nil {
		opts.Threshold = *p.Threshold
	}
	if p.MaxImageReuse != nil {
		opts.MaxImageReuse = *p.MaxImageReuse
	}
	if p.DiversityPenalty != nil {
		opts.DiversityPenalty = *p.DiversityPenalty
	}
	return opts
}

// MapRequest is the body of POST /map
type MapRequest struct {
	Steps          []string           `json:"steps" validate:"required,min=1"`
	VisualItems    []types.VisualItem `json:"visual_items"`
	RequestContext string             `json:"request_context"`
	AssignParams
}

// ReportRequest is the body of POST /report
type ReportRequest struct {
	Steps          []string           `json:"steps" validate:"required,min=1"`
	VisualItems    []types.VisualItem `json:"visual_items"`
	RequestContext string             `json:"request_context"`
	ImageDirectory string             `json:"image_directory"`
	ImageDirs      map[string]string  `json:"image_dirs"`
	AssignParams
}

// ReportResponse is the body returned by POST /report
type ReportResponse struct {
	Report *types.Report `json:"report"`
	Text   string        `json:"text"`
}

// GenerateRequest is the body of POST /generate and /generate/stream
type GenerateRequest struct {
	Request   string `json:"request" validate:"required"`
	Vision    bool   `json:"vision"`
	NExamples *int   `json:"n_examples,omitempty" validate:"omitempty,gte=1,lte=20"`
}

// decode reads a JSON body into v and validates its struct tags
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "request body is empty"}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

func (s *Server) assignOptions(p AssignParams) vision.AssignOptions {
	opts := s.cfg.Assign
	if opts == (vision.AssignOptions{}) {
		opts = vision.DefaultAssignOptions()
	}
	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	return p.apply(opts)
}

// handleMap assigns steps to hotspots without touching the filesystem
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	var req MapRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorFrom(w, err)
		return
	}

	opts := s.assignOptions(req.AssignParams)
	opts.RequestContext = req.RequestContext
	mappings := vision.MapStepsToImages(req.Steps, req.VisualItems, opts)

	s.jsonResponse(w, http.StatusOK, mappings)
}

// handleReport runs the full vision pipeline and returns the report with
// its text rendering. Annotated images are not written.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorFrom(w, err)
		return
	}

	locator, err := s.reportLocator(req)
	if err != nil {
		s.errorFrom(w, err)
		return
	}

	opts := vision.ProcessOptions{
		Locator: locator,
		Assign: s.assignOptions(req.AssignParams),
		Logger: s.logger,
	}
	opts.Assign.RequestContext = req.RequestContext

	report := vision.ProcessWithVision(req.Steps, req.VisualItems, opts)
	s.jsonResponse(w, http.StatusOK, ReportResponse{
		Report: report,
		Text:   vision.CreateMappingReport(report),
	})
}

// reportLocator confines the requested screenshot directories to the
// server's data and image directories
func (s *Server) reportLocator(req ReportRequest) (vision.ImageLocator, error) {
	locator := vision.ImageLocator{}
	if req.ImageDirectory == "" && len(req.ImageDirs) == 0 {
		return locator, nil
	}

	var roots []string
	for _, root := range []string{s.cfg.DataDir, s.cfg.ImageDir} {
		if root == "" {
			continue
		}
		if abs, err := filepath.Abs(root); err == nil {
			roots = append(roots, abs)
		}
	}
	if len(roots) == 0 {
		return locator, &ErrUnavailable{Feature: "image lookup"}
	}

	if req.ImageDirectory != "" {
		dir, err := confineDir(roots, req.ImageDirectory)
		if err != nil {
			return locator, &ErrValidation{Field: "image_directory", Message: err.Error()}
		}
		locator.ImageDirectory = dir
	}
	if len(req.ImageDirs) > 0 {
		locator.ImageDirs = make(map[string]string, len(req.ImageDirs))
		for fileID, d := range req.ImageDirs {
			dir, err := confineDir(roots, d)
			if err != nil {
				return locator, &ErrValidation{Field: "image_dirs", Message: fileID + ": " + err.Error()}
			}
			locator.ImageDirs[fileID] = dir
		}
	}
	return locator, nil
}

// confineDir resolves dir against the first root when relative and rejects
// any result outside every root
func confineDir(roots []string, dir string) (string, error) {
	resolved := filepath.Clean(dir)
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(roots[0], resolved)
	}
	for _, root := range roots {
		rel, err := filepath.Rel(root, resolved)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return resolved, nil
		}
	}
	return "", errors.New("must be inside the server's data or image directory")
}

func (s *Server) pipelineOptions(req GenerateRequest) (pipeline.RunOptions, error) {
	if s.cfg.Client == nil {
		return pipeline.RunOptions{}, &ErrUnavailable{Feature: "step generation"}
	}
	if s.cfg.DataDir == "" {
		return pipeline.RunOptions{}, &ErrUnavailable{Feature: "simulation dataset"}
	}

	nExamples := s.cfg.NExamples
	if req.NExamples != nil {
		nExamples = *req.NExamples
	}
	return pipeline.RunOptions{
		DataDir:     s.cfg.DataDir,
		Request:     req.Request,
		Client:      s.cfg.Client,
		Embedder:    s.cfg.Embedder,
		Store:       s.cfg.Store,
		NExamples:   nExamples,
		Concurrency: s.cfg.Concurrency,
		Vision:      req.Vision,
		Process: vision.ProcessOptions{
			Assign: s.assignOptions(AssignParams{}),
			Logger: s.logger,
		},
		Printer: observability.NewPrinter(io.Discard),
		Logger:  s.logger,
	}, nil
}

// handleGenerate runs the request pipeline and returns its result
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorFrom(w, err)
		return
	}
	opts, err := s.pipelineOptions(req)
	if err != nil {
		s.errorFrom(w, err)
		return
	}

	result, err := pipeline.Run(r.Context(), opts)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleGenerateStream runs the pipeline and streams progress as SSE
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorFrom(w, err)
		return
	}
	opts, err := s.pipelineOptions(req)
	if err != nil {
		s.errorFrom(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	runID := ""
	opts.OnProgress = func(event pipeline.ProgressEvent) {
		runID = event.RunID
		if err := sse.WriteEvent("progress", event); err != nil {
			s.logger.Warn("failed to write progress event", zap.Error(err))
		}
	}

	result, err := pipeline.Run(r.Context(), opts)
	if result != nil {
		runID = result.RunID.String()
	}
	if err != nil {
		sse.WriteError(err.Error())
		sse.WriteComplete(runID, store.RunStatusFailed)
		return
	}
	sse.WriteEvent("result", result) //nolint:errcheck
	sse.WriteComplete(runID, store.RunStatusCompleted)
}

// handleGetRun returns a recorded pipeline run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFrom(w, &ErrValidation{Field: "id", Message: "invalid run id"})
		return
	}
	if s.cfg.Store == nil {
		s.errorFrom(w, &ErrUnavailable{Feature: "run store"})
		return
	}

	run, err := s.cfg.Store.GetRun(r.Context(), id)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	if run == nil {
		s.errorFrom(w, &ErrRunNotFound{RunID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}
