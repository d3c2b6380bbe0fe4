package vision

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/awside/symtrain-assistant/internal/logging"
	"github.com/awside/symtrain-assistant/internal/types"
)

// NoMatchText is reported as the hotspot text of an unmatched step
const NoMatchText = "No match found"

// ProcessOptions configures a full map-and-annotate run
type ProcessOptions struct {
	Locator ImageLocator
	Assign  AssignOptions
	// OutputDir, when set, receives one annotated file per matched step
	OutputDir string
	Annotator *Annotator
	Logger    *zap.Logger
}

// DefaultProcessOptions returns options with default assignment settings
func DefaultProcessOptions() ProcessOptions {
	return ProcessOptions{Assign: DefaultAssignOptions()}
}

// ProcessWithVision maps steps onto hotspots and renders a highlighted image
// for every matched step whose screenshot can be found. Failures for one
// step are recorded on its result and never stop the run.
func ProcessWithVision(steps []string, items []types.VisualItem, opts ProcessOptions) *types.Report {
	logger := logging.OrNop(opts.Logger)
	annotator := opts.Annotator
	if annotator == nil {
		annotator = NewAnnotator(logger)
	}
	assign := opts.Assign
	if assign.Logger == nil {
		assign.Logger = logger
	}

	mappings := MapStepsToImages(steps, items, assign)
	report := &types.Report{
		TotalSteps: len(steps),
		Mappings:   make([]types.MappingResult, 0, len(mappings)),
	}

	for _, mapping := range mappings {
		result := types.MappingResult{
			StepIndex:      mapping.StepIndex,
			Step:           mapping.Step,
			FileID:         mapping.FileID,
			RelevanceScore: mapping.RelevanceScore,
			HotspotText:    NoMatchText,
		}

		if mapping.Matched() {
			report.MappedSteps++
			result.HotspotText = mapping.Hotspot.Text
			result.HotspotType = mapping.Hotspot.Type
			renderResult(&result, mapping, annotator, opts, logger)
		}

		report.Mappings = append(report.Mappings, result)
	}

	logger.Info("vision mapping complete",
		zap.Int("total_steps", report.TotalSteps),
		zap.Int("mapped_steps", report.MappedSteps))

	return report
}

func renderResult(result *types.MappingResult, mapping types.Mapping, annotator *Annotator, opts ProcessOptions, logger *zap.Logger) {
	path, err := opts.Locator.Resolve(mapping.FileID)
	if err != nil {
		result.Error = err.Error()
		logger.Warn("image not found",
			zap.Int("step_index", mapping.StepIndex),
			zap.String("file_id", mapping.FileID),
			zap.String("dir", opts.Locator.Dir(mapping.FileID)))
		return
	}
	result.ImageFound = true
	result.ImagePath = path

	if err := annotateResult(result, mapping, annotator, opts.OutputDir); err != nil {
		result.Error = err.Error()
		logger.Warn("failed to annotate image",
			zap.Int("step_index", mapping.StepIndex),
			zap.String("path", path),
			zap.Error(err))
	}
}

// annotateResult renders one mapping, converting a panic in an image decoder
// into an error for that mapping alone
func annotateResult(result *types.MappingResult, mapping types.Mapping, annotator *Annotator, outputDir string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &AnnotateError{Message: fmt.Sprintf("panic while rendering: %v", r)}
		}
	}()

	img, err := annotator.Annotate(result.ImagePath, *mapping.Record)
	if err != nil {
		return err
	}
	result.Image = img
	result.Annotated = true

	if outputDir != "" {
		out := filepath.Join(outputDir, OutputFileName(mapping.StepIndex, mapping.FileID))
		if err := SaveImage(img, out); err != nil {
			return err
		}
		result.OutputPath = out
	}
	return nil
}

// OutputFileName names the annotated image of a step, 1-indexed
func OutputFileName(stepIndex int, fileID string) string {
	base := fileID
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return fmt.Sprintf("step_%02d_%s.png", stepIndex+1, filepath.Base(base))
}
