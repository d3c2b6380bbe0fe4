package vision

import (
	"sort"

	"go.uber.org/zap"

	"github.com/awside/symtrain-assistant/internal/types"
)

// Assignment defaults
const (
	DefaultThreshold        = 0.15
	DefaultMaxImageReuse    = 3
	DefaultDiversityPenalty = 0.15
)

// AssignOptions controls step-to-image assignment
type AssignOptions struct {
	// Threshold is the minimum raw score a hotspot needs to be considered
	Threshold float64
	// RequestContext is the customer's original request, used for domain bonuses
	RequestContext string
	// MaxImageReuse caps how many steps may be assigned to one image
	MaxImageReuse int
	// DiversityPenalty is subtracted from a candidate's score once per prior use of its image
	DiversityPenalty float64
	// Debug logs every candidate with a positive score and each decision at debug level
	Debug  bool
	Logger *zap.Logger
}

// DefaultAssignOptions returns the standard assignment settings
func DefaultAssignOptions() AssignOptions {
	return AssignOptions{
		Threshold:        DefaultThreshold,
		MaxImageReuse:    DefaultMaxImageReuse,
		DiversityPenalty: DefaultDiversityPenalty,
	}
}

// imageUsage counts how many steps have claimed each image during one call
type imageUsage struct {
	counts map[string]int
}

func newImageUsage() *imageUsage {
	return &imageUsage{counts: make(map[string]int)}
}

func (u *imageUsage) count(fileID string) int {
	return u.counts[fileID]
}

func (u *imageUsage) claim(fileID string) {
	u.counts[fileID]++
}

type candidate struct {
	fileID   string
	record   *types.HotspotRecord
	hotspot  types.Hotspot
	score    float64
	adjusted float64
}

// MapStepsToImages assigns each step its best hotspot across all visual items.
// Steps are processed in order and earlier steps get first claim on an image.
// Audio hotspots are never considered. A step with no candidate at or above
// the threshold gets an unmatched Mapping with score 0.
func MapStepsToImages(steps []string, items []types.VisualItem, opts AssignOptions) []types.Mapping {
	logger := zap.NewNop()
	if opts.Debug && opts.Logger != nil {
		logger = opts.Logger
	}

	usage := newImageUsage()
	mappings := make([]types.Mapping, 0, len(steps))

	for i, step := range steps {
		mapping := types.Mapping{StepIndex: i, Step: step}
		candidates := collectCandidates(step, items, opts, usage, logger)

		logger.Debug("scored step",
			zap.Int("step_index", i),
			zap.String("step", step),
			zap.Int("candidates", len(candidates)))

		if chosen := chooseCandidate(candidates, usage, opts.MaxImageReuse); chosen != nil {
			usage.claim(chosen.fileID)
			hotspot := chosen.hotspot
			mapping.FileID = chosen.fileID
			mapping.Hotspot = &hotspot
			mapping.Record = chosen.record
			mapping.RelevanceScore = chosen.score

			logger.Debug("assigned hotspot",
				zap.Int("step_index", i),
				zap.String("file_id", chosen.fileID),
				zap.String("hotspot", chosen.hotspot.Text),
				zap.Float64("score", chosen.score),
				zap.Float64("adjusted", chosen.adjusted),
				zap.Int("image_uses", usage.count(chosen.fileID)))
		} else {
			logger.Debug("no hotspot above threshold",
				zap.Int("step_index", i),
				zap.Float64("threshold", opts.Threshold))
		}

		mappings = append(mappings, mapping)
	}

	return mappings
}

func collectCandidates(step string, items []types.VisualItem, opts AssignOptions, usage *imageUsage, logger *zap.Logger) []candidate {
	scorer := newStepScorer(step, opts.RequestContext)

	var candidates []candidate
	for _, item := range items {
		for j := range item.Hotspots {
			record := &item.Hotspots[j]
			if record.IsAudio() {
				continue
			}
			hotspot := Normalize(*record, DefaultImageSize)
			score := scorer.score(hotspot)
			if score > 0 {
				logger.Debug("hotspot candidate",
					zap.String("file_id", item.FileID),
					zap.String("hotspot", hotspot.Text),
					zap.String("type", hotspot.Type),
					zap.Float64("score", score))
			}
			if score < opts.Threshold {
				continue
			}
			candidates = append(candidates, candidate{
				fileID:   item.FileID,
				record:   record,
				hotspot:  hotspot,
				score:    score,
				adjusted: score - float64(usage.count(item.FileID))*opts.DiversityPenalty,
			})
		}
	}
	return candidates
}

// chooseCandidate picks the first candidate with the highest adjusted score.
// If its image is at the reuse cap it falls back to the best ranked candidate
// whose image is still under the cap.
func chooseCandidate(candidates []candidate, usage *imageUsage, maxReuse int) *candidate {
	if len(candidates) == 0 {
		return nil
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].adjusted > candidates[best].adjusted {
			best = i
		}
	}
	if usage.count(candidates[best].fileID) < maxReuse {
		return &candidates[best]
	}

	ranked := make([]candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].adjusted > ranked[j].adjusted
	})
	for i := range ranked {
		if usage.count(ranked[i].fileID) < maxReuse {
			return &ranked[i]
		}
	}
	return nil
}
