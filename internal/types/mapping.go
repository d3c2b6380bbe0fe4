//nolint:revive // types is a standard Go package name pattern
package types

import "image"

// Mapping joins one resolution step to its best matching hotspot, if any
type Mapping struct {
	StepIndex      int      `json:"step_index"`
	Step           string   `json:"step"`
	FileID         string   `json:"file_id,omitempty"`
	Hotspot        *Hotspot `json:"hotspot,omitempty"`
	RelevanceScore float64  `json:"relevance_score"`

	// Record is the matched hotspot as it appeared in the source document.
	// The annotator re-normalizes it against the real image size.
	Record *HotspotRecord `json:"-"`
}

// Matched reports whether a hotspot was assigned to the step
func (m Mapping) Matched() bool {
	return m.FileID != ""
}

// MappingResult is one step of a vision report
type MappingResult struct {
	StepIndex      int     `json:"step_index"`
	Step           string  `json:"step"`
	FileID         string  `json:"file_id,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
	HotspotText    string  `json:"hotspot_text"`
	HotspotType    string  `json:"hotspot_type,omitempty"`
	ImageFound     bool    `json:"image_found"`
	ImagePath      string  `json:"image_path,omitempty"`
	Annotated      bool    `json:"annotated"`
	OutputPath     string  `json:"output_path,omitempty"`
	Error          string  `json:"error,omitempty"`

	// Image is the rendered highlight, nil unless annotation succeeded
	Image image.Image `json:"-"`
}

// Report aggregates a full vision pipeline run
type Report struct {
	TotalSteps  int             `json:"total_steps"`
	MappedSteps int             `json:"mapped_steps"`
	Mappings    []MappingResult `json:"mappings"`
}

// MappingRate is the percentage of steps that were mapped, 0 when there are no steps
func (r *Report) MappingRate() float64 {
	if r.TotalSteps == 0 {
		return 0
	}
	return float64(r.MappedSteps) / float64(r.TotalSteps) * 100
}
