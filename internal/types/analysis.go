//nolint:revive // types is a standard Go package name pattern
package types

// Analysis is the LLM-derived summary of one simulation
type Analysis struct {
	FilePath string   `json:"file_path"`
	Name     string   `json:"name"`
	Dialogue string   `json:"dialogue"`
	Reason   string   `json:"reason"`
	Steps    []string `json:"steps"`
	Category string   `json:"category"`
}

// GeneratedSteps is the assistant's answer for a new customer request
type GeneratedSteps struct {
	Category string   `json:"category"`
	Reason   string   `json:"reason"`
	Steps    []string `json:"steps"`
}
