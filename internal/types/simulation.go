// Package types provides type definitions for structured data used throughout the symtrain assistant.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Simulation represents one parsed customer-service simulation document
type Simulation struct {
	Name        string       `json:"name"`
	FilePath    string       `json:"file_path"`
	FileName    string       `json:"file_name"`
	Company     string       `json:"company"`
	AudioItems  []AudioItem  `json:"audioContentItems"`
	VisualItems []VisualItem `json:"visualContentItems"`
}

// AudioItem represents a single transcript line of a simulation
type AudioItem struct {
	Actor          string `json:"actor"`
	FileTranscript string `json:"fileTranscript"`
	SequenceNumber int    `json:"sequenceNumber"`
}

// VisualItem represents one screenshot and its hotspot annotations
type VisualItem struct {
	FileID   string          `json:"fileId"`
	Hotspots []HotspotRecord `json:"hotspots"`
}
