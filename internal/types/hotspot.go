//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// HotspotSchema identifies which of the two known hotspot record layouts a record uses
type HotspotSchema int

const (
	// SchemaSettings is the alternate layout: name, type and fractional settings
	SchemaSettings HotspotSchema = iota
	// SchemaCanonical is the layout that already carries text and pixel coordinates
	SchemaCanonical
)

// HotspotRecord is a hotspot as it appears in a simulation document.
// Exactly one of the two layouts is meaningful; see Schema.
type HotspotRecord struct {
	// Canonical layout
	Text        *string      `json:"text,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`

	// Alternate layout
	Name     string          `json:"name,omitempty"`
	Type     string          `json:"type,omitempty"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

// Schema reports the layout of the record
func (r HotspotRecord) Schema() HotspotSchema {
	if r.Text != nil && r.Coordinates != nil {
		return SchemaCanonical
	}
	return SchemaSettings
}

// IsAudio reports whether the record is an audio cue rather than a visible element
func (r HotspotRecord) IsAudio() bool {
	return strings.EqualFold(r.Type, "AUDIO")
}

// HotspotSettings holds the fractional placement of an alternate-layout hotspot.
// Nil fields were absent from the document.
type HotspotSettings struct {
	PositionX *float64 `json:"positionX"`
	PositionY *float64 `json:"positionY"`
	Width     *float64 `json:"width"`
	Height    *float64 `json:"height"`
}

// ParseSettings decodes the settings object. ok is false when settings are
// absent or are not a JSON object.
func (r HotspotRecord) ParseSettings() (settings HotspotSettings, ok bool) {
	raw := bytes.TrimSpace(r.Settings)
	if len(raw) == 0 || raw[0] != '{' {
		return HotspotSettings{}, false
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return HotspotSettings{}, false
	}
	return settings, true
}

// Coordinates is an absolute pixel box
type Coordinates struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// UnmarshalJSON accepts fractional pixel values and truncates them
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var aux struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Coordinates{X: int(aux.X), Y: int(aux.Y), Width: int(aux.Width), Height: int(aux.Height)}
	return nil
}

// Hotspot is the canonical form every record is normalized into
type Hotspot struct {
	Text        string      `json:"text"`
	Type        string      `json:"type"`
	Coordinates Coordinates `json:"coordinates"`
}
