// Package vision maps free-text resolution steps onto annotated UI screenshots
// and renders highlighted copies of the matched hotspots.
package vision

import (
	"image"
	"strings"

	"github.com/awside/symtrain-assistant/internal/types"
)

// DefaultImageSize is used to denormalize fractional coordinates when the
// real image size is not known yet (scoring and assignment).
var DefaultImageSize = image.Pt(1200, 800)

// Fractional defaults for missing settings fields
const (
	defaultPositionX = 0.0
	defaultPositionY = 0.0
	defaultWidth     = 0.1
	defaultHeight    = 0.05
)

// defaultBox is used when a record carries no usable settings object
var defaultBox = types.Coordinates{X: 0, Y: 0, Width: 100, Height: 40}

// typeMapping maps alternate-layout type names to the canonical vocabulary
var typeMapping = map[string]string{
	"button":     "button",
	"text_field": "input_field",
	"audio":      "audio",
	"highlight":  "highlight",
}

// Normalize converts a hotspot record of either layout into the canonical
// shape with absolute pixel coordinates for an image of the given size.
// Canonical records are returned unchanged. Missing fields never fail.
func Normalize(record types.HotspotRecord, size image.Point) types.Hotspot {
	if record.Schema() == types.SchemaCanonical {
		return types.Hotspot{
			Text:        *record.Text,
			Type:        record.Type,
			Coordinates: *record.Coordinates,
		}
	}

	return types.Hotspot{
		Text:        record.Name,
		Type:        canonicalType(record.Type),
		Coordinates: denormalize(record, size),
	}
}

func canonicalType(raw string) string {
	lower := strings.ToLower(raw)
	if canonical, ok := typeMapping[lower]; ok {
		return canonical
	}
	return lower
}

func denormalize(record types.HotspotRecord, size image.Point) types.Coordinates {
	settings, ok := record.ParseSettings()
	if !ok {
		return defaultBox
	}

	posX := valueOr(settings.PositionX, defaultPositionX)
	posY := valueOr(settings.PositionY, defaultPositionY)
	width := valueOr(settings.Width, defaultWidth)
	height := valueOr(settings.Height, defaultHeight)

	return types.Coordinates{
		X:      int(posX * float64(size.X)),
		Y:      int(posY * float64(size.Y)),
		Width:  int(width * float64(size.X)),
		Height: int(height * float64(size.Y)),
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
