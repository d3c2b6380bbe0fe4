package vision

import (
	"encoding/json"
	"testing"

	"github.com/awside/symtrain-assistant/internal/types"
)

// hotspot builds an alternate-layout record with fractional settings
func hotspot(t *testing.T, name, typ string, settings map[string]float64) types.HotspotRecord {
	t.Helper()
	record := types.HotspotRecord{Name: name, Type: typ}
	if settings != nil {
		raw, err := json.Marshal(settings)
		if err != nil {
			t.Fatalf("marshal settings: %v", err)
		}
		record.Settings = raw
	}
	return record
}

func canonical(text string, coords types.Coordinates, typ string) types.HotspotRecord {
	return types.HotspotRecord{Text: &text, Coordinates: &coords, Type: typ}
}
