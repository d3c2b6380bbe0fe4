//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHotspotRecord_UnmarshalSettingsLayout(t *testing.T) {
	input := `{
		"name": "Card Number",
		"type": "TEXT_FIELD",
		"settings": {"positionX": 0.25, "positionY": 0.5, "width": 0.2, "height": 0.05}
	}`

	var record HotspotRecord
	require.NoError(t, json.Unmarshal([]byte(input), &record))

	assert.Equal(t, SchemaSettings, record.Schema())
	assert.Equal(t, "Card Number", record.Name)
	assert.False(t, record.IsAudio())

	settings, ok := record.ParseSettings()
	require.True(t, ok)
	require.NotNil(t, settings.PositionX)
	assert.Equal(t, 0.25, *settings.PositionX)
	require.NotNil(t, settings.Height)
	assert.Equal(t, 0.05, *settings.Height)
}

func TestHotspotRecord_UnmarshalCanonicalLayout(t *testing.T) {
	input := `{"text": "Submit", "type": "button", "coordinates": {"x": 10.7, "y": 20, "width": 100, "height": 40}}`

	var record HotspotRecord
	require.NoError(t, json.Unmarshal([]byte(input), &record))

	assert.Equal(t, SchemaCanonical, record.Schema())
	require.NotNil(t, record.Coordinates)
	assert.Equal(t, Coordinates{X: 10, Y: 20, Width: 100, Height: 40}, *record.Coordinates)
}

func TestHotspotRecord_ParseSettings_NotAnObject(t *testing.T) {
	cases := map[string]string{
		"absent": `{"name": "x"}`,
		"string": `{"name": "x", "settings": "none"}`,
		"array":  `{"name": "x", "settings": [1, 2]}`,
		"null":   `{"name": "x", "settings": null}`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			var record HotspotRecord
			require.NoError(t, json.Unmarshal([]byte(input), &record))
			_, ok := record.ParseSettings()
			assert.False(t, ok)
		})
	}
}

func TestHotspotRecord_IsAudio(t *testing.T) {
	assert.True(t, HotspotRecord{Type: "AUDIO"}.IsAudio())
	assert.True(t, HotspotRecord{Type: "audio"}.IsAudio())
	assert.False(t, HotspotRecord{Type: "BUTTON"}.IsAudio())
	assert.False(t, HotspotRecord{}.IsAudio())
}

func TestSimulation_JSONUnmarshaling(t *testing.T) {
	input := `{
		"name": "Payment Update",
		"audioContentItems": [
			{"actor": "Customer", "fileTranscript": "Hi, I need to update my card.", "sequenceNumber": 1}
		],
		"visualContentItems": [
			{"fileId": "screen_01", "hotspots": [{"name": "Update Card", "type": "BUTTON"}]}
		]
	}`

	var sim Simulation
	require.NoError(t, json.Unmarshal([]byte(input), &sim))
	assert.Equal(t, "Payment Update", sim.Name)
	require.Len(t, sim.AudioItems, 1)
	assert.Equal(t, "Customer", sim.AudioItems[0].Actor)
	require.Len(t, sim.VisualItems, 1)
	assert.Equal(t, "screen_01", sim.VisualItems[0].FileID)
	require.Len(t, sim.VisualItems[0].Hotspots, 1)
	assert.Equal(t, "BUTTON", sim.VisualItems[0].Hotspots[0].Type)
}

func TestMapping_JSONOmitsUnmatchedFields(t *testing.T) {
	m := Mapping{StepIndex: 2, Step: "Say goodbye"}
	assert.False(t, m.Matched())

	jsonBytes, err := json.Marshal(m)
	require.NoError(t, err)
	assert.NotContains(t, string(jsonBytes), "file_id")
	assert.NotContains(t, string(jsonBytes), "hotspot")
	assert.Contains(t, string(jsonBytes), `"relevance_score":0`)
}
