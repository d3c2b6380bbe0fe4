package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awside/symtrain-assistant/internal/types"
)

func TestCollectVisualItems(t *testing.T) {
	sims := []*types.Simulation{
		{FilePath: filepath.Join("data", "acme", "a.json"), VisualItems: []types.VisualItem{
			{FileID: "s1", Hotspots: []types.HotspotRecord{{Name: "Submit", Type: "button"}}},
			{FileID: "shared"},
		}},
		{FilePath: filepath.Join("data", "globex", "b.json"), VisualItems: []types.VisualItem{
			{FileID: "shared"},
			{FileID: ""},
		}},
	}

	items, dirs := CollectVisualItems(sims)

	require.Len(t, items, 4)
	assert.Equal(t, "s1", items[0].FileID)
	assert.Equal(t, map[string]string{
		"s1":     filepath.Join("data", "acme"),
		"shared": filepath.Join("data", "globex"),
	}, dirs)
}

func TestHotspotCounts(t *testing.T) {
	items := []types.VisualItem{
		{Hotspots: []types.HotspotRecord{{Type: "BUTTON"}, {Type: "AUDIO"}}},
		{Hotspots: []types.HotspotRecord{{Type: "audio"}, {Type: "text_field"}, {}}},
	}

	total, visible := HotspotCounts(items)

	assert.Equal(t, 5, total)
	assert.Equal(t, 3, visible)
}
