package dataset

import (
	"path/filepath"

	"github.com/awside/symtrain-assistant/internal/types"
)

// CollectVisualItems concatenates the visual items of every simulation and
// maps each file id to the directory of the document that declared it.
// When two documents declare the same id, the later one wins.
func CollectVisualItems(sims []*types.Simulation) ([]types.VisualItem, map[string]string) {
	var items []types.VisualItem
	dirs := make(map[string]string)

	for _, sim := range sims {
		dir := filepath.Dir(sim.FilePath)
		for _, item := range sim.VisualItems {
			if item.FileID != "" {
				dirs[item.FileID] = dir
			}
			items = append(items, item)
		}
	}
	return items, dirs
}

// HotspotCounts returns the total number of hotspots and the number that
// are not audio cues
func HotspotCounts(items []types.VisualItem) (total, visible int) {
	for _, item := range items {
		for _, h := range item.Hotspots {
			total++
			if !h.IsAudio() {
				visible++
			}
		}
	}
	return total, visible
}
