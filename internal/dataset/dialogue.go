package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/awside/symtrain-assistant/internal/types"
)

// MergeDialogue joins transcript lines in sequence order into one string,
// keeping speaker roles. Empty lines are dropped.
func MergeDialogue(items []types.AudioItem) string {
	sorted := make([]types.AudioItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SequenceNumber < sorted[j].SequenceNumber
	})

	lines := make([]string, 0, len(sorted))
	for _, item := range sorted {
		transcript := strings.TrimSpace(item.FileTranscript)
		if transcript == "" {
			continue
		}
		lines = append(lines, formatLine(item.Actor, transcript))
	}
	return strings.Join(lines, " ")
}

// Transcript renders one "actor: line" per row in document order
func Transcript(items []types.AudioItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, formatLine(item.Actor, item.FileTranscript))
	}
	return strings.Join(lines, "\n")
}

func formatLine(actor, text string) string {
	if actor == "" {
		actor = UnknownName
	}
	return fmt.Sprintf("%s: %s", actor, text)
}
