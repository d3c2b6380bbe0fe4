package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/awside/symtrain-assistant/internal/clustering"
	"github.com/awside/symtrain-assistant/internal/dataset"
	"github.com/awside/symtrain-assistant/internal/search"
	"github.com/awside/symtrain-assistant/internal/types"
)

func TestPrintDatasetStats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDatasetStats(DatasetStats{Simulations: 12, WithDialogue: 10, VisualItems: 30, Hotspots: 80, VisibleHotspots: 64})
	output := buf.String()

	assert.Contains(t, output, "LOADED SIMULATIONS")
	assert.Contains(t, output, "Simulations:      12")
	assert.Contains(t, output, "Non-audio:        64")
}

func TestPrintAnalyses(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	analyses := make([]*types.Analysis, 7)
	for i := range analyses {
		analyses[i] = &types.Analysis{Name: "Sim", Category: "Order Status", Reason: "Track package", Steps: []string{"a", "b"}}
	}

	p.PrintAnalyses(analyses)
	output := buf.String()

	assert.Contains(t, output, "SIMULATION ANALYSIS")
	assert.Contains(t, output, "Analyzed 7 simulations")
	assert.Contains(t, output, "[Order Status] 2 steps")
	assert.Contains(t, output, "... and 2 more simulations")
}

func TestPrintAnalyses_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalyses(nil)
	assert.Empty(t, buf.String())
}

func TestPrintCategoryCounts(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCategoryCounts([]*types.Analysis{
		{Category: "Payment Update"}, {Category: "Order Status"}, {Category: "Payment Update"},
	})
	output := buf.String()

	assert.Contains(t, output, "CATEGORIES")
	assert.Less(t, strings.Index(output, "Payment Update"), strings.Index(output, "Order Status"))
	assert.Regexp(t, `Payment Update\s+2`, output)
}

func TestPrintGeneratedSteps(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintGeneratedSteps(&types.GeneratedSteps{Category: "Payment Update", Reason: "New card", Steps: []string{"Click Billing", "Click Save"}})
	output := buf.String()

	assert.Contains(t, output, "GENERATED STEPS")
	assert.Contains(t, output, "1. Click Billing")
	assert.Contains(t, output, "2. Click Save")

	buf.Reset()
	p.PrintGeneratedSteps(nil)
	assert.Empty(t, buf.String())
}

func TestPrintMappings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMappings([]types.Mapping{
		{StepIndex: 0, Step: "Click Submit", FileID: "img1", Hotspot: &types.Hotspot{Text: "Submit"}, RelevanceScore: 1.6},
		{StepIndex: 1, Step: "Wait"},
	})
	output := buf.String()

	assert.Contains(t, output, "STEP MAPPINGS")
	assert.Contains(t, output, `img1 → "Submit" (1.60)`)
	assert.Contains(t, output, "✗ 2. Wait")
	assert.Contains(t, output, "Mapped 1 of 2 steps")
}

func TestPrintReportSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReportSummary(&types.Report{
		TotalSteps:  2,
		MappedSteps: 1,
		Mappings: []types.MappingResult{
			{ImageFound: true, Annotated: true},
			{Error: "image not found"},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "VISION SUMMARY")
	assert.Contains(t, output, "Mapped:       1 (50.0%)")
	assert.Contains(t, output, "Annotated:    1")
	assert.Contains(t, output, "Errors:       1")
}

func TestPrintSearchResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSearchResults("card", []search.Result{{Name: "pay.json", Score: 0.91234}})
	assert.Contains(t, buf.String(), "#1  0.9123  pay.json")

	buf.Reset()
	p.PrintSearchResults("card", nil)
	assert.Contains(t, buf.String(), "No results")
}

func TestPrintClusters(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintClusters([]clustering.Cluster{{ID: 0, Size: 4, Members: []string{"a", "b"}}})
	output := buf.String()

	assert.Contains(t, output, "=== Cluster 0 === (4)")
	assert.Contains(t, output, "  - a")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintImageSurvey(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintImageSurvey(&dataset.ImageSurvey{
		Root:       "images",
		Total:      3,
		Extensions: map[string]int{".JPG": 1, ".jpg": 2},
		Folders:    map[string]int{"acme": 3},
		Warnings:   []string{"mixed case: .JPG and .jpg"},
	})
	output := buf.String()

	assert.Contains(t, output, "IMAGE SURVEY")
	assert.Contains(t, output, "Images: 3")
	assert.Contains(t, output, "acme (3)")
	assert.Contains(t, output, "⚠ mixed case: .JPG and .jpg")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}
