// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/awside/symtrain-assistant/internal/clustering"
	"github.com/awside/symtrain-assistant/internal/dataset"
	"github.com/awside/symtrain-assistant/internal/search"
	"github.com/awside/symtrain-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// DatasetStats summarizes a loaded simulation set
type DatasetStats struct {
	Simulations     int
	WithDialogue    int
	VisualItems     int
	Hotspots        int
	VisibleHotspots int
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDatasetStats outputs simulation and hotspot counts.
func (p *Printer) PrintDatasetStats(stats DatasetStats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Simulations:      %d\n", stats.Simulations))
	sb.WriteString(fmt.Sprintf("With dialogue:    %d\n", stats.WithDialogue))
	sb.WriteString(fmt.Sprintf("Visual items:     %d\n", stats.VisualItems))
	sb.WriteString(fmt.Sprintf("Hotspots:         %d\n", stats.Hotspots))
	sb.WriteString(fmt.Sprintf("Non-audio:        %d", stats.VisibleHotspots))

	p.printBox("LOADED SIMULATIONS", sb.String())
}

// PrintAnalyses outputs the first few analyses with their category and step count.
func (p *Printer) PrintAnalyses(analyses []*types.Analysis) {
	if len(analyses) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analyzed %d simulations\n\n", len(analyses)))

	count := min(len(analyses), maxItemsToShow)
	for i := 0; i < count; i++ {
		a := analyses[i]
		sb.WriteString(fmt.Sprintf("• %s\n", a.Name))
		sb.WriteString(fmt.Sprintf("  [%s] %d steps\n", a.Category, len(a.Steps)))
		sb.WriteString(fmt.Sprintf("  %s\n", a.Reason))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(analyses) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more simulations", len(analyses)-maxItemsToShow))
	}

	p.printBox("SIMULATION ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCategoryCounts outputs how many analyses fall in each category, in first-seen order.
func (p *Printer) PrintCategoryCounts(analyses []*types.Analysis) {
	if len(analyses) == 0 {
		return
	}

	counts := make(map[string]int)
	var order []string
	for _, a := range analyses {
		if counts[a.Category] == 0 {
			order = append(order, a.Category)
		}
		counts[a.Category]++
	}

	var sb strings.Builder
	for _, c := range order {
		sb.WriteString(fmt.Sprintf("%-30s %d\n", c, counts[c]))
	}
	p.printBox("CATEGORIES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGeneratedSteps outputs the assistant's answer for a request.
func (p *Printer) PrintGeneratedSteps(generated *types.GeneratedSteps) {
	if generated == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Category: %s\n", generated.Category))
	sb.WriteString(fmt.Sprintf("Reason:   %s\n", generated.Reason))
	sb.WriteString("\n")
	for i, step := range generated.Steps {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}

	p.printBox("GENERATED STEPS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMappings outputs each step with its matched image and score.
func (p *Printer) PrintMappings(mappings []types.Mapping) {
	if len(mappings) == 0 {
		return
	}

	var sb strings.Builder
	mapped := 0
	for i, m := range mappings {
		if m.Matched() {
			mapped++
			sb.WriteString(fmt.Sprintf("✓ %d. %s\n", m.StepIndex+1, m.Step))
			sb.WriteString(fmt.Sprintf("    %s → %q (%.2f)\n", m.FileID, m.Hotspot.Text, m.RelevanceScore))
		} else {
			sb.WriteString(fmt.Sprintf("✗ %d. %s\n", m.StepIndex+1, m.Step))
		}
		if i < len(mappings)-1 {
			sb.WriteString("\n")
		}
	}
	sb.WriteString(fmt.Sprintf("\nMapped %d of %d steps", mapped, len(mappings)))

	p.printBox("STEP MAPPINGS", sb.String())
}

// PrintReportSummary outputs mapping and annotation totals for a vision run.
func (p *Printer) PrintReportSummary(report *types.Report) {
	if report == nil {
		return
	}

	found, annotated, failed := 0, 0, 0
	for _, m := range report.Mappings {
		if m.ImageFound {
			found++
		}
		if m.Annotated {
			annotated++
		}
		if m.Error != "" {
			failed++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Steps:        %d\n", report.TotalSteps))
	sb.WriteString(fmt.Sprintf("Mapped:       %d (%.1f%%)\n", report.MappedSteps, report.MappingRate()))
	sb.WriteString(fmt.Sprintf("Images found: %d\n", found))
	sb.WriteString(fmt.Sprintf("Annotated:    %d\n", annotated))
	sb.WriteString(fmt.Sprintf("Errors:       %d", failed))

	p.printBox("VISION SUMMARY", sb.String())
}

// PrintSearchResults outputs ranked similarity matches.
func (p *Printer) PrintSearchResults(query string, results []search.Result) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Query: %s\n\n", query))
	if len(results) == 0 {
		sb.WriteString("No results")
	}
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("#%d  %.4f  %s", i+1, r.Score, r.Name))
		if i < len(results)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SIMILAR SIMULATIONS", sb.String())
}

// PrintClusters outputs each cluster's size and sample members.
func (p *Printer) PrintClusters(clusters []clustering.Cluster) {
	if len(clusters) == 0 {
		return
	}

	var sb strings.Builder
	for i, c := range clusters {
		sb.WriteString(fmt.Sprintf("=== Cluster %d === (%d)\n", c.ID, c.Size))
		for _, name := range c.Members {
			sb.WriteString(fmt.Sprintf("  - %s\n", name))
		}
		if c.Size > len(c.Members) {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", c.Size-len(c.Members)))
		}
		if i < len(clusters)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("CLUSTERS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImageSurvey outputs extension and folder counts with case warnings.
func (p *Printer) PrintImageSurvey(survey *dataset.ImageSurvey) {
	if survey == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Root:   %s\n", survey.Root))
	sb.WriteString(fmt.Sprintf("Images: %d\n", survey.Total))

	if len(survey.Extensions) > 0 {
		sb.WriteString("\nExtensions:\n")
		for _, ext := range survey.SortedExtensions() {
			sb.WriteString(fmt.Sprintf("  • %-8s %d\n", ext, survey.Extensions[ext]))
		}
	}

	if len(survey.Folders) > 0 {
		sb.WriteString("\nFolders:\n")
		folders := survey.SortedFolders()
		count := min(len(folders), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s (%d)\n", folders[i], survey.Folders[folders[i]]))
		}
		if len(folders) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(folders)-maxItemsToShow))
		}
	}

	for _, w := range survey.Warnings {
		sb.WriteString(fmt.Sprintf("\n⚠ %s", w))
	}

	p.printBox("IMAGE SURVEY", strings.TrimSuffix(sb.String(), "\n"))
}

// shorten truncates s to width runes, marking the cut with "..."
func shorten(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
