package vision

import (
	"fmt"
	"strings"

	"github.com/awside/symtrain-assistant/internal/types"
)

const reportRule = "======================================================================"

// CreateMappingReport formats a vision report as plain text
func CreateMappingReport(report *types.Report) string {
	var b strings.Builder

	b.WriteString(reportRule + "\n")
	b.WriteString("VISION-BASED STEP-TO-IMAGE MAPPING REPORT\n")
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "Total Steps: %d\n", report.TotalSteps)
	fmt.Fprintf(&b, "Successfully Mapped: %d\n", report.MappedSteps)
	fmt.Fprintf(&b, "Mapping Rate: %.1f%%\n", report.MappingRate())
	b.WriteString(reportRule + "\n\n")

	for _, m := range report.Mappings {
		fileID := m.FileID
		if fileID == "" {
			fileID = "None"
		}
		hotspotType := m.HotspotType
		if hotspotType == "" {
			hotspotType = "N/A"
		}

		fmt.Fprintf(&b, "Step %d: %s\n", m.StepIndex+1, m.Step)
		fmt.Fprintf(&b, "  Image: %s\n", fileID)
		fmt.Fprintf(&b, "  Hotspot: %s\n", m.HotspotText)
		fmt.Fprintf(&b, "  Type: %s\n", hotspotType)
		fmt.Fprintf(&b, "  Relevance: %.2f\n", m.RelevanceScore)
		fmt.Fprintf(&b, "  Image Found: %t\n", m.ImageFound)
		if m.Error != "" {
			fmt.Fprintf(&b, "  Error: %s\n", m.Error)
		}
		b.WriteString("\n")
	}

	return b.String()
}
