package vision

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/awside/symtrain-assistant/internal/types"
)

func TestCreateMappingReport(t *testing.T) {
	report := &types.Report{
		TotalSteps:  2,
		MappedSteps: 1,
		Mappings: []types.MappingResult{
			{StepIndex: 0, Step: "Click the Submit button", FileID: "img1", HotspotText: "Submit", HotspotType: "button", RelevanceScore: 1.6, ImageFound: true},
			{StepIndex: 1, Step: "Say hello", HotspotText: NoMatchText},
		},
	}

	rule := strings.Repeat("=", 70)
	expected := rule + "\n" +
		"VISION-BASED STEP-TO-IMAGE MAPPING REPORT\n" +
		rule + "\n" +
		"Total Steps: 2\n" +
		"Successfully Mapped: 1\n" +
		"Mapping Rate: 50.0%\n" +
		rule + "\n\n" +
		"Step 1: Click the Submit button\n" +
		"  Image: img1\n" +
		"  Hotspot: Submit\n" +
		"  Type: button\n" +
		"  Relevance: 1.60\n" +
		"  Image Found: true\n\n" +
		"Step 2: Say hello\n" +
		"  Image: None\n" +
		"  Hotspot: No match found\n" +
		"  Type: N/A\n" +
		"  Relevance: 0.00\n" +
		"  Image Found: false\n\n"

	assert.Equal(t, expected, CreateMappingReport(report))
}

func TestCreateMappingReport_NoSteps(t *testing.T) {
	got := CreateMappingReport(&types.Report{})

	assert.Contains(t, got, "Total Steps: 0")
	assert.Contains(t, got, "Mapping Rate: 0.0%")
}

func TestCreateMappingReport_IncludesErrors(t *testing.T) {
	got := CreateMappingReport(&types.Report{
		TotalSteps:  1,
		MappedSteps: 1,
		Mappings:    []types.MappingResult{{Step: "x", FileID: "a", HotspotText: "y", Error: "image not found: a in ."}},
	})

	assert.Contains(t, got, "  Error: image not found: a in .\n")
}
