package main

import (
	"github.com/spf13/cobra"

	"github.com/awside/symtrain-assistant/internal/dataset"
	"github.com/awside/symtrain-assistant/internal/vision"
)

var mapStepsCmd = &cobra.Command{
	Use:   "map-steps",
	Short: "Assign steps to the best matching screenshot hotspots",
	Long:  "Scores every step against every non-audio hotspot of the selected simulations and assigns each step its best hotspot, spreading steps across images. No images are read.",
	RunE:  runMapSteps,
}

var (
	mapStepsSim        string
	mapStepsOutputFile string
)

func init() {
	f := mapStepsCmd.Flags()
	f.String("steps", "", "File of steps: JSON array, generate output, or one step per line")
	f.StringArray("step", nil, "A step (repeatable)")
	f.StringVar(&mapStepsSim, "sim", "", "Use a single simulation file instead of the data directory")
	f.StringVarP(&mapStepsOutputFile, "out", "o", "", "Path to output mappings JSON file")
	addMappingFlags(mapStepsCmd)
	rootCmd.AddCommand(mapStepsCmd)
}

func runMapSteps(cmd *cobra.Command, _ []string) error {
	steps, err := collectSteps(cmd)
	if err != nil {
		return err
	}
	sims, err := loadSimulations(mapStepsSim)
	if err != nil {
		return err
	}

	requestContext, _ := cmd.Flags().GetString("context")
	items, _ := dataset.CollectVisualItems(sims)
	mappings := vision.MapStepsToImages(steps, items, assignOptions(requestContext))

	if mapStepsOutputFile == "" || verbose(cmd) {
		printer(cmd).PrintMappings(mappings)
	}
	if mapStepsOutputFile != "" {
		return writeJSON(cmd, mapStepsOutputFile, mappings)
	}
	return nil
}
