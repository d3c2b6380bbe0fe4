package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/awside/symtrain-assistant/internal/dataset"
	"github.com/awside/symtrain-assistant/internal/vision"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Map steps onto screenshots and write annotated images",
	Long:  "Runs the full vision pipeline: assigns steps to hotspots, locates each matched screenshot, draws the highlighted hotspot and writes one image per matched step, then prints the mapping report.",
	RunE:  runProcess,
}

var (
	processSim        string
	processOutputFile string
)

func init() {
	f := processCmd.Flags()
	f.String("steps", "", "File of steps: JSON array, generate output, or one step per line")
	f.StringArray("step", nil, "A step (repeatable)")
	f.StringVar(&processSim, "sim", "", "Use a single simulation file instead of the data directory")
	f.String("image-dir", "", "Fallback screenshot directory")
	f.String("output-dir", "", "Directory for annotated images")
	f.String("font-path", "", "TrueType font for hotspot labels")
	f.StringVarP(&processOutputFile, "out", "o", "", "Path to output report JSON file")
	addMappingFlags(processCmd)
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, _ []string) error {
	steps, err := collectSteps(cmd)
	if err != nil {
		return err
	}
	sims, err := loadSimulations(processSim)
	if err != nil {
		return err
	}

	if appConfig.OutputDir != "" {
		if err := os.MkdirAll(appConfig.OutputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	requestContext, _ := cmd.Flags().GetString("context")
	items, dirs := dataset.CollectVisualItems(sims)
	report := vision.ProcessWithVision(steps, items, vision.ProcessOptions{
		Locator: vision.ImageLocator{
			ImageDirs:      dirs,
			ImageDirectory: appConfig.ImageDir,
		},
		Assign:    assignOptions(requestContext),
		OutputDir: appConfig.OutputDir,
		Annotator: newAnnotator(),
		Logger:    logger,
	})

	_, _ = fmt.Fprint(cmd.OutOrStdout(), vision.CreateMappingReport(report))
	if verbose(cmd) {
		printer(cmd).PrintReportSummary(report)
	}
	if processOutputFile != "" {
		return writeJSON(cmd, processOutputFile, report)
	}
	return nil
}
