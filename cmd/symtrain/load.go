package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/awside/symtrain-assistant/internal/dataset"
	"github.com/awside/symtrain-assistant/internal/observability"
	"github.com/awside/symtrain-assistant/internal/schemas"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load simulations and print dataset counts",
	Long:  "Loads every simulation JSON file under the data directory and reports simulation, visual item and hotspot counts, optionally validating each file against the simulation schema.",
	RunE:  runLoad,
}

var loadValidate bool

func init() {
	loadCmd.Flags().BoolVar(&loadValidate, "validate", false, "Validate every document against the simulation schema")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, _ []string) error {
	sims, err := loadSimulations("")
	if err != nil {
		return err
	}

	items, _ := dataset.CollectVisualItems(sims)
	total, visible := dataset.HotspotCounts(items)
	stats := observability.DatasetStats{
		Simulations:     len(sims),
		VisualItems:     len(items),
		Hotspots:        total,
		VisibleHotspots: visible,
	}
	for _, sim := range sims {
		if len(sim.AudioItems) > 0 {
			stats.WithDialogue++
		}
	}
	printer(cmd).PrintDatasetStats(stats)

	if !loadValidate {
		return nil
	}

	// Schema problems are reported, never fatal
	invalid := 0
	for _, sim := range sims {
		err := schemas.ValidateSimulationFile(sim.FilePath)
		if err == nil {
			continue
		}
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			invalid++
			_, _ = fmt.Fprint(cmd.OutOrStdout(), validationErr.Error())
			continue
		}
		logger.Warn("could not validate simulation", zap.String("path", sim.FilePath), zap.Error(err))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Schema validation: %d of %d documents valid\n", len(sims)-invalid, len(sims))
	return nil
}
