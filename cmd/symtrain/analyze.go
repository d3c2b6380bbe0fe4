package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awside/symtrain-assistant/internal/analysis"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract reason, steps and category for every simulation",
	Long:  "Runs reason/step extraction and categorization over each simulation's dialogue. Results are cached by file path and reused while the dialogue is unchanged.",
	RunE:  runAnalyze,
}

var analyzeOutputFile string

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to output analyses JSON file (default: stdout)")
	analyzeCmd.Flags().Bool("no-cache", false, "Ignore and do not update the analysis cache")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	sims, err := loadSimulations("")
	if err != nil {
		return err
	}

	client, err := newClient(ctx, appConfig)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	opts := analysis.AnalyzeOptions{Concurrency: appConfig.Concurrency, Logger: logger}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); !noCache {
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		opts.Cache = st
	}

	analyses, err := analysis.AnalyzeAll(ctx, client, sims, opts)
	if err != nil {
		return err
	}

	if verbose(cmd) {
		p := printer(cmd)
		p.PrintAnalyses(analyses)
		p.PrintCategoryCounts(analyses)
	}

	if err := writeJSON(cmd, analyzeOutputFile, analyses); err != nil {
		return err
	}
	if analyzeOutputFile != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Analyzed %d simulations\n", len(analyses))
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", analyzeOutputFile)
	}
	return nil
}
