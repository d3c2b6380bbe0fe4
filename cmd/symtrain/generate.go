package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awside/symtrain-assistant/internal/pipeline"
	"github.com/awside/symtrain-assistant/internal/vision"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate resolution steps for a customer request",
	Long: `Analyzes the simulations, categorizes the request and generates steps from
few-shot examples of the same category (or the most similar transcripts when
--similar is set). With --vision the steps are mapped onto the screenshots of
every simulation and annotated images are written to the output directory.`,
	RunE: runGenerate,
}

var (
	generateRequest    string
	generateVision     bool
	generateSimilar    bool
	generateOutputFile string
)

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateRequest, "request", "r", "", "Customer request text (required)")
	f.BoolVar(&generateVision, "vision", false, "Map the generated steps onto screenshots")
	f.BoolVar(&generateSimilar, "similar", false, "Choose examples by transcript embedding similarity")
	f.StringVarP(&generateOutputFile, "out", "o", "", "Path to output result JSON file")
	f.Int("examples", 0, "Number of few-shot examples (default from config)")
	f.String("image-dir", "", "Fallback screenshot directory")
	f.String("output-dir", "", "Directory for annotated images")
	f.String("font-path", "", "TrueType font for hotspot labels")
	addMappingFlags(generateCmd)

	if err := generateCmd.MarkFlagRequired("request"); err != nil {
		panic(fmt.Sprintf("failed to mark request flag as required: %v", err))
	}
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if generateRequest == "" {
		return errors.New("a customer request is required (--request)")
	}
	ctx := cmd.Context()

	client, err := newClient(ctx, appConfig)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	opts := pipeline.RunOptions{
		DataDir:     appConfig.DataDir,
		Request:     generateRequest,
		Client:      client,
		Store:       st,
		NExamples:   appConfig.NExamples,
		Concurrency: appConfig.Concurrency,
		Vision:      generateVision,
		Process: vision.ProcessOptions{
			Locator:   vision.ImageLocator{ImageDirectory: appConfig.ImageDir},
			Assign:    assignOptions(generateRequest),
			OutputDir: appConfig.OutputDir,
			Annotator: newAnnotator(),
			Logger:    logger,
		},
		Verbose: verbose(cmd),
		Printer: printer(cmd),
		Logger:  logger,
	}
	if generateSimilar {
		opts.Embedder = lazyEmbedder(client)
	}

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		return err
	}

	if !opts.Verbose {
		printer(cmd).PrintGeneratedSteps(result.Generated)
		if result.Report != nil {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), vision.CreateMappingReport(result.Report))
		}
	}
	if generateOutputFile != "" {
		if err := writeJSON(cmd, generateOutputFile, result); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", generateOutputFile)
	}
	return nil
}
