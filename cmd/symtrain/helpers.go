package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/awside/symtrain-assistant/internal/config"
	"github.com/awside/symtrain-assistant/internal/dataset"
	"github.com/awside/symtrain-assistant/internal/embeddings"
	"github.com/awside/symtrain-assistant/internal/llm"
	"github.com/awside/symtrain-assistant/internal/observability"
	"github.com/awside/symtrain-assistant/internal/store"
	"github.com/awside/symtrain-assistant/internal/types"
	"github.com/awside/symtrain-assistant/internal/vision"
)

// newClient builds the LLM client; replaced in tests
var newClient = func(ctx context.Context, cfg config.Config) (llm.Client, error) {
	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" && llm.Provider(cfg.Provider) == llm.ProviderGemini {
		return nil, errors.New("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}
	return llm.NewClient(ctx, cfg.LLMConfig(), apiKey)
}

// applyFlags copies every flag the user set explicitly onto cfg. Flags win
// over the config file, the environment and the defaults.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	stringFlag(f, "data-dir", &cfg.DataDir)
	stringFlag(f, "image-dir", &cfg.ImageDir)
	stringFlag(f, "output-dir", &cfg.OutputDir)
	stringFlag(f, "font-path", &cfg.FontPath)
	stringFlag(f, "sqlite-path", &cfg.SQLitePath)
	stringFlag(f, "provider", &cfg.Provider)
	stringFlag(f, "model", &cfg.Model)
	stringFlag(f, "api-key", &cfg.APIKey)
	stringFlag(f, "database-url", &cfg.DatabaseURL)
	stringFlag(f, "log-level", &cfg.LogLevel)
	stringFlag(f, "log-format", &cfg.LogFormat)
	floatFlag(f, "threshold", &cfg.Threshold)
	floatFlag(f, "diversity-penalty", &cfg.DiversityPenalty)
	intFlag(f, "max-image-reuse", &cfg.MaxImageReuse)
	intFlag(f, "examples", &cfg.NExamples)
	intFlag(f, "top-k", &cfg.TopK)
	intFlag(f, "clusters", &cfg.NClusters)
	intFlag(f, "concurrency", &cfg.Concurrency)
	intFlag(f, "port", &cfg.Port)
	if f.Changed("debug") {
		cfg.Debug, _ = f.GetBool("debug")
	}
}

func stringFlag(f *pflag.FlagSet, name string, dst *string) {
	if f.Changed(name) {
		if v, err := f.GetString(name); err == nil {
			*dst = v
		}
	}
}

func floatFlag(f *pflag.FlagSet, name string, dst *float64) {
	if f.Changed(name) {
		if v, err := f.GetFloat64(name); err == nil {
			*dst = v
		}
	}
}

func intFlag(f *pflag.FlagSet, name string, dst *int) {
	if f.Changed(name) {
		if v, err := f.GetInt(name); err == nil {
			*dst = v
		}
	}
}

// addMappingFlags registers the assignment tuning flags on cmd
func addMappingFlags(cmd *cobra.Command) {
	cmd.Flags().String("context", "", "Customer request used for domain bonuses")
	cmd.Flags().Float64("threshold", vision.DefaultThreshold, "Minimum hotspot score")
	cmd.Flags().Int("max-image-reuse", vision.DefaultMaxImageReuse, "Maximum steps mapped to one image")
	cmd.Flags().Float64("diversity-penalty", vision.DefaultDiversityPenalty, "Score penalty per prior use of an image")
	cmd.Flags().Bool("debug", false, "Log every candidate and assignment decision")
}

// assignOptions builds assignment settings from the merged configuration
func assignOptions(requestContext string) vision.AssignOptions {
	return vision.AssignOptions{
		Threshold:        appConfig.Threshold,
		RequestContext:   requestContext,
		MaxImageReuse:    appConfig.MaxImageReuse,
		DiversityPenalty: appConfig.DiversityPenalty,
		Debug:            appConfig.Debug,
		Logger:           logger,
	}
}

func newAnnotator() *vision.Annotator {
	a := vision.NewAnnotator(logger)
	if appConfig.FontPath != "" {
		a.FontPath = appConfig.FontPath
	}
	return a
}

func printer(cmd *cobra.Command) *observability.Printer {
	return observability.NewPrinter(cmd.OutOrStdout())
}

func verbose(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("verbose")
	return v
}

// loadSimulations loads one document when sim is set, else the data directory
func loadSimulations(sim string) ([]*types.Simulation, error) {
	if sim != "" {
		s, err := dataset.LoadSimulation(sim)
		if err != nil {
			return nil, err
		}
		return []*types.Simulation{s}, nil
	}
	if appConfig.DataDir == "" {
		return nil, errors.New("a data directory is required (--data-dir)")
	}
	sims, err := dataset.LoadSimulations(appConfig.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load simulations: %w", err)
	}
	if len(sims) == 0 {
		return nil, fmt.Errorf("no simulations found in %s", appConfig.DataDir)
	}
	return sims, nil
}

func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, store.Config{
		DatabaseURL: appConfig.DatabaseURL,
		SQLitePath:  appConfig.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return st, nil
}

// lazyEmbedder defers client construction until the first embedding and
// fails when the provider cannot embed
func lazyEmbedder(client llm.Client) *embeddings.Lazy {
	return embeddings.NewLazy(func(ctx context.Context) (llm.Embedder, error) {
		c := client
		if c == nil {
			var err error
			if c, err = newClient(ctx, appConfig); err != nil {
				return nil, err
			}
		}
		emb, ok := c.(llm.Embedder)
		if !ok {
			return nil, fmt.Errorf("provider %q does not support embeddings", appConfig.Provider)
		}
		return emb, nil
	})
}

// readSteps accepts a JSON array of strings, a JSON object with a "steps"
// field, or plain text with one step per line
func readSteps(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read steps file: %w", err)
	}
	data = bytes.TrimSpace(data)

	switch {
	case len(data) > 0 && data[0] == '[':
		var steps []string
		if err := json.Unmarshal(data, &steps); err != nil {
			return nil, fmt.Errorf("failed to parse steps JSON: %w", err)
		}
		return steps, nil
	case len(data) > 0 && data[0] == '{':
		var doc struct {
			Steps []string `json:"steps"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse steps JSON: %w", err)
		}
		return doc.Steps, nil
	}

	var steps []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			steps = append(steps, line)
		}
	}
	return steps, scanner.Err()
}

// collectSteps merges --steps file contents and repeated --step flags
func collectSteps(cmd *cobra.Command) ([]string, error) {
	var steps []string
	if path, _ := cmd.Flags().GetString("steps"); path != "" {
		fromFile, err := readSteps(path)
		if err != nil {
			return nil, err
		}
		steps = append(steps, fromFile...)
	}
	inline, _ := cmd.Flags().GetStringArray("step")
	steps = append(steps, inline...)
	if len(steps) == 0 {
		return nil, errors.New("no steps given (use --steps or --step)")
	}
	return steps, nil
}

// writeJSON writes v to path, creating parent directories. An empty path
// writes to the command's output.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
