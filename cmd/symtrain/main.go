// Package main provides the symtrain CLI: simulation analysis, step
// generation and step-to-screenshot mapping.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/awside/symtrain-assistant/internal/config"
	"github.com/awside/symtrain-assistant/internal/logging"
)

var (
	configPath string

	// appConfig and logger are populated before every subcommand runs
	appConfig config.Config
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "symtrain",
	Short: "Customer-service simulation assistant",
	Long: `symtrain analyzes recorded customer-service simulations, generates resolution
steps for new customer requests from similar past cases, and maps those steps onto
the screenshots and hotspots of the simulations.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	pf.String("data-dir", "", "Directory of simulation JSON files")
	pf.String("provider", "", "LLM provider (gemini, ollama)")
	pf.String("model", "", "Model name for every tier")
	pf.String("api-key", "", "LLM API key (overrides GEMINI_API_KEY / OLLAMA_API_KEY)")
	pf.String("database-url", "", "PostgreSQL URL for the cache (default: local SQLite)")
	pf.String("sqlite-path", "", "SQLite cache path")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("log-format", "", "Log format (console, json)")
	pf.Int("concurrency", 0, "Parallel LLM and embedding calls")
	pf.BoolP("verbose", "v", false, "Print formatted summaries")
}

// setup loads the config file and environment, fills defaults, applies
// explicitly set flags and builds the logger
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg := loaded.MergeWithDefaults(config.Defaults())
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg

	l, err := logging.New(cfg.LoggingConfig())
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
