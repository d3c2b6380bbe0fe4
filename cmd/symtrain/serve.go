package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/awside/symtrain-assistant/internal/llm"
	"github.com/awside/symtrain-assistant/internal/server"
	"github.com/awside/symtrain-assistant/internal/server/ratelimit"
	"github.com/awside/symtrain-assistant/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing /map and /report over the vision core. When an
LLM API key is available, /generate and /generate/stream run the request pipeline
against the data directory.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("image-dir", "", "Screenshot directory /report may read besides the data directory")
	addMappingFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Generation is optional; mapping endpoints work without an LLM
	var client llm.Client
	if c, err := newClient(ctx, appConfig); err != nil {
		logger.Warn("step generation disabled", zap.Error(err))
	} else {
		client = c
		defer func() { _ = client.Close() }()
	}

	var st store.Store
	if s, err := openStore(ctx); err != nil {
		logger.Warn("run store disabled", zap.Error(err))
	} else {
		st = s
		defer func() { _ = st.Close() }()
	}

	cfg := server.Config{
		Port:        appConfig.Port,
		Logger:      logger,
		Assign:      assignOptions(""),
		DataDir:     appConfig.DataDir,
		ImageDir:    appConfig.ImageDir,
		Client:      client,
		Store:       st,
		NExamples:   appConfig.NExamples,
		Concurrency: appConfig.Concurrency,
		RateLimit:   ratelimit.LoadConfig(),
	}
	if client != nil {
		cfg.Embedder = lazyEmbedder(client)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Listening on :%d\n", appConfig.Port)
	return server.New(cfg).Start()
}
