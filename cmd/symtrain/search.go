package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awside/symtrain-assistant/internal/embeddings"
	"github.com/awside/symtrain-assistant/internal/search"
	"github.com/awside/symtrain-assistant/internal/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find the simulations most similar to a query",
	Long:  "Embeds every simulation transcript (cached) and the query, then ranks the simulations by cosine similarity.",
	RunE:  runSearch,
}

var (
	searchQuery      string
	searchOutputFile string
)

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchQuery, "query", "q", "", "Query text (required)")
	f.Int("top-k", 0, "Number of results (default from config)")
	f.StringVarP(&searchOutputFile, "out", "o", "", "Path to output results JSON file")
	if err := searchCmd.MarkFlagRequired("query"); err != nil {
		panic(fmt.Sprintf("failed to mark query flag as required: %v", err))
	}
	rootCmd.AddCommand(searchCmd)
}

// buildIndex embeds the transcripts of sims through the cache
func buildIndex(ctx context.Context, embedder *embeddings.Lazy, sims []*types.Simulation) (*embeddings.Index, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()

	docs := embeddings.DocumentsFromSimulations(sims)
	if len(docs) == 0 {
		return nil, errors.New("no simulation has a transcript to embed")
	}
	index, err := embeddings.BuildIndex(ctx, embedder, docs, appConfig.Concurrency, st)
	if err != nil {
		return nil, fmt.Errorf("failed to build embedding index: %w", err)
	}
	return index, nil
}

func runSearch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	sims, err := loadSimulations("")
	if err != nil {
		return err
	}

	embedder := lazyEmbedder(nil)
	index, err := buildIndex(ctx, embedder, sims)
	if err != nil {
		return err
	}

	results, err := search.Query(ctx, embedder, index, searchQuery, appConfig.TopK)
	if err != nil {
		return err
	}

	printer(cmd).PrintSearchResults(searchQuery, results)
	if searchOutputFile != "" {
		return writeJSON(cmd, searchOutputFile, results)
	}
	return nil
}
