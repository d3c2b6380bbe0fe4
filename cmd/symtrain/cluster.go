package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/awside/symtrain-assistant/internal/clustering"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Group simulations by transcript similarity",
	Long:  "Embeds every simulation transcript (cached) and groups them with deterministic K-means.",
	RunE:  runCluster,
}

var (
	clusterMembers    int
	clusterOutputFile string
)

func init() {
	f := clusterCmd.Flags()
	f.Int("clusters", 0, "Number of clusters (default from config)")
	f.IntVar(&clusterMembers, "members", 5, "Members listed per cluster (0 for all)")
	f.StringVarP(&clusterOutputFile, "out", "o", "", "Path to output clusters JSON file")
	rootCmd.AddCommand(clusterCmd)
}

func runCluster(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	sims, err := loadSimulations("")
	if err != nil {
		return err
	}

	index, err := buildIndex(ctx, lazyEmbedder(nil), sims)
	if err != nil {
		return err
	}

	result, err := clustering.KMeans(index.Vectors(), appConfig.NClusters, clustering.DefaultSeed)
	if err != nil {
		return err
	}
	logger.Debug("k-means finished", zap.Int("clusters", len(result.Centroids)), zap.Int("iterations", result.Iterations))

	clusters := clustering.Summarize(index.Names(), result.Labels, clusterMembers)
	printer(cmd).PrintClusters(clusters)
	if clusterOutputFile != "" {
		return writeJSON(cmd, clusterOutputFile, clustering.Summarize(index.Names(), result.Labels, 0))
	}
	return nil
}
