// File path: cmd/coddog/cluster.go
// Wraps §4.6: group a Source's Symbols by exact fingerprint.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coddog/coddog/internal/config"
	"github.com/coddog/coddog/internal/store"
)

func newClusterCmd() *cobra.Command {
	var minSize int
	cmd := &cobra.Command{
		Use:   "cluster <source-slug>",
		Short: "Group a Source's Symbols by exact fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCluster(cmd.Context(), args[0], minSize)
		},
	}
	cmd.Flags().IntVar(&minSize, "min-size", 2, "minimum cluster cardinality")
	return cmd
}

func runCluster(ctx context.Context, sourceSlug string, minSize int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, store.Config{DatabaseURL: cfg.DatabaseURL, AnchorCap: cfg.AnchorCap})
	if err != nil {
		return err
	}
	defer st.Close()

	clusters, err := st.ClusterSource(ctx, sourceSlug, minSize)
	if err != nil {
		return err
	}
	for _, c := range clusters {
		fmt.Printf("cluster exact_hash=%#016x size=%d\n", c.ExactHash, len(c.Symbols))
		for _, sym := range c.Symbols {
			fmt.Printf("  %s  %s\n", sym.Slug, sym.Name)
		}
	}
	return nil
}
