// File path: cmd/coddog/match.go
// Thin CLI wrapper around find_full_matches, recovered from the original
// Rust CLI's Match subcommand (crates/cli/src/main.rs) so match lookups
// work offline without the HTTP server.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coddog/coddog/internal/config"
	"github.com/coddog/coddog/internal/store"
)

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <slug>",
		Short: "Print full-symbol matches (exact/equivalent/opcode) for a Symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd.Context(), args[0])
		},
	}
}

func runMatch(ctx context.Context, slug string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, store.Config{DatabaseURL: cfg.DatabaseURL, AnchorCap: cfg.AnchorCap})
	if err != nil {
		return err
	}
	defer st.Close()

	matches, err := st.FindFullMatches(ctx, slug)
	if err != nil {
		return err
	}
	printBucket("exact", matches.Exact)
	printBucket("equivalent", matches.Equivalent)
	printBucket("opcode", matches.Opcode)
	return nil
}

func printBucket(subtype string, rows []store.SymbolMeta) {
	fmt.Printf("%s (%d)\n", subtype, len(rows))
	for _, r := range rows {
		fmt.Printf("  %s  %s  (%s / %s)\n", r.Slug, r.Name, r.ProjectName, r.SourceName)
	}
}
