// File path: cmd/coddog/submatch.go
// Thin CLI wrapper around find_submatches, recovered from the original
// Rust CLI's Submatch subcommand.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coddog/coddog/internal/config"
	"github.com/coddog/coddog/internal/store"
	"github.com/coddog/coddog/internal/submatch"
)

func newSubmatchCmd() *cobra.Command {
	var start, end, minLen, pageNum, pageSize int
	var sortBy, sortDir string
	cmd := &cobra.Command{
		Use:   "submatch <slug>",
		Short: "Print maximal contiguous shared instruction runs for a Symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmatch(cmd.Context(), args[0], start, end, minLen, pageNum, pageSize, sortBy, sortDir)
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "range start (instruction index, inclusive)")
	cmd.Flags().IntVar(&end, "end", -1, "range end (instruction index, inclusive; -1 selects the Symbol's last index)")
	cmd.Flags().IntVar(&minLen, "min-len", 0, "minimum run length L (0 selects the deployment's window width)")
	cmd.Flags().IntVar(&pageNum, "page", 0, "page number, 0-indexed")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "page size")
	cmd.Flags().StringVar(&sortBy, "sort-by", "length", "length or query_start")
	cmd.Flags().StringVar(&sortDir, "sort-dir", "desc", "asc or desc")
	return cmd
}

func runSubmatch(ctx context.Context, slug string, start, end, minLen, pageNum, pageSize int, sortBy, sortDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, store.Config{DatabaseURL: cfg.DatabaseURL, AnchorCap: cfg.AnchorCap})
	if err != nil {
		return err
	}
	defer st.Close()

	sym, err := st.GetSymbol(ctx, slug)
	if err != nil {
		return err
	}
	if end < 0 {
		end = sym.Len - 1
	}
	if minLen <= 0 {
		minLen = cfg.WindowSize
	}

	key := submatch.SortByLength
	if sortBy == "query_start" {
		key = submatch.SortByQueryStart
	}
	dir := submatch.Descending
	if sortDir == "asc" {
		dir = submatch.Ascending
	}

	result, err := st.FindSubmatches(ctx, slug, start, end, minLen, key, dir, submatch.Page{Num: pageNum, Size: pageSize}, cfg.WindowSize)
	if err != nil {
		return err
	}

	fmt.Printf("total: %d\n", result.Total)
	for _, row := range result.Rows {
		fmt.Printf("  %s  q=%d m=%d len=%d  (%s / %s)\n", row.Symbol.Slug, row.QueryStart, row.MatchStart, row.Len, row.Symbol.ProjectName, row.Symbol.SourceName)
	}
	return nil
}
