// File path: cmd/coddog/ingest.go
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coddog/coddog/internal/coderr"
	"github.com/coddog/coddog/internal/config"
	"github.com/coddog/coddog/internal/disasm"
	"github.com/coddog/coddog/internal/hashfp"
	"github.com/coddog/coddog/internal/ingest"
	"github.com/coddog/coddog/internal/search"
	"github.com/coddog/coddog/internal/store"
	"github.com/coddog/coddog/internal/workerpool"
)

func newIngestCmd() *cobra.Command {
	var preview bool
	cmd := &cobra.Command{
		Use:   "ingest <descriptor.yaml>",
		Short: "Parse a project descriptor and insert every listed Source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), args[0], preview)
		},
	}
	cmd.Flags().BoolVar(&preview, "preview", false, "pretty-print each decoded instruction stream before ingesting")
	return cmd
}

func runIngest(ctx context.Context, descriptorPath string, preview bool) error {
	desc, err := ingest.Load(descriptorPath)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if preview {
		if err := previewDescriptor(ctx, desc); err != nil {
			cliLog.Warn("ingest: preview failed", "error", err)
		}
	}

	st, err := store.Open(ctx, store.Config{
		DatabaseURL:     cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		AnchorCap:       cfg.AnchorCap,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	idx, err := search.New()
	if err != nil {
		return err
	}

	opts := ingest.Options{
		Seed:       hashfp.Seed{K0: cfg.HashSeedHi, K1: cfg.HashSeedLo},
		WindowSize: cfg.WindowSize,
		BinPath:    cfg.BinPath,
		Pool:       workerpool.New(0),
	}

	created, err := ingest.Run(ctx, st, idx, opts, desc)
	if err != nil {
		return err
	}
	for _, src := range created {
		cliLog.Info("ingest: source created", "slug", src.Slug, "name", src.Name)
	}
	return nil
}

// previewDescriptor decodes every listed Object without touching the store,
// printing its instruction stream through the chroma-backed colorizer —
// useful to sanity-check a disassembler adapter before committing an
// ingestion run.
func previewDescriptor(ctx context.Context, desc ingest.Descriptor) error {
	for _, spec := range desc.Sources {
		decoder, err := disasm.Resolve(spec.Object)
		if err != nil {
			return fmt.Errorf("resolve decoder for %s: %w", spec.Object, err)
		}
		decoded, err := decoder.Decode(ctx, spec.Object)
		if err != nil {
			return fmt.Errorf("%w: decode %s: %v", coderr.ErrInvalidArgument, spec.Object, err)
		}
		fmt.Printf("-- %s (%d symbols) --\n", spec.Object, len(decoded))
		for _, sym := range decoded {
			fmt.Println(renderSymbolPreview(sym))
		}
	}
	return nil
}
