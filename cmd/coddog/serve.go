// File path: cmd/coddog/serve.go
package main

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/coddog/coddog/internal/api"
	"github.com/coddog/coddog/internal/config"
	"github.com/coddog/coddog/internal/hashfp"
	"github.com/coddog/coddog/internal/search"
	"github.com/coddog/coddog/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP read/write surface (§6)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
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
	if names, err := st.ListSymbolNames(ctx); err != nil {
		cliLog.Warn("serve: failed to warm search index", "error", err)
	} else if err := idx.Warm(names); err != nil {
		cliLog.Warn("serve: failed to warm search index", "error", err)
	}

	srv := api.NewServer(api.DefaultConfig().Merge(api.Config{
		Address:     cfg.ServerAddress,
		CORSOrigins: cfg.CORSOrigins,
		UploadRoot:  cfg.BinPath,
		Seed:        hashfp.Seed{K0: cfg.HashSeedHi, K1: cfg.HashSeedLo},
		WindowSize:  cfg.WindowSize,
	}), st, idx)

	cliLog.Info("serve: listening", "address", cfg.ServerAddress)
	return http.ListenAndServe(cfg.ServerAddress, srv.Handler())
}
