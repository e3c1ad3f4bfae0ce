// File path: cmd/coddog/root.go
// The ingestion CLI contract (§6): a cobra command tree wrapping the same
// store/ingest calls the HTTP API uses, grounded in Dhruvchaudhary255/reverse's
// and sha1n/mcp-relic-server's cobra trees. Interactive output goes through
// charmbracelet/log rather than the server's log/slog — the same split the
// teacher draws between its server logging and an interactive terminal tool.
package main

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/coddog/coddog/internal/coderr"
)

var cliLog = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Prefix:          "coddog",
})

// Execute builds and runs the root command, returning the process exit code
// from the spec.md §6 taxonomy (0 success, 1 user error, 2 integrity error,
// 3 backing-store unavailable).
func Execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		return exitCodeFor(err)
	}
	return 0
}

func exitCodeFor(err error) int {
	if ec, ok := err.(exitCoder); ok {
		return ec.ExitCode()
	}
	return coderr.ExitCode(err)
}

// exitCoder lets a command attach an explicit exit code to a cobra error
// without coderr needing to classify a generic cobra usage error.
type exitCoder interface {
	error
	ExitCode() int
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "coddog",
		Short:         "Identify similar compiled functions across a binary corpus",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var logLevel string
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")
	root.PersistentFlags().String("database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	root.PersistentFlags().String("bin-path", "", "object blob storage root (overrides BIN_PATH)")
	root.PersistentFlags().Int("window-size", 0, "window width W (overrides WINDOW_SIZE)")
	_ = v.BindPFlag("database-url", root.PersistentFlags().Lookup("database-url"))
	_ = v.BindPFlag("bin-path", root.PersistentFlags().Lookup("bin-path"))
	_ = v.BindPFlag("window-size", root.PersistentFlags().Lookup("window-size"))

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		applyLogLevel(logLevel)
		// Flags take priority over whatever config.Load would otherwise read
		// from the environment, mirroring the "explicit flag > environment
		// variable > default" resolution order documented on config.Config.
		if dsn := v.GetString("database-url"); dsn != "" {
			os.Setenv("DATABASE_URL", dsn)
		}
		if bp := v.GetString("bin-path"); bp != "" {
			os.Setenv("BIN_PATH", bp)
		}
		if ws := v.GetInt("window-size"); ws > 0 {
			os.Setenv("WINDOW_SIZE", strconv.Itoa(ws))
		}
	}

	root.AddCommand(
		newServeCmd(),
		newIngestCmd(),
		newMatchCmd(),
		newSubmatchCmd(),
		newClusterCmd(),
	)
	return root
}

func applyLogLevel(level string) {
	switch level {
	case "debug":
		cliLog.SetLevel(log.DebugLevel)
	case "warn":
		cliLog.SetLevel(log.WarnLevel)
	case "error":
		cliLog.SetLevel(log.ErrorLevel)
	default:
		cliLog.SetLevel(log.InfoLevel)
	}
}
