// Package cli implements the sprintplan command-line tool: running a
// sprint scheduling pass, re-printing a past run, and serving the
// read-only status API.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/me/gowe/internal/logging"
)

var (
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// defaultDBPath returns the history store path, checking the
// SPRINTPLAN_DB env var first.
func defaultDBPath() string {
	if p := os.Getenv("SPRINTPLAN_DB"); p != "" {
		return p
	}
	return "sprintplan.db"
}

// NewRootCmd creates the root cobra command for the sprintplan CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sprintplan",
		Short: "sprintplan — deterministic sprint capacity scheduler",
		Long:  "sprintplan fetches sprint work items, schedules them against declared executor capacity, and reports placements and rejections.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newReportCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}
