package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/gowe/internal/store"
)

func newReportCmd() *cobra.Command {
	var runID string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Re-print a stored run's summary without re-scheduling",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewSQLiteStore(dbPath, logger)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer st.Close()

			run, err := st.GetRun(cmd.Context(), runID)
			if err != nil {
				return fmt.Errorf("load run %s: %w", runID, err)
			}
			printRunSummary(run)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run ID to re-print (required)")
	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath(), "Run history database path")
	cmd.MarkFlagRequired("run")

	return cmd
}
