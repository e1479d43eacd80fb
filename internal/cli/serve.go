package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/me/gowe/internal/config"
	"github.com/me/gowe/internal/server"
	"github.com/me/gowe/internal/store"
)

func newServeCmd() *cobra.Command {
	var dbPath string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only run status API",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewSQLiteStore(dbPath, logger)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer st.Close()
			if err := st.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate history store: %w", err)
			}

			cfg := config.DefaultServerConfig()
			cfg.Addr = addr
			cfg.DBPath = dbPath

			srv := server.New(cfg, st, logger)
			logger.Info("serving status API", "addr", addr, "db", dbPath)
			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath(), "Run history database path")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}
