package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/rxtech-lab/lock-launchpad/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newHTTPCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve MCP over streamable HTTP behind JWT authentication",
		Long: `Serve MCP on /mcp next to the signing pages.

Requests need a bearer token validated against JWKS_URI, or signed with JWT_SECRET when no JWKS
endpoint is configured. POSTGRES_URL selects Postgres storage.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlag("PORT", cmd.Flags().Lookup("port")); err != nil {
				return err
			}
			cfg, err := loadConfig(v, true)
			if err != nil {
				return err
			}

			dbService, err := openDatabase(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer dbService.Close()

			app, err := server.Configure(dbService.GetDB(), cfg)
			if err != nil {
				return err
			}
			if err := app.EnableStreamableHttp(); err != nil {
				return err
			}

			startedPort, err := app.Start(&cfg.Port)
			if err != nil {
				return fmt.Errorf("failed to start API server: %w", err)
			}
			log.Info().Int("port", startedPort).Str("url", cfg.PublicURL(startedPort)).Msg("streamable HTTP server started")

			waitForSignal()
			return app.Shutdown()
		},
	}
	cmd.Flags().Int("port", 8080, "Port to listen on")
	return cmd
}
