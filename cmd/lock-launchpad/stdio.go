package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/rxtech-lab/lock-launchpad/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newStdioCmd(v *viper.Viper) *cobra.Command {
	var enableLog bool

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Serve MCP over stdio with a local signing server",
		Long: `Serve MCP over stdin/stdout for a local AI client.

The signing pages are served on a random free port unless --port is given. Logging is off by
default because stdout belongs to the MCP transport; --log writes logs to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlag("PORT", cmd.Flags().Lookup("port")); err != nil {
				return err
			}
			cfg, err := loadConfig(v, enableLog)
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

			var port *int
			if cmd.Flags().Changed("port") {
				port = &cfg.Port
			}
			startedPort, err := app.Start(port)
			if err != nil {
				return fmt.Errorf("failed to start API server: %w", err)
			}
			log.Info().Int("port", startedPort).Msg("signing server started")

			go func() {
				if err := app.MCPServer.StartStdioServer(); err != nil {
					fmt.Fprintf(os.Stderr, "Failed to start MCP server: %v\n", err)
					os.Exit(1)
				}
			}()

			waitForSignal()
			return app.Shutdown()
		},
	}
	cmd.Flags().BoolVar(&enableLog, "log", false, "Enable logging output on stderr")
	cmd.Flags().Int("port", 0, "Port for the signing server (random when omitted)")
	return cmd
}
