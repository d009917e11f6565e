package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/rxtech-lab/lock-launchpad/internal/config"
	"github.com/rxtech-lab/lock-launchpad/internal/logger"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Build information (set via ldflags)
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "lock-launchpad",
		Short: "Lock Launchpad MCP Server",
		Long: `MCP server that deploys Unlock Protocol locks for events.

Locks are created through a web signing page, so no private key ever reaches the server.
Settings are read from the environment and from a .env file in the working directory.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().Int("log-level", 1, "zerolog level (-1 trace, 0 debug, 1 info, 2 warn, 3 error)")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console|json")
	_ = v.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("LOG_FORMAT", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(newStdioCmd(v), newHTTPCmd(v), newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Lock Launchpad MCP Server\n")
			fmt.Fprintf(out, "Version: %s\n", Version)
			fmt.Fprintf(out, "Commit: %s\n", CommitHash)
			fmt.Fprintf(out, "Built: %s\n", BuildTime)
		},
	}
}

func loadConfig(v *viper.Viper, enableLog bool) (*config.Config, error) {
	cfg, err := config.LoadFrom(v)
	if err != nil {
		return nil, err
	}
	logger.Init(enableLog, cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

// openDatabase uses Postgres when POSTGRES_URL is set and the local SQLite file otherwise.
func openDatabase(cfg *config.Config) (services.DBService, error) {
	if cfg.PostgresURL != "" {
		return services.NewPostgresDBService(cfg.PostgresURL)
	}
	return services.NewSqliteDBService(cfg.DatabasePath)
}

func waitForSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	log.Info().Msg("shutting down")
}
