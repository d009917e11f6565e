package handler

import (
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog/log"
	"github.com/rxtech-lab/lock-launchpad/internal/config"
	"github.com/rxtech-lab/lock-launchpad/internal/logger"
	"github.com/rxtech-lab/lock-launchpad/internal/server"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
)

var (
	app     *server.App
	initErr error
	once    sync.Once
)

// Handler is the main Vercel function handler
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		initErr = initializeApp()
	})
	if initErr != nil {
		log.Error().Err(initErr).Msg("failed to initialize lock launchpad")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	adaptor.FiberApp(app.APIServer.App())(w, r)
}

func initializeApp() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(true, cfg.LogLevel, "json")

	var dbService services.DBService
	switch {
	case cfg.PostgresURL != "":
		dbService, err = services.NewPostgresDBService(cfg.PostgresURL)
	case os.Getenv("VERCEL") == "1":
		// /tmp is the only writable path on Vercel
		dbService, err = services.NewSqliteDBService("/tmp/lock-launchpad.db")
	default:
		dbService, err = services.NewSqliteDBService(cfg.DatabasePath)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	app, err = server.Configure(dbService.GetDB(), cfg)
	if err != nil {
		return err
	}
	if cfg.JWKSURI != "" || cfg.JWTSecret != "" {
		if err := app.EnableStreamableHttp(); err != nil {
			return err
		}
	}

	app.APIServer.App().Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Lock Launchpad MCP API",
			"status":  "running",
			"version": "1.0.0",
		})
	})
	return nil
}
