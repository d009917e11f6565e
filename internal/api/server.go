package api

import (
	"fmt"
	"net"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rxtech-lab/lock-launchpad/internal/api/middleware"
	"github.com/rxtech-lab/lock-launchpad/internal/metrics"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
	"github.com/rxtech-lab/lock-launchpad/internal/utils"
)

type APIServer struct {
	app               *fiber.App
	txService         services.TransactionService
	hookService       services.HookService
	chainService      services.ChainService
	ethereumService   services.EthereumService
	subgraphService   services.SubgraphService
	deploymentService services.DeploymentService
	metrics           *metrics.Metrics
	logger            zerolog.Logger
	port              int
}

// StreamableHTTPConfig mounts an MCP handler on /mcp behind bearer authentication.
type StreamableHTTPConfig struct {
	Handler http.Handler
	Auth    middleware.AuthConfig
	// Resource and AuthorizationServer are published as OAuth protected resource metadata when set
	Resource            string
	AuthorizationServer string
}

func NewAPIServer(
	txService services.TransactionService,
	hookService services.HookService,
	chainService services.ChainService,
	ethereumService services.EthereumService,
	subgraphService services.SubgraphService,
	deploymentService services.DeploymentService,
	m *metrics.Metrics,
) *APIServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
		Output:     log.Logger,
	}))

	return &APIServer{
		app:               app,
		txService:         txService,
		hookService:       hookService,
		chainService:      chainService,
		ethereumService:   ethereumService,
		subgraphService:   subgraphService,
		deploymentService: deploymentService,
		metrics:           m,
		logger:            log.With().Str("component", "api").Logger(),
	}
}

func (s *APIServer) SetupRoutes() {
	// Transaction signing
	s.app.Get("/tx/:session_id", s.handleTransactionPage)
	s.app.Get("/api/tx/:session_id", s.handleGetTransactionSession)
	s.app.Post("/api/tx/:session_id/transaction/:index", s.handleTransactionReport)

	// Unlock data
	s.app.Get("/api/locks/:network/:address", s.handleGetLock)
	s.app.Get("/api/memberships/:wallet", s.handleListMemberships)

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if s.metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	}
}

// EnableStreamableHttp serves the MCP server over streamable HTTP. The authenticated user is
// passed to tool handlers through the request context.
func (s *APIServer) EnableStreamableHttp(cfg StreamableHTTPConfig) {
	if cfg.AuthorizationServer != "" {
		s.app.Get("/.well-known/oauth-protected-resource", func(c *fiber.Ctx) error {
			return s.handleOAuthProtectedResource(c, cfg.Resource, cfg.AuthorizationServer)
		})
	}

	handler := func(c *fiber.Ctx) error {
		user := middleware.GetAuthenticatedUser(c)
		return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if user != nil {
				ctx = utils.WithAuthenticatedUser(ctx, user)
			}
			cfg.Handler.ServeHTTP(w, r.WithContext(ctx))
		})(c)
	}
	s.app.All("/mcp", middleware.AuthMiddleware(cfg.Auth), handler)
	s.app.All("/mcp/*", middleware.AuthMiddleware(cfg.Auth), handler)
}

// Start listens on port, or on a random free port when port is nil, and returns the bound port.
func (s *APIServer) Start(port *int) (int, error) {
	addr := ":0"
	if port != nil {
		addr = fmt.Sprintf(":%d", *port)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	go func() {
		if err := s.app.Listener(listener); err != nil {
			s.logger.Error().Err(err).Msg("API server stopped")
		}
	}()

	s.logger.Info().Int("port", s.port).Msg("API server started")
	return s.port, nil
}

func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}

func (s *APIServer) GetPort() int {
	return s.port
}

// App exposes the fiber app, used by serverless entry points and tests.
func (s *APIServer) App() *fiber.App {
	return s.app
}
