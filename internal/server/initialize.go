package server

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/rxtech-lab/lock-launchpad/internal/api"
	"github.com/rxtech-lab/lock-launchpad/internal/api/middleware"
	"github.com/rxtech-lab/lock-launchpad/internal/config"
	"github.com/rxtech-lab/lock-launchpad/internal/hooks"
	"github.com/rxtech-lab/lock-launchpad/internal/mcp"
	"github.com/rxtech-lab/lock-launchpad/internal/metrics"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
	"github.com/rxtech-lab/lock-launchpad/internal/utils"
	"gorm.io/gorm"
)

// Services groups the long-lived services shared by the API and MCP servers.
type Services struct {
	Metrics           *metrics.Metrics
	EvmService        services.EvmService
	TxService         services.TransactionService
	HookService       services.HookService
	ChainService      services.ChainService
	EthereumService   services.EthereumService
	DeploymentService services.DeploymentService
	OwnedEvents       services.OwnedEventStore
	SubgraphService   services.SubgraphService
	MembershipService services.MembershipService
}

func InitializeServices(db *gorm.DB, cfg *config.Config) Services {
	m := metrics.New()
	chainService := services.NewChainService(db)
	ethereumService := services.NewEthereumService(m)

	return Services{
		Metrics:           m,
		EvmService:        services.NewEvmService(),
		TxService:         services.NewTransactionService(db, cfg.SessionTTL),
		HookService:       services.NewHookService(),
		ChainService:      chainService,
		EthereumService:   ethereumService,
		DeploymentService: services.NewDeploymentService(db),
		OwnedEvents:       services.NewOwnedEventStore(db),
		SubgraphService:   services.NewSubgraphService(chainService, m),
		MembershipService: services.NewMembershipService(chainService, ethereumService),
	}
}

func InitializeHooks(svcs Services, cfg *config.Config) []services.Hook {
	return []services.Hook{
		hooks.NewLockDeploymentHook(svcs.DeploymentService, svcs.OwnedEvents, cfg.UnlockAppHost),
	}
}

func RegisterHooks(hookService services.HookService, hookList ...services.Hook) error {
	for _, hook := range hookList {
		if err := hookService.AddHook(hook); err != nil {
			return fmt.Errorf("failed to register hook: %w", err)
		}
	}
	return nil
}

// selectDefaultChain activates the chain configured for networkID when no chain is active yet.
func selectDefaultChain(chainService services.ChainService, networkID int64) error {
	if _, err := chainService.GetActiveChain(); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	chain, err := chainService.GetChainByNetworkID(strconv.FormatInt(networkID, 10))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str("chain_id", chain.NetworkID).Msg("selecting default chain")
	return chainService.SetActiveChainByID(chain.ID)
}

// App is a fully wired launchpad: services, hooks, the lock deployer and both servers.
type App struct {
	Services
	Config       *config.Config
	LockDeployer services.LockDeployer
	MCPServer    *mcp.MCPServer
	APIServer    *api.APIServer
}

// Configure wires every component on top of db. Nothing is listening until Start is called.
func Configure(db *gorm.DB, cfg *config.Config) (*App, error) {
	svcs := InitializeServices(db, cfg)
	if err := RegisterHooks(svcs.HookService, InitializeHooks(svcs, cfg)...); err != nil {
		return nil, err
	}
	if err := selectDefaultChain(svcs.ChainService, cfg.UnlockNetworkID); err != nil {
		return nil, fmt.Errorf("failed to select default chain: %w", err)
	}

	deployer := services.NewLockDeployer(services.LockDeployerConfig{
		BaseURL:      cfg.BaseURL,
		ViewerHost:   cfg.UnlockAppHost,
		SessionTTL:   cfg.SessionTTL,
		PollInterval: cfg.ReceiptPollInterval,
	}, svcs.EthereumService, svcs.EvmService, svcs.TxService, svcs.DeploymentService, svcs.Metrics)

	mcpServer := mcp.NewMCPServer(mcp.Services{
		ChainService:      svcs.ChainService,
		EthereumService:   svcs.EthereumService,
		DeploymentService: svcs.DeploymentService,
		OwnedEvents:       svcs.OwnedEvents,
		SubgraphService:   svcs.SubgraphService,
		MembershipService: svcs.MembershipService,
		LockDeployer:      deployer,
	})

	apiServer := api.NewAPIServer(svcs.TxService, svcs.HookService, svcs.ChainService, svcs.EthereumService,
		svcs.SubgraphService, svcs.DeploymentService, svcs.Metrics)
	apiServer.SetupRoutes()

	return &App{
		Services:     svcs,
		Config:       cfg,
		LockDeployer: deployer,
		MCPServer:    mcpServer,
		APIServer:    apiServer,
	}, nil
}

// EnableStreamableHttp serves the MCP server on /mcp behind JWT authentication. JWKS_URI takes
// precedence over JWT_SECRET.
func (a *App) EnableStreamableHttp() error {
	var authenticator *utils.JwtAuthenticator
	switch {
	case a.Config.JWKSURI != "":
		authenticator = utils.NewJwtAuthenticator(a.Config.JWKSURI)
	case a.Config.JWTSecret != "":
		authenticator = utils.NewHMACAuthenticator(a.Config.JWTSecret)
	default:
		return errors.New("JWKS_URI or JWT_SECRET is required to serve MCP over HTTP")
	}

	resource := a.Config.PublicURL(a.Config.Port)
	a.APIServer.EnableStreamableHttp(api.StreamableHTTPConfig{
		Handler: a.MCPServer.StreamableHTTPHandler(),
		Auth: middleware.AuthConfig{
			ResourceID:          a.Config.ResourceID,
			ResourceMetadataURL: resource + "/.well-known/oauth-protected-resource",
			Authenticator:       authenticator,
		},
		Resource:            resource,
		AuthorizationServer: a.Config.AuthorizationServer,
	})
	return nil
}

// Start starts the API server and points new signing sessions at the bound port.
func (a *App) Start(port *int) (int, error) {
	startedPort, err := a.APIServer.Start(port)
	if err != nil {
		return 0, err
	}
	a.LockDeployer.SetServerPort(startedPort)
	return startedPort, nil
}

// Shutdown settles open deployments and then stops the API server.
func (a *App) Shutdown() error {
	a.LockDeployer.Shutdown()
	err := a.APIServer.Shutdown()
	a.EthereumService.Close()
	return err
}
