package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
	"github.com/rxtech-lab/lock-launchpad/internal/tools"
)

const (
	serverName    = "Lock Launchpad MCP Server"
	serverVersion = "1.0.0"
)

// Services are the dependencies the MCP tools are built from.
type Services struct {
	ChainService      services.ChainService
	EthereumService   services.EthereumService
	DeploymentService services.DeploymentService
	OwnedEvents       services.OwnedEventStore
	SubgraphService   services.SubgraphService
	MembershipService services.MembershipService
	LockDeployer      services.LockDeployer
}

type MCPServer struct {
	server *server.MCPServer
	logger zerolog.Logger
}

func NewMCPServer(deps Services) *MCPServer {
	mcpServer := &MCPServer{
		logger: log.With().Str("component", "mcp").Logger(),
	}
	mcpServer.InitializeTools(deps)
	if deps.LockDeployer != nil {
		deps.LockDeployer.SetNotifier(mcpServer)
	}
	return mcpServer
}

func (s *MCPServer) InitializeTools(deps Services) {
	srv := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	srv.AddPrompt(mcp.NewPrompt("lock-launchpad-usage",
		mcp.WithPromptDescription("Instructions and guidance for using lock launchpad MCP tools"),
		mcp.WithArgument("tool_category",
			mcp.ArgumentDescription("Category of tools to get instructions for (chain, lock, membership, or all)"),
			mcp.RequiredArgument(),
		),
	), func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		category := request.Params.Arguments["tool_category"]
		if category == "" {
			return nil, fmt.Errorf("tool_category is required")
		}

		return mcp.NewGetPromptResult(
			fmt.Sprintf("Lock Launchpad MCP Tools - %s", category),
			[]mcp.PromptMessage{
				mcp.NewPromptMessage(
					mcp.RoleUser,
					mcp.NewTextContent(getToolInstructions(category)),
				),
			},
		), nil
	})

	// Chain Management Tools
	setChainTool, setChainHandler := tools.NewSetChainTool(deps.ChainService, deps.EthereumService)
	srv.AddTool(setChainTool, setChainHandler)

	selectChainTool, selectChainHandler := tools.NewSelectChainTool(deps.ChainService)
	srv.AddTool(selectChainTool, selectChainHandler)

	listChainsTool, listChainsHandler := tools.NewListChainsTool(deps.ChainService)
	srv.AddTool(listChainsTool, listChainsHandler)

	// Lock Deployment Tools
	previewLockTool := tools.NewPreviewLockTool(deps.ChainService, deps.LockDeployer)
	srv.AddTool(previewLockTool.GetTool(), previewLockTool.GetHandler())

	createLockTool := tools.NewCreateLockTool(deps.ChainService, deps.OwnedEvents, deps.LockDeployer)
	srv.AddTool(createLockTool.GetTool(), createLockTool.GetHandler())

	listLocksTool, listLocksHandler := tools.NewListLocksTool(deps.DeploymentService)
	srv.AddTool(listLocksTool, listLocksHandler)

	getLockTool, getLockHandler := tools.NewGetLockTool(deps.ChainService, deps.SubgraphService, deps.DeploymentService)
	srv.AddTool(getLockTool, getLockHandler)

	// Membership Tools
	listMembershipsTool, listMembershipsHandler := tools.NewListMembershipsTool(deps.SubgraphService)
	srv.AddTool(listMembershipsTool, listMembershipsHandler)

	checkMembershipTool, checkMembershipHandler := tools.NewCheckMembershipTool(deps.MembershipService)
	srv.AddTool(checkMembershipTool, checkMembershipHandler)

	s.server = srv
}

// NotifyLockDeployment pushes a settled deployment to every connected client as a log message.
func (s *MCPServer) NotifyLockDeployment(ctx context.Context, deployment models.LockDeployment) error {
	level := mcp.LoggingLevelInfo
	if deployment.Status != models.TransactionStatusConfirmed {
		level = mcp.LoggingLevelWarning
	}

	data := map[string]interface{}{
		"deployment_id":    deployment.ID,
		"event_id":         deployment.EventID,
		"name":             deployment.Name,
		"status":           deployment.Status,
		"transaction_hash": deployment.TransactionHash,
	}
	if deployment.LockAddress != "" {
		data["lock_address"] = deployment.LockAddress
		data["viewer_link"] = deployment.ViewerLink
	}
	if deployment.Error != "" {
		data["error"] = deployment.Error
	}

	s.server.SendNotificationToAllClients("notifications/message", map[string]any{
		"level":  level,
		"logger": "lock_deployer",
		"data":   data,
	})
	s.logger.Debug().Uint("deployment_id", deployment.ID).Str("status", string(deployment.Status)).Msg("deployment notification sent")
	return nil
}

func (s *MCPServer) StartStdioServer() error {
	return server.ServeStdio(s.server)
}

// StreamableHTTPHandler serves the MCP protocol over streamable HTTP.
func (s *MCPServer) StreamableHTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.server)
}

func (s *MCPServer) GetServer() *server.MCPServer {
	return s.server
}

func getToolInstructions(category string) string {
	switch category {
	case "chain":
		return `Chain Management Tools:

1. set_chain - Configure an EVM network
   Usage: Register an RPC endpoint. The chain ID is detected from the RPC when omitted.
   Add subgraph_url to look up locks and memberships, explorer_url to link transactions.

2. select_chain - Select the network new locks are deployed to
   Usage: Select by id from list_chains or by chain_id

3. list_chains - List configured networks and the active one`

	case "lock":
		return `Lock Deployment Tools:

1. preview_lock - Show the lock that would be deployed
   Usage: Check token decimals, on-chain price and calldata before creating a session.
   Nothing is stored.

2. create_lock - Create a lock for an event
   Usage: Returns a signing URL. The organizer opens it, connects the creator wallet and
   submits the Unlock factory transaction. An event can only own one lock.
   Defaults: price 1, 100 keys, duration from the event dates (1 day when open-ended),
   native currency.

3. list_locks - List your lock deployments and their status

4. get_lock - Read a deployed lock from the Unlock subgraph`

	case "membership":
		return `Membership Tools:

1. list_memberships - List the keys a wallet purchased
   Usage: Pass chain_id to query one network, omit it to query every chain with a subgraph

2. check_membership - Check whether a wallet holds a valid key
   Usage: Pass a paywall config JSON listing the locks that grant access`

	case "all":
		return `Lock Launchpad MCP Tools Overview:

This MCP server deploys Unlock Protocol locks for events and answers membership questions:

CHAIN MANAGEMENT (3 tools):
- set_chain: Configure RPC, subgraph and explorer endpoints
- select_chain: Choose the deployment network
- list_chains: View configured networks

LOCK DEPLOYMENT (4 tools):
- preview_lock: Inspect a lock before deploying it
- create_lock: Deploy a lock via web signing interface
- list_locks: View your lock deployments
- get_lock: Read a lock from the subgraph

MEMBERSHIP (2 tools):
- list_memberships: List keys purchased by a wallet
- check_membership: Check access against a paywall config

All signing operations open a web interface for secure wallet interaction.
No private keys are handled by the server - all signing is client-side.`

	default:
		return `Invalid category. Available categories: chain, lock, membership, all`
	}
}
