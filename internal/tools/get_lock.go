package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
	"github.com/rxtech-lab/lock-launchpad/internal/utils"
)

func NewGetLockTool(chainService services.ChainService, subgraphService services.SubgraphService, deploymentService services.DeploymentService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("get_lock",
		mcp.WithDescription("Get a deployed lock from the Unlock subgraph together with the local deployment record, if any."),
		mcp.WithString("lock_address",
			mcp.Required(),
			mcp.Description("Address of the lock"),
		),
		mcp.WithString("chain_id",
			mcp.Description("Network the lock lives on. Defaults to the active chain"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lockAddress, err := request.RequireString("lock_address")
		if err != nil {
			return nil, fmt.Errorf("lock_address parameter is required: %w", err)
		}
		address, err := utils.ParseAddress(lockAddress)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid lock address: %v", err)), nil
		}

		networkID := request.GetString("chain_id", "")
		if networkID == "" {
			chain, err := chainService.GetActiveChain()
			if err != nil {
				return mcp.NewToolResultError("No active chain selected. Please use select_chain tool first or pass chain_id"), nil
			}
			networkID = chain.NetworkID
		}

		result := map[string]interface{}{
			"lock_address": address.Hex(),
			"chain_id":     networkID,
		}

		if deployment, err := deploymentService.GetDeploymentByLockAddress(address.Hex()); err == nil {
			result["deployment"] = deployment
		}

		onchain, err := subgraphService.GetLock(ctx, address.Hex(), networkID)
		if err != nil {
			if _, ok := result["deployment"]; !ok {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to query subgraph: %v", err)), nil
			}
			result["subgraph_error"] = err.Error()
		} else if onchain != nil {
			result["lock"] = onchain
		}

		_, hasLock := result["lock"]
		_, hasDeployment := result["deployment"]
		if !hasLock && !hasDeployment {
			return mcp.NewToolResultError(fmt.Sprintf("Lock %s not found on network %s", address.Hex(), networkID)), nil
		}

		resultJSON, _ := json.Marshal(result)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(string(resultJSON)),
			},
		}, nil
	}

	return tool, handler
}
