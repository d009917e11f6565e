package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
)

func NewSelectChainTool(chainService services.ChainService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("select_chain",
		mcp.WithDescription("Select the network new locks are deployed to. Select by database id (from list_chains) or by chain ID."),
		mcp.WithString("id",
			mcp.Description("The database id of the chain. Use this for precise selection."),
		),
		mcp.WithString("chain_id",
			mcp.Description("The chain ID of the network (e.g., '80001')"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		idStr := request.GetString("id", "")
		networkID := request.GetString("chain_id", "")
		if idStr == "" && networkID == "" {
			return mcp.NewToolResultError("Either id or chain_id parameter is required"), nil
		}

		var chain *models.Chain
		if idStr != "" {
			id, err := strconv.ParseUint(idStr, 10, 32)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid id: %v", err)), nil
			}
			chain, err = chainService.GetChainByID(uint(id))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Chain %s not found", idStr)), nil
			}
		} else {
			var err error
			chain, err = chainService.GetChainByNetworkID(networkID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("No chain configured for chain ID %s. Use set_chain first.", networkID)), nil
			}
		}

		if err := chainService.SetActiveChainByID(chain.ID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error setting active chain: %v", err)), nil
		}
		activeChain, err := chainService.GetActiveChain()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error getting active chain: %v", err)), nil
		}

		result := chainSummary(*activeChain)
		result["message"] = fmt.Sprintf("Successfully selected %s (ID: %d)", activeChain.Name, activeChain.ID)

		resultJSON, _ := json.Marshal(result)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(string(resultJSON)),
			},
		}, nil
	}

	return tool, handler
}
