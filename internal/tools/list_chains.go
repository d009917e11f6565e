package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
)

func chainSummary(chain models.Chain) map[string]interface{} {
	return map[string]interface{}{
		"id":           chain.ID,
		"name":         chain.Name,
		"chain_type":   chain.ChainType,
		"rpc":          chain.RPC,
		"chain_id":     chain.NetworkID,
		"subgraph_url": chain.SubgraphURL,
		"explorer_url": chain.ExplorerURL,
		"is_active":    chain.IsActive,
	}
}

func NewListChainsTool(chainService services.ChainService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("list_chains",
		mcp.WithDescription("List all configured networks and the one currently selected for lock deployments"),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		chains, err := chainService.ListChains()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error listing chains: %v", err)), nil
		}

		summaries := make([]interface{}, 0, len(chains))
		response := map[string]interface{}{}
		for _, chain := range chains {
			summary := chainSummary(chain)
			summary["created_at"] = chain.CreatedAt
			summary["updated_at"] = chain.UpdatedAt
			summaries = append(summaries, summary)
			if chain.IsActive {
				response["active_chain"] = chainSummary(chain)
			}
		}
		response["chains"] = summaries
		response["total"] = len(summaries)

		responseJSON, _ := json.MarshalIndent(response, "", "  ")
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(string(responseJSON)),
			},
		}, nil
	}

	return tool, handler
}
