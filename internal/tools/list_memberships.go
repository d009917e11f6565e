package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
	"github.com/rxtech-lab/lock-launchpad/internal/utils"
)

func NewListMembershipsTool(subgraphService services.SubgraphService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("list_memberships",
		mcp.WithDescription("List the keys a wallet has purchased. Queries one network when chain_id is given, otherwise every configured chain with a subgraph."),
		mcp.WithString("wallet_address",
			mcp.Required(),
			mcp.Description("Wallet that purchased the keys"),
		),
		mcp.WithString("chain_id",
			mcp.Description("Only query this network"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		walletAddress, err := request.RequireString("wallet_address")
		if err != nil {
			return nil, fmt.Errorf("wallet_address parameter is required: %w", err)
		}
		wallet, err := utils.ParseAddress(walletAddress)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid wallet address: %v", err)), nil
		}

		var memberships []models.Membership
		if networkID := request.GetString("chain_id", ""); networkID != "" {
			memberships, err = subgraphService.GetMemberships(ctx, wallet.Hex(), networkID)
		} else {
			memberships, err = subgraphService.GetAllMemberships(ctx, wallet.Hex())
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list memberships: %v", err)), nil
		}
		if memberships == nil {
			memberships = []models.Membership{}
		}

		resultJSON, _ := json.Marshal(map[string]interface{}{
			"wallet":      wallet.Hex(),
			"memberships": memberships,
			"total":       len(memberships),
		})
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(string(resultJSON)),
			},
		}, nil
	}

	return tool, handler
}
