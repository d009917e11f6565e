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

func NewCheckMembershipTool(membershipService services.MembershipService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("check_membership",
		mcp.WithDescription("Check whether a wallet holds a valid key to any lock of a paywall config."),
		mcp.WithString("wallet_address",
			mcp.Required(),
			mcp.Description("Wallet to check"),
		),
		mcp.WithString("paywall_config",
			mcp.Required(),
			mcp.Description(`Paywall config JSON, e.g. {"locks":{"0x...":{"network":80001}}}`),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		walletAddress, err := request.RequireString("wallet_address")
		if err != nil {
			return nil, fmt.Errorf("wallet_address parameter is required: %w", err)
		}
		rawConfig, err := request.RequireString("paywall_config")
		if err != nil {
			return nil, fmt.Errorf("paywall_config parameter is required: %w", err)
		}

		wallet, err := utils.ParseAddress(walletAddress)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid wallet address: %v", err)), nil
		}
		config, err := membershipService.ParsePaywallConfig([]byte(rawConfig))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		member, err := membershipService.HasMembership(ctx, wallet, config)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to check membership: %v", err)), nil
		}

		resultJSON, _ := json.Marshal(map[string]interface{}{
			"wallet":     wallet.Hex(),
			"has_access": member,
			"locks":      len(config.Locks),
		})
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(string(resultJSON)),
			},
		}, nil
	}

	return tool, handler
}
