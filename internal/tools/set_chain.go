package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
)

const chainIDTimeout = 10 * time.Second

var defaultChainNames = map[string]string{
	"1":        "Ethereum Mainnet",
	"5":        "Ethereum Goerli",
	"10":       "Optimism",
	"100":      "Gnosis Chain",
	"137":      "Polygon",
	"8453":     "Base",
	"42161":    "Arbitrum One",
	"80001":    "Polygon Mumbai",
	"11155111": "Ethereum Sepolia",
}

func defaultChainName(chainID string) string {
	if name, ok := defaultChainNames[chainID]; ok {
		return name
	}
	return fmt.Sprintf("Ethereum Chain %s", chainID)
}

func validateOptionalURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute URL", field)
	}
	return nil
}

func NewSetChainTool(chainService services.ChainService, ethereumService services.EthereumService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("set_chain",
		mcp.WithDescription("Configure an EVM network locks can be deployed to. Creates the chain or updates the one registered for the same chain ID."),
		mcp.WithString("rpc",
			mcp.Required(),
			mcp.Description("The RPC endpoint URL for the network"),
		),
		mcp.WithString("chain_id",
			mcp.Description("The chain ID (e.g., '80001' for Polygon Mumbai). If not provided, will be auto-detected from RPC endpoint."),
		),
		mcp.WithString("name",
			mcp.Description("Optional name for the chain configuration (e.g., 'Polygon Mumbai')"),
		),
		mcp.WithString("subgraph_url",
			mcp.Description("Unlock subgraph endpoint for this network, used to look up locks and memberships"),
		),
		mcp.WithString("explorer_url",
			mcp.Description("Block explorer base URL (e.g., 'https://mumbai.polygonscan.com'), used to link transactions"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rpc, err := request.RequireString("rpc")
		if err != nil {
			return nil, fmt.Errorf("rpc parameter is required: %w", err)
		}
		rpc = strings.TrimSpace(rpc)

		subgraphURL := strings.TrimSpace(request.GetString("subgraph_url", ""))
		explorerURL := strings.TrimSpace(request.GetString("explorer_url", ""))
		for field, raw := range map[string]string{"rpc": rpc, "subgraph_url": subgraphURL, "explorer_url": explorerURL} {
			if err := validateOptionalURL(field, raw); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		chainID := strings.TrimSpace(request.GetString("chain_id", ""))
		detected := false
		if chainID == "" {
			callCtx, cancel := context.WithTimeout(ctx, chainIDTimeout)
			fetched, err := ethereumService.ChainID(callCtx, rpc)
			cancel()
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Could not auto-detect chain ID from RPC: %v. Please provide chain_id parameter.", err)), nil
			}
			chainID = fetched.String()
			detected = true
		}

		name := request.GetString("name", "")
		if name == "" {
			name = defaultChainName(chainID)
		}

		chain := &models.Chain{
			ChainType:   models.TransactionChainTypeEthereum,
			RPC:         rpc,
			NetworkID:   chainID,
			Name:        name,
			SubgraphURL: subgraphURL,
			ExplorerURL: explorerURL,
		}
		if _, err := chain.NetworkIDInt(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := chainService.UpsertChain(chain); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error saving chain configuration: %v", err)), nil
		}

		message := fmt.Sprintf("Successfully configured %s", name)
		if detected {
			message += fmt.Sprintf(" (auto-detected chain ID: %s)", chainID)
		}

		result := map[string]interface{}{
			"id":           chain.ID,
			"chain_type":   chain.ChainType,
			"rpc":          rpc,
			"chain_id":     chainID,
			"name":         name,
			"subgraph_url": subgraphURL,
			"explorer_url": explorerURL,
			"is_active":    chain.IsActive,
			"message":      message,
		}

		resultJSON, _ := json.Marshal(result)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent("Success message: "),
				mcp.NewTextContent(string(resultJSON)),
			},
		}, nil
	}

	return tool, handler
}
