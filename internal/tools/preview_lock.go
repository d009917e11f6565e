package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
	"github.com/rxtech-lab/lock-launchpad/internal/utils"
)

type previewLockTool struct {
	chainService services.ChainService
	deployer     services.LockDeployer
}

func NewPreviewLockTool(chainService services.ChainService, deployer services.LockDeployer) *previewLockTool {
	return &previewLockTool{
		chainService: chainService,
		deployer:     deployer,
	}
}

func (p *previewLockTool) GetTool() mcp.Tool {
	options := append([]mcp.ToolOption{
		mcp.WithDescription("Show the lock that would be deployed on the active chain without creating a signing session: resolved token decimals, on-chain price, duration in seconds, the factory calldata and whether the form is ready to submit."),
	}, lockArgumentOptions()...)
	return mcp.NewTool("preview_lock", options...)
}

func (p *previewLockTool) GetHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args LockArguments
		if err := request.BindArguments(&args); err != nil {
			return nil, fmt.Errorf("failed to bind arguments: %w", err)
		}
		if err := validator.New().Struct(args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		req, err := args.Request()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		chain, err := p.chainService.GetActiveChain()
		if err != nil {
			return mcp.NewToolResultError("No active chain selected. Please use select_chain tool first"), nil
		}

		preview, err := p.deployer.Preview(ctx, *chain, utils.AuthenticatedUserID(ctx), req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to build lock preview: %v", err)), nil
		}

		resultJSON, _ := json.Marshal(map[string]interface{}{
			"chain_id": chain.NetworkID,
			"preview":  preview,
		})
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(string(resultJSON)),
			},
		}, nil
	}
}
