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

func NewListLocksTool(deploymentService services.DeploymentService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("list_locks",
		mcp.WithDescription("List lock deployments created by the current user, newest first. Optionally filter by event or status."),
		mcp.WithString("event_id",
			mcp.Description("Only list deployments for this event"),
		),
		mcp.WithString("status",
			mcp.Description("Only list deployments with this status"),
			mcp.Enum(string(models.TransactionStatusPending), string(models.TransactionStatusConfirmed), string(models.TransactionStatusFailed)),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status := request.GetString("status", "")
		switch models.TransactionStatus(status) {
		case "", models.TransactionStatusPending, models.TransactionStatusConfirmed, models.TransactionStatusFailed:
		default:
			return mcp.NewToolResultError(fmt.Sprintf("Unknown status: %s", status)), nil
		}

		deployments, err := deploymentService.ListDeployments(services.DeploymentFilter{
			UserID:  utils.AuthenticatedUserID(ctx),
			EventID: request.GetString("event_id", ""),
			Status:  models.TransactionStatus(status),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list lock deployments: %v", err)), nil
		}

		locks := make([]map[string]interface{}, 0, len(deployments))
		for _, deployment := range deployments {
			locks = append(locks, map[string]interface{}{
				"id":               deployment.ID,
				"event_id":         deployment.EventID,
				"name":             deployment.Name,
				"status":           deployment.Status,
				"chain_id":         deployment.Chain.NetworkID,
				"price":            deployment.Price,
				"currency_address": deployment.CurrencyAddress,
				"duration_days":    deployment.DurationDays,
				"max_supply":       deployment.MaxSupply,
				"creator_address":  deployment.CreatorAddress,
				"session_id":       deployment.SessionID,
				"transaction_hash": deployment.TransactionHash,
				"lock_address":     deployment.LockAddress,
				"viewer_link":      deployment.ViewerLink,
				"error":            deployment.Error,
				"created_at":       deployment.CreatedAt,
			})
		}

		result := map[string]interface{}{
			"locks": locks,
			"total": len(locks),
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
