package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/lock-launchpad/internal/lock"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
	"github.com/rxtech-lab/lock-launchpad/internal/utils"
)

type createLockTool struct {
	chainService services.ChainService
	ownedEvents  services.OwnedEventStore
	deployer     services.LockDeployer
}

func NewCreateLockTool(chainService services.ChainService, ownedEvents services.OwnedEventStore, deployer services.LockDeployer) *createLockTool {
	return &createLockTool{
		chainService: chainService,
		ownedEvents:  ownedEvents,
		deployer:     deployer,
	}
}

func (c *createLockTool) GetTool() mcp.Tool {
	options := append([]mcp.ToolOption{
		mcp.WithDescription("Create a lock for an event on the active chain. Builds the Unlock factory transaction and returns a URL where the organizer signs it with their wallet. The deployment is tracked until the wallet reports the result."),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("ID of the event the lock is created for. An event can only own one lock"),
		),
	}, lockArgumentOptions()...)
	return mcp.NewTool("create_lock", options...)
}

func (c *createLockTool) GetHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args LockArguments
		if err := request.BindArguments(&args); err != nil {
			return nil, fmt.Errorf("failed to bind arguments: %w", err)
		}
		if args.EventID == "" {
			return mcp.NewToolResultError("event_id is required"), nil
		}
		if err := validator.New().Struct(args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		owned, err := c.ownedEvents.Has(args.EventID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to check event: %v", err)), nil
		}
		if owned {
			return mcp.NewToolResultError(fmt.Sprintf("Event %s already has a lock", args.EventID)), nil
		}

		req, err := args.Request()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		chain, err := c.chainService.GetActiveChain()
		if err != nil {
			return mcp.NewToolResultError("No active chain selected. Please use select_chain tool first"), nil
		}

		result, err := c.deployer.Deploy(ctx, services.DeployLockRequest{
			Chain:   *chain,
			UserID:  utils.AuthenticatedUserID(ctx),
			EventID: args.EventID,
			Request: req,
		})
		if err != nil {
			var validationErr *lock.ValidationError
			switch {
			case errors.As(err, &validationErr):
				return mcp.NewToolResultError(fmt.Sprintf("Invalid lock: %v", err)), nil
			case errors.Is(err, services.ErrEventDeploymentOpen):
				return mcp.NewToolResultError(fmt.Sprintf("Event %s already has a lock deployment in progress", args.EventID)), nil
			case errors.Is(err, lock.ErrDecimalsPending):
				return mcp.NewToolResultError("Token decimals are still being resolved. Try again in a moment."), nil
			default:
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create lock: %v", err)), nil
			}
		}

		response := map[string]interface{}{
			"deployment_id":     result.Deployment.ID,
			"session_id":        result.SessionID,
			"signing_url":       result.SigningURL,
			"event_id":          args.EventID,
			"name":              result.Deployment.Name,
			"price":             result.Deployment.Price,
			"price_minor_units": result.Deployment.PriceMinorUnits,
			"decimals":          result.Deployment.Decimals,
			"duration_days":     result.Deployment.DurationDays,
			"max_supply":        result.Deployment.MaxSupply,
			"currency_address":  result.Deployment.CurrencyAddress,
			"chain_id":          chain.NetworkID,
			"message":           "Lock deployment session created. Open the signing URL to connect the creator wallet and deploy the lock.",
		}

		responseJSON, _ := json.Marshal(response)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent("Lock deployment created: "),
				mcp.NewTextContent(string(responseJSON)),
			},
		}, nil
	}
}
