package hooks

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
	"github.com/rxtech-lab/lock-launchpad/internal/constants"
	"github.com/rxtech-lab/lock-launchpad/internal/lock"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
)

// LockDeploymentHook stores the address of a confirmed lock and marks its event as owned.
type LockDeploymentHook struct {
	deploymentService services.DeploymentService
	ownedEvents       services.OwnedEventStore
	viewerHost        string
}

func NewLockDeploymentHook(deploymentService services.DeploymentService, ownedEvents services.OwnedEventStore, viewerHost string) services.Hook {
	return &LockDeploymentHook{
		deploymentService: deploymentService,
		ownedEvents:       ownedEvents,
		viewerHost:        viewerHost,
	}
}

// CanHandle implements Hook.
func (h *LockDeploymentHook) CanHandle(txType models.TransactionType) bool {
	return txType == models.TransactionTypeLockDeployment
}

// OnTransactionConfirmed implements Hook.
func (h *LockDeploymentHook) OnTransactionConfirmed(txType models.TransactionType, txHash string, contractAddress *string, session models.TransactionSession) error {
	if contractAddress == nil || !common.IsHexAddress(*contractAddress) {
		return fmt.Errorf("lock deployment %s confirmed without a lock address", txHash)
	}
	lockAddress := common.HexToAddress(*contractAddress)

	networkID, err := session.Chain.NetworkIDInt()
	if err != nil {
		networkID = constants.DefaultNetworkID
	}

	err = h.deploymentService.UpdateDeploymentResultBySessionID(session.ID, services.DeploymentResult{
		Status:          models.TransactionStatusConfirmed,
		TransactionHash: txHash,
		LockAddress:     lockAddress.Hex(),
		ViewerLink:      lock.BuildUnlockLink(h.viewerHost, networkID, lockAddress),
	})
	if err != nil {
		return fmt.Errorf("failed to update lock deployment for session %s: %w", session.ID, err)
	}

	if eventID, ok := session.MetadataValue(services.MetadataEventID); ok && eventID != "" {
		if err := h.ownedEvents.Add(eventID); err != nil {
			return fmt.Errorf("failed to mark event %s as owned: %w", eventID, err)
		}
	}

	log.Info().
		Str("component", "hooks").
		Str("session_id", session.ID).
		Str("lock_address", lockAddress.Hex()).
		Msg("lock deployment confirmed")
	return nil
}
