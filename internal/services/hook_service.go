package services

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
)

type HookService interface {
	AddHook(hook Hook) error
	OnTransactionConfirmed(txType models.TransactionType, txHash string, contractAddress *string, session models.TransactionSession) error
}

type hookService struct {
	mu    sync.RWMutex
	hooks []Hook
}

func NewHookService() HookService {
	return &hookService{
		hooks: []Hook{},
	}
}

func (h *hookService) AddHook(hook Hook) error {
	if hook == nil {
		return fmt.Errorf("hook is nil")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
	return nil
}

// OnTransactionConfirmed runs every hook that handles txType in registration order and stops at the first error.
func (h *hookService) OnTransactionConfirmed(txType models.TransactionType, txHash string, contractAddress *string, session models.TransactionSession) error {
	h.mu.RLock()
	hooks := append([]Hook(nil), h.hooks...)
	h.mu.RUnlock()

	for _, hook := range hooks {
		if !hook.CanHandle(txType) {
			continue
		}
		if err := hook.OnTransactionConfirmed(txType, txHash, contractAddress, session); err != nil {
			log.Error().Err(err).
				Str("component", "hooks").
				Str("tx_type", string(txType)).
				Str("tx_hash", txHash).
				Msg("transaction hook failed")
			return err
		}
	}
	return nil
}
