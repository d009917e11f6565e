package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
)

// MembershipService answers whether a wallet holds a key to any lock of a paywall config.
type MembershipService interface {
	ParsePaywallConfig(raw []byte) (models.PaywallConfig, error)
	// HasMembership checks the locks in address order and stops at the first valid key.
	HasMembership(ctx context.Context, user common.Address, config models.PaywallConfig) (bool, error)
}

type membershipService struct {
	chainService    ChainService
	ethereumService EthereumService
	validator       *validator.Validate
}

func NewMembershipService(chainService ChainService, ethereumService EthereumService) MembershipService {
	return &membershipService{
		chainService:    chainService,
		ethereumService: ethereumService,
		validator:       validator.New(),
	}
}

func (s *membershipService) ParsePaywallConfig(raw []byte) (models.PaywallConfig, error) {
	var config models.PaywallConfig
	if err := json.Unmarshal(raw, &config); err != nil {
		return models.PaywallConfig{}, fmt.Errorf("invalid paywall config: %w", err)
	}
	if err := s.validator.Struct(config); err != nil {
		return models.PaywallConfig{}, fmt.Errorf("invalid paywall config: %w", err)
	}
	return config, nil
}

func (s *membershipService) HasMembership(ctx context.Context, user common.Address, config models.PaywallConfig) (bool, error) {
	addresses := make([]string, 0, len(config.Locks))
	for address := range config.Locks {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	for _, address := range addresses {
		network := strconv.FormatInt(config.Locks[address].Network, 10)
		chain, err := s.chainService.GetChainByNetworkID(network)
		if err != nil {
			return false, fmt.Errorf("network %s of lock %s is not configured: %w", network, address, err)
		}

		balance, err := s.ethereumService.LockBalanceOf(ctx, chain.RPC, common.HexToAddress(address), user)
		if err != nil {
			return false, fmt.Errorf("failed to read key balance on lock %s: %w", address, err)
		}
		if balance.Sign() > 0 {
			return true, nil
		}
	}
	return false, nil
}
