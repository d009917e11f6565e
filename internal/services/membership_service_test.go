package services

import (
	"context"
	"testing"

	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaywallConfig(t *testing.T) {
	service := NewMembershipService(nil, nil)

	tests := []struct {
		name        string
		raw         string
		expectError bool
	}{
		{name: "valid config", raw: `{"locks":{"0x00000000000000000000000000000000000000aa":{"network":80001}}}`},
		{name: "no locks", raw: `{"locks":{}}`, expectError: true},
		{name: "invalid address", raw: `{"locks":{"not-an-address":{"network":80001}}}`, expectError: true},
		{name: "missing network", raw: `{"locks":{"0x00000000000000000000000000000000000000aa":{}}}`, expectError: true},
		{name: "not json", raw: `locks`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := service.ParsePaywallConfig([]byte(tt.raw))
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(80001), config.Locks["0x00000000000000000000000000000000000000aa"].Network)
		})
	}
}

func TestHasMembership(t *testing.T) {
	db := setupTestDB(t)
	rpc := newTestChainRPC(t)
	chainService := NewChainService(db)
	require.NoError(t, chainService.CreateChain(&models.Chain{
		ChainType: models.TransactionChainTypeEthereum,
		RPC:       rpc.URL,
		NetworkID: "80001",
		Name:      "Polygon Mumbai",
	}))
	ethereumService := NewEthereumService(nil)
	defer ethereumService.Close()
	service := NewMembershipService(chainService, ethereumService)

	t.Run("member of one lock", func(t *testing.T) {
		config := models.PaywallConfig{Locks: map[string]models.PaywallLock{
			"0x00000000000000000000000000000000000000cc": {Network: 80001},
			testLock.Hex(): {Network: 80001},
		}}
		ok, err := service.HasMembership(context.Background(), testMember, config)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no key", func(t *testing.T) {
		config := models.PaywallConfig{Locks: map[string]models.PaywallLock{
			"0x00000000000000000000000000000000000000cc": {Network: 80001},
		}}
		ok, err := service.HasMembership(context.Background(), testMember, config)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown network", func(t *testing.T) {
		config := models.PaywallConfig{Locks: map[string]models.PaywallLock{
			testLock.Hex(): {Network: 5},
		}}
		_, err := service.HasMembership(context.Background(), testMember, config)
		assert.Error(t, err)
	})
}
