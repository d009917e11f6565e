package lock

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/lock-launchpad/internal/constants"
	"github.com/rxtech-lab/lock-launchpad/internal/contracts"
)

func TestLockAddressFromReceipt(t *testing.T) {
	lockAddress := common.HexToAddress("0x1111111111111111111111111111111111111111")
	owner := common.HexToAddress(testCreator)
	proxy := common.HexToAddress("0x2222222222222222222222222222222222222222")

	t.Run("new lock event", func(t *testing.T) {
		receipt := &types.Receipt{Logs: []*types.Log{
			{Address: proxy, Topics: []common.Hash{common.HexToHash("0x01")}},
			{
				Address: constants.FactoryAddress,
				Topics: []common.Hash{
					contracts.Unlock.Events["NewLock"].ID,
					common.BytesToHash(owner.Bytes()),
					common.BytesToHash(lockAddress.Bytes()),
				},
			},
		}}

		address, err := LockAddressFromReceipt(receipt)
		require.NoError(t, err)
		assert.Equal(t, lockAddress, address)
	})

	t.Run("falls back to first log emitter", func(t *testing.T) {
		receipt := &types.Receipt{Logs: []*types.Log{{Address: proxy}}}

		address, err := LockAddressFromReceipt(receipt)
		require.NoError(t, err)
		assert.Equal(t, proxy, address)
	})

	t.Run("no logs", func(t *testing.T) {
		_, err := LockAddressFromReceipt(&types.Receipt{})
		assert.Error(t, err)

		_, err = LockAddressFromReceipt(nil)
		assert.Error(t, err)
	})
}
