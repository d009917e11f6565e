package lock

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rxtech-lab/lock-launchpad/internal/contracts"
)

// LockAddressFromReceipt extracts the deployed lock from a factory receipt. The NewLock event is
// preferred; otherwise the emitter of the first log is the proxy that was just created.
func LockAddressFromReceipt(receipt *types.Receipt) (common.Address, error) {
	if receipt == nil {
		return common.Address{}, errors.New("receipt is nil")
	}
	if len(receipt.Logs) == 0 {
		return common.Address{}, errors.New("receipt has no logs")
	}

	newLock := contracts.Unlock.Events["NewLock"].ID
	for _, entry := range receipt.Logs {
		if entry == nil || len(entry.Topics) < 3 {
			continue
		}
		if entry.Topics[0] == newLock {
			return common.BytesToAddress(entry.Topics[2].Bytes()), nil
		}
	}

	if receipt.Logs[0] == nil {
		return common.Address{}, errors.New("receipt has no logs")
	}
	return receipt.Logs[0].Address, nil
}
