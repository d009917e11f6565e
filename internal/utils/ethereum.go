package utils

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

func IsValidEthereumAddress(address string) bool {
	return common.IsHexAddress(address)
}

// ParseAddress validates and checksums an address.
func ParseAddress(address string) (common.Address, error) {
	trimmed := strings.TrimSpace(address)
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, fmt.Errorf("invalid address format: %s", address)
	}
	return common.HexToAddress(trimmed), nil
}

// ParseTransactionHash validates a 0x-prefixed 32 byte transaction hash.
func ParseTransactionHash(txHash string) (common.Hash, error) {
	if !strings.HasPrefix(txHash, "0x") {
		return common.Hash{}, fmt.Errorf("transaction hash must start with 0x")
	}
	if len(txHash) != 66 {
		return common.Hash{}, fmt.Errorf("transaction hash must be 32 bytes (66 hex characters including 0x)")
	}
	if _, err := hex.DecodeString(txHash[2:]); err != nil {
		return common.Hash{}, fmt.Errorf("transaction hash is not valid hex: %w", err)
	}
	return common.HexToHash(txHash), nil
}
