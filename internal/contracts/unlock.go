package contracts

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// PublicLockABI is the subset of the PublicLock v11 ABI used to initialize a lock and read keys.
const PublicLockABI = `[
  {
    "inputs": [
      {"internalType": "address", "name": "_lockCreator", "type": "address"},
      {"internalType": "uint256", "name": "_expirationDuration", "type": "uint256"},
      {"internalType": "address", "name": "_tokenAddress", "type": "address"},
      {"internalType": "uint256", "name": "_keyPrice", "type": "uint256"},
      {"internalType": "uint256", "name": "_maxNumberOfKeys", "type": "uint256"},
      {"internalType": "string", "name": "_lockName", "type": "string"}
    ],
    "name": "initialize",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "address", "name": "_keyOwner", "type": "address"}],
    "name": "balanceOf",
    "outputs": [{"internalType": "uint256", "name": "balance", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "name",
    "outputs": [{"internalType": "string", "name": "", "type": "string"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

// UnlockABI is the subset of the Unlock v11 factory ABI used to deploy locks.
const UnlockABI = `[
  {
    "inputs": [
      {"internalType": "bytes", "name": "data", "type": "bytes"},
      {"internalType": "uint16", "name": "_lockVersion", "type": "uint16"}
    ],
    "name": "createUpgradeableLockAtVersion",
    "outputs": [{"internalType": "address", "name": "", "type": "address"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "lockOwner", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "newLockAddress", "type": "address"}
    ],
    "name": "NewLock",
    "type": "event"
  }
]`

// ERC20ABI covers the token metadata reads needed for pricing.
const ERC20ABI = `[
  {
    "inputs": [],
    "name": "decimals",
    "outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "symbol",
    "outputs": [{"internalType": "string", "name": "", "type": "string"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	PublicLock = mustParseABI("PublicLock", PublicLockABI)
	Unlock     = mustParseABI("Unlock", UnlockABI)
	ERC20      = mustParseABI("ERC20", ERC20ABI)
)

func mustParseABI(name, raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("failed to parse %s ABI: %v", name, err))
	}
	return parsed
}
