package constants

import "github.com/ethereum/go-ethereum/common"

const (
	// UnlockFactoryAddress is the Unlock v11 factory that deploys upgradeable locks.
	UnlockFactoryAddress = "0x627118a4fB747016911e5cDA82e2E77C531e8206"
	// LockVersion is the PublicLock template version requested from the factory.
	LockVersion uint16 = 11

	CreateLockFunction     = "createUpgradeableLockAtVersion"
	InitializeLockFunction = "initialize"
	InitializeSignature    = "initialize(address,uint256,address,uint256,uint256,string)"

	// NativeCurrencyDecimals is the precision used when a lock is priced in the chain's base currency.
	NativeCurrencyDecimals uint8 = 18
	SecondsPerDay          int64 = 60 * 60 * 24
	// MaxLockDurationDays is the longest duration whose length in seconds fits in an int64.
	MaxLockDurationDays int64 = 106751991167300

	DefaultViewerHost = "app.unlock-protocol.com"
	// DefaultNetworkID is Polygon Mumbai.
	DefaultNetworkID int64 = 80001

	DefaultLockPrice     = "1"
	DefaultLockMaxSupply = int64(100)
)

// NativeCurrency is the zero-address sentinel meaning "the chain's base currency".
var NativeCurrency = common.Address{}

// FactoryAddress is UnlockFactoryAddress as a typed address.
var FactoryAddress = common.HexToAddress(UnlockFactoryAddress)
