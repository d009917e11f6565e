package lock

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/lock-launchpad/internal/constants"
	"github.com/rxtech-lab/lock-launchpad/internal/contracts"
)

func TestBuildInitializeCalldataTestEvent(t *testing.T) {
	req := validRequest()

	data, err := BuildInitializeCalldata(req, 18)
	require.NoError(t, err)

	selector := contracts.PublicLock.Methods[constants.InitializeLockFunction].ID
	assert.Equal(t, selector, data[:4])
	assert.Equal(t, constants.InitializeSignature, contracts.PublicLock.Methods[constants.InitializeLockFunction].Sig)

	args, err := DecodeInitializeCalldata(data)
	require.NoError(t, err)

	twoEther, _ := new(big.Int).SetString("2000000000000000000", 10)
	assert.Equal(t, common.HexToAddress(testCreator), args.Creator)
	assert.Equal(t, "259200", args.ExpirationSeconds.String())
	assert.Equal(t, constants.NativeCurrency, args.Token)
	assert.Equal(t, twoEther.String(), args.KeyPrice.String())
	assert.Equal(t, "100", args.MaxNumberOfKeys.String())
	assert.Equal(t, "Test Event", args.Name)
}

func TestBuildInitializeCalldataIsDeterministic(t *testing.T) {
	req := validRequest()
	req.CurrencyAddress = testToken.Hex()
	req.PriceMajorUnits = "0.5"

	first, err := BuildInitializeCalldata(req, 6)
	require.NoError(t, err)
	second, err := BuildInitializeCalldata(req, 6)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	args, err := DecodeInitializeCalldata(first)
	require.NoError(t, err)
	assert.Equal(t, "500000", args.KeyPrice.String())
	assert.Equal(t, testToken, args.Token)
}

func TestBuildInitializeCalldataRejectsInvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LockDeploymentRequest)
	}{
		{name: "empty name", mutate: func(r *LockDeploymentRequest) { r.Name = "" }},
		{name: "malformed price", mutate: func(r *LockDeploymentRequest) { r.PriceMajorUnits = "abc" }},
		{name: "negative price", mutate: func(r *LockDeploymentRequest) { r.PriceMajorUnits = "-0.1" }},
		{name: "zero supply", mutate: func(r *LockDeploymentRequest) { r.MaxSupply = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := BuildInitializeCalldata(req, 18)
			var encodingErr *EncodingError
			assert.True(t, errors.As(err, &encodingErr), "expected EncodingError, got %v", err)
		})
	}
}

func TestDecodeInitializeCalldataRejectsOtherSelectors(t *testing.T) {
	_, err := DecodeInitializeCalldata([]byte{0x01, 0x02})
	assert.Error(t, err)

	_, err = DecodeInitializeCalldata([]byte{0xde, 0xad, 0xbe, 0xef, 0x00})
	assert.Error(t, err)
}

func TestBuildDeploymentArgsTargetsFactory(t *testing.T) {
	requests := []LockDeploymentRequest{validRequest()}
	other := validRequest()
	other.Name = "Another"
	other.CurrencyAddress = testToken.Hex()
	other.MaxSupply = 1
	requests = append(requests, other)

	for _, req := range requests {
		calldata, err := BuildInitializeCalldata(req, 6)
		require.NoError(t, err)

		args := BuildDeploymentArgs(calldata, constants.LockVersion)
		assert.Equal(t, common.HexToAddress("0x627118a4fB747016911e5cDA82e2E77C531e8206"), args.FactoryAddress)
		assert.Equal(t, "createUpgradeableLockAtVersion", args.FunctionName)
		assert.Equal(t, uint16(11), args.LockVersion)
		assert.Equal(t, calldata, []byte(args.Calldata))
	}
}

func TestDeploymentArgsData(t *testing.T) {
	calldata, err := BuildInitializeCalldata(validRequest(), 18)
	require.NoError(t, err)

	args := BuildDeploymentArgs(calldata, constants.LockVersion)
	data, err := args.Data()
	require.NoError(t, err)

	method := contracts.Unlock.Methods[constants.CreateLockFunction]
	assert.Equal(t, "createUpgradeableLockAtVersion(bytes,uint16)", method.Sig)
	assert.Equal(t, method.ID, data[:4])

	values, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, calldata, values[0])
	assert.Equal(t, uint16(11), values[1])

	_, err = DeploymentArgs{FunctionName: constants.CreateLockFunction}.Data()
	assert.Error(t, err)
}

func TestBuildDeploymentArgsCopiesCalldata(t *testing.T) {
	calldata := []byte{0x01, 0x02, 0x03}
	args := BuildDeploymentArgs(calldata, constants.LockVersion)
	calldata[0] = 0xff
	assert.Equal(t, byte(0x01), args.Calldata[0])
}

func TestIsReady(t *testing.T) {
	native := ResolvedDecimals(constants.NativeCurrency, 18)

	tests := []struct {
		name     string
		mutate   func(*LockDeploymentRequest)
		state    DecimalsState
		expected bool
	}{
		{name: "valid native request", mutate: func(r *LockDeploymentRequest) {}, state: native, expected: true},
		{name: "zero supply", mutate: func(r *LockDeploymentRequest) { r.MaxSupply = 0 }, state: native},
		{name: "negative supply", mutate: func(r *LockDeploymentRequest) { r.MaxSupply = -5 }, state: native},
		{name: "empty name", mutate: func(r *LockDeploymentRequest) { r.Name = "" }, state: native},
		{
			name:   "pending decimals",
			mutate: func(r *LockDeploymentRequest) { r.CurrencyAddress = testToken.Hex() },
			state:  PendingDecimals(testToken),
		},
		{
			name:   "failed decimals",
			mutate: func(r *LockDeploymentRequest) { r.CurrencyAddress = testToken.Hex() },
			state:  FailedDecimals(testToken, errors.New("boom")),
		},
		{
			name:   "decimals for another currency",
			mutate: func(r *LockDeploymentRequest) { r.CurrencyAddress = testToken.Hex() },
			state:  ResolvedDecimals(otherToken, 18),
		},
		{
			name:     "resolved token",
			mutate:   func(r *LockDeploymentRequest) { r.CurrencyAddress = testToken.Hex() },
			state:    ResolvedDecimals(testToken, 6),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			assert.Equal(t, tt.expected, IsReady(req, tt.state))
		})
	}
}

func TestBuild(t *testing.T) {
	req := validRequest()
	req.CurrencyAddress = testToken.Hex()

	_, err := Build(req, PendingDecimals(testToken))
	assert.ErrorIs(t, err, ErrDecimalsPending)

	_, err = Build(req, ResolvedDecimals(otherToken, 6))
	assert.ErrorIs(t, err, ErrDecimalsPending)

	cause := &DecimalsResolutionError{Token: testToken, Err: errors.New("boom")}
	_, err = Build(req, FailedDecimals(testToken, cause))
	assert.ErrorIs(t, err, cause)

	args, err := Build(req, ResolvedDecimals(testToken, 6))
	require.NoError(t, err)
	assert.Equal(t, constants.FactoryAddress, args.FactoryAddress)
}
