package utils

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Anvil account #0
const testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestGenerateMessage(t *testing.T) {
	assert.Contains(t, GenerateMessage(), "I am deploying a lock with Lock Launchpad at")
}

func TestRecoverSigner(t *testing.T) {
	privateKey, err := crypto.HexToECDSA(testPrivateKey[2:])
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(privateKey.PublicKey)

	t.Run("round trip", func(t *testing.T) {
		signature, err := PersonalSignFromHex("hello unlock", testPrivateKey)
		require.NoError(t, err)

		recovered, err := RecoverSigner(signature, "hello unlock")
		require.NoError(t, err)
		assert.Equal(t, address, recovered)
	})

	t.Run("wallet style recovery id", func(t *testing.T) {
		signature, err := PersonalSignFromHex("hello unlock", testPrivateKey)
		require.NoError(t, err)
		raw, err := hex.DecodeString(signature[2:])
		require.NoError(t, err)
		raw[64] += 27

		recovered, err := RecoverSigner("0x"+hex.EncodeToString(raw), "hello unlock")
		require.NoError(t, err)
		assert.Equal(t, address, recovered)
	})

	t.Run("validation errors", func(t *testing.T) {
		tests := []struct {
			name      string
			signature string
			wantError string
		}{
			{name: "missing prefix", signature: "abcd", wantError: "must start with 0x"},
			{name: "too short", signature: "0x1234", wantError: "65 bytes"},
			{name: "bad hex", signature: "0x" + string(make([]byte, 130)), wantError: "failed to decode"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := RecoverSigner(tt.signature, "message")
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
			})
		}
	})
}

func TestVerifyPersonalSignature(t *testing.T) {
	signature := "0x403163eee64372c6cc53777e08cd1360d61b7d7cb18f7390ad5089872de74d124865c46ec9c3c486b320f7450b25403c10587812623daa7eb1e57e7d2ad295b91c"
	address := "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	message := "I am signing into Launchpad at 1756811045"

	verified, err := VerifyPersonalSignature(message, signature, address)
	require.NoError(t, err)
	assert.True(t, verified, "The signature should be valid for the given address and message")

	verified, err = VerifyPersonalSignature(message, signature, "0x1234567890123456789012345678901234567890")
	require.NoError(t, err)
	assert.False(t, verified)

	_, err = VerifyPersonalSignature("", signature, address)
	assert.Error(t, err)
	_, err = VerifyPersonalSignature(message, "", address)
	assert.Error(t, err)
	_, err = VerifyPersonalSignature(message, signature, "not-an-address")
	assert.Error(t, err)
}

func TestVerifyTransactionOwnership(t *testing.T) {
	privateKey, err := crypto.HexToECDSA(testPrivateKey[2:])
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(privateKey.PublicKey)

	message := "I am deploying a lock with Lock Launchpad at 1700000000"
	signature, err := PersonalSignFromHex("0x"+hex.EncodeToString([]byte(message)), testPrivateKey)
	require.NoError(t, err)

	verified, err := VerifyTransactionOwnership(sender, signature, message)
	require.NoError(t, err)
	assert.True(t, verified)

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	verified, err = VerifyTransactionOwnership(crypto.PubkeyToAddress(other.PublicKey), signature, message)
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestPersonalSignFromHexErrors(t *testing.T) {
	_, err := PersonalSignFromHex("message", "")
	assert.Error(t, err)
	_, err = PersonalSignFromHex("message", "0xnothex")
	assert.Error(t, err)
	_, err = PersonalSignFromHex("", testPrivateKey)
	assert.Error(t, err)
}
