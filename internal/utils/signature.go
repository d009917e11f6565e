package utils

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

func GenerateMessage() string {
	return fmt.Sprintf("I am deploying a lock with Lock Launchpad at %d", time.Now().Unix())
}

// RecoverSigner recovers the address that produced a personal_sign signature over message.
func RecoverSigner(signature, message string) (common.Address, error) {
	if !strings.HasPrefix(signature, "0x") {
		return common.Address{}, fmt.Errorf("signature must start with 0x")
	}
	if len(signature) != 132 {
		return common.Address{}, fmt.Errorf("signature must be 65 bytes (130 hex characters)")
	}

	sigData, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode signature: %w", err)
	}

	// wallets return v as 27/28, go-ethereum expects 0/1
	if sigData[64] >= 27 {
		sigData[64] -= 27
	}

	publicKey, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sigData)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*publicKey), nil
}

// VerifyPersonalSignature verifies that signature was created for message by signerAddress.
func VerifyPersonalSignature(message string, signature string, signerAddress string) (bool, error) {
	if message == "" {
		return false, fmt.Errorf("message cannot be empty")
	}
	if signature == "" {
		return false, fmt.Errorf("signature cannot be empty")
	}
	if !common.IsHexAddress(signerAddress) {
		return false, fmt.Errorf("invalid signer address format: %s", signerAddress)
	}

	recovered, err := RecoverSigner(signature, message)
	if err != nil {
		return false, fmt.Errorf("failed to recover address from signature: %w", err)
	}
	return recovered == common.HexToAddress(signerAddress), nil
}

// VerifyTransactionOwnership checks that the sender of a transaction signed message.
// The message is hex encoded first, the same way ethers.js signs strings from the signing page.
func VerifyTransactionOwnership(sender common.Address, signature, message string) (bool, error) {
	if message == "" {
		return false, fmt.Errorf("message cannot be empty")
	}
	encodedMessage := "0x" + hex.EncodeToString([]byte(message))
	return VerifyPersonalSignature(encodedMessage, signature, sender.Hex())
}

func personalSign(message string, privateKey *ecdsa.PrivateKey) (string, error) {
	if privateKey == nil {
		return "", fmt.Errorf("private key cannot be nil")
	}
	if message == "" {
		return "", fmt.Errorf("message cannot be empty")
	}

	signature, err := crypto.Sign(accounts.TextHash([]byte(message)), privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	return "0x" + hex.EncodeToString(signature), nil
}

// PersonalSignFromHex signs a message with a hex encoded private key.
func PersonalSignFromHex(message string, privateKeyHex string) (string, error) {
	if privateKeyHex == "" {
		return "", fmt.Errorf("private key hex cannot be empty")
	}

	privateKeyBytes, err := hex.DecodeString(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid private key hex format: %w", err)
	}

	privateKey, err := crypto.ToECDSA(privateKeyBytes)
	if err != nil {
		return "", fmt.Errorf("failed to parse private key: %w", err)
	}

	return personalSign(message, privateKey)
}
