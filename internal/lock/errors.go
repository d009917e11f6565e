package lock

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrDecimalsPending is returned when calldata is requested before token decimals are known.
var ErrDecimalsPending = errors.New("token decimals are still being resolved")

// ValidationError reports a malformed or missing request field. It is user-correctable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DecimalsResolutionError reports that a token's precision could not be read.
type DecimalsResolutionError struct {
	Token common.Address
	Err   error
}

func (e *DecimalsResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve decimals for token %s: %v", e.Token.Hex(), e.Err)
}

func (e *DecimalsResolutionError) Unwrap() error {
	return e.Err
}

// EncodingError signals an internal invariant violation while building calldata.
// Validation should make it unreachable; seeing one is a programming defect.
type EncodingError struct {
	Op  string
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode %s: %v", e.Op, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// SubmissionFailure reports that the wallet or chain rejected the transaction.
type SubmissionFailure struct {
	TransactionID string
	Err           error
}

func (e *SubmissionFailure) Error() string {
	if e.TransactionID == "" {
		return fmt.Sprintf("transaction submission failed: %v", e.Err)
	}
	return fmt.Sprintf("transaction %s failed: %v", e.TransactionID, e.Err)
}

func (e *SubmissionFailure) Unwrap() error {
	return e.Err
}

// ReceiptFailure reports a mined transaction that reverted.
type ReceiptFailure struct {
	TxHash string
	Link   string
}

func (e *ReceiptFailure) Error() string {
	if e.Link != "" {
		return fmt.Sprintf("transaction %s reverted, see %s", e.TxHash, e.Link)
	}
	return fmt.Sprintf("transaction %s reverted", e.TxHash)
}
