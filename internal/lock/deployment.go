package lock

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rxtech-lab/lock-launchpad/internal/constants"
	"github.com/rxtech-lab/lock-launchpad/internal/contracts"
)

// DeploymentArgs is the factory invocation that deploys and initializes a lock in one transaction.
type DeploymentArgs struct {
	FactoryAddress common.Address `json:"factory_address"`
	FunctionName   string         `json:"function_name"`
	Calldata       hexutil.Bytes  `json:"calldata"`
	LockVersion    uint16         `json:"lock_version"`
}

// BuildDeploymentArgs wraps initializer calldata in a createUpgradeableLockAtVersion call.
func BuildDeploymentArgs(calldata []byte, version uint16) DeploymentArgs {
	return DeploymentArgs{
		FactoryAddress: constants.FactoryAddress,
		FunctionName:   constants.CreateLockFunction,
		Calldata:       append([]byte(nil), calldata...),
		LockVersion:    version,
	}
}

// Data encodes the full factory call, ready to be sent as transaction data.
func (a DeploymentArgs) Data() ([]byte, error) {
	if len(a.Calldata) == 0 {
		return nil, &EncodingError{Op: a.FunctionName, Err: errors.New("empty initializer calldata")}
	}
	data, err := contracts.Unlock.Pack(a.FunctionName, []byte(a.Calldata), a.LockVersion)
	if err != nil {
		return nil, &EncodingError{Op: a.FunctionName, Err: err}
	}
	return data, nil
}

// Describe renders the call for logs and previews.
func (a DeploymentArgs) Describe() string {
	return fmt.Sprintf("%s.%s(%d bytes, %d)", a.FactoryAddress.Hex(), a.FunctionName, len(a.Calldata), a.LockVersion)
}

// Build runs the full pipeline for a ready request.
func Build(req LockDeploymentRequest, state DecimalsState) (DeploymentArgs, error) {
	if err := req.Validate(); err != nil {
		return DeploymentArgs{}, err
	}
	decimals, err := decimalsFor(req, state)
	if err != nil {
		return DeploymentArgs{}, err
	}
	calldata, err := BuildInitializeCalldata(req, decimals)
	if err != nil {
		return DeploymentArgs{}, err
	}
	return BuildDeploymentArgs(calldata, constants.LockVersion), nil
}

func decimalsFor(req LockDeploymentRequest, state DecimalsState) (uint8, error) {
	if state.Currency != req.Currency() {
		return 0, ErrDecimalsPending
	}
	switch state.Status {
	case DecimalsResolved:
		return state.Value, nil
	case DecimalsFailed:
		if state.Err != nil {
			return 0, state.Err
		}
		return 0, &DecimalsResolutionError{Token: state.Currency, Err: errors.New("unknown error")}
	default:
		return 0, ErrDecimalsPending
	}
}
