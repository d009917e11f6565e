package lock

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rxtech-lab/lock-launchpad/internal/constants"
	"github.com/rxtech-lab/lock-launchpad/internal/contracts"
)

// InitializeArgs are the decoded arguments of a PublicLock initialize call.
type InitializeArgs struct {
	Creator           common.Address
	ExpirationSeconds *big.Int
	Token             common.Address
	KeyPrice          *big.Int
	MaxNumberOfKeys   *big.Int
	Name              string
}

// BuildInitializeCalldata encodes initialize(address,uint256,address,uint256,uint256,string) for req.
// The request must already be valid; invalid input yields an *EncodingError.
func BuildInitializeCalldata(req LockDeploymentRequest, decimals uint8) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, &EncodingError{Op: constants.InitializeLockFunction, Err: err}
	}

	price, err := ParseUnits(req.PriceMajorUnits, decimals)
	if err != nil {
		return nil, &EncodingError{Op: constants.InitializeLockFunction, Err: fmt.Errorf("price: %w", err)}
	}

	data, err := contracts.PublicLock.Pack(
		constants.InitializeLockFunction,
		req.Creator(),
		new(big.Int).Mul(big.NewInt(req.DurationDays), big.NewInt(constants.SecondsPerDay)),
		req.Currency(),
		price,
		big.NewInt(req.MaxSupply),
		req.Name,
	)
	if err != nil {
		return nil, &EncodingError{Op: constants.InitializeLockFunction, Err: err}
	}
	return data, nil
}

// DecodeInitializeCalldata reverses BuildInitializeCalldata.
func DecodeInitializeCalldata(data []byte) (*InitializeArgs, error) {
	method := contracts.PublicLock.Methods[constants.InitializeLockFunction]
	if len(data) < 4 || !bytes.Equal(data[:4], method.ID) {
		return nil, errors.New("calldata does not start with the initialize selector")
	}

	values, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, fmt.Errorf("failed to unpack initialize arguments: %w", err)
	}
	if len(values) != 6 {
		return nil, fmt.Errorf("expected 6 initialize arguments, got %d", len(values))
	}

	args := &InitializeArgs{}
	var ok bool
	if args.Creator, ok = values[0].(common.Address); !ok {
		return nil, errors.New("unexpected type for lock creator")
	}
	if args.ExpirationSeconds, ok = values[1].(*big.Int); !ok {
		return nil, errors.New("unexpected type for expiration duration")
	}
	if args.Token, ok = values[2].(common.Address); !ok {
		return nil, errors.New("unexpected type for token address")
	}
	if args.KeyPrice, ok = values[3].(*big.Int); !ok {
		return nil, errors.New("unexpected type for key price")
	}
	if args.MaxNumberOfKeys, ok = values[4].(*big.Int); !ok {
		return nil, errors.New("unexpected type for max number of keys")
	}
	if args.Name, ok = values[5].(string); !ok {
		return nil, errors.New("unexpected type for lock name")
	}
	return args, nil
}
