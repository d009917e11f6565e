package services

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
)

// EvmService turns factory calls into transactions the signing page can send.
type EvmService interface {
	GetLockDeploymentTransaction(args LockDeploymentTransactionArgs) (models.TransactionDeployment, error)
}

type evmService struct {
	validator *validator.Validate
}

func NewEvmService() EvmService {
	return &evmService{validator: validator.New()}
}

// GetLockDeploymentTransaction returns the factory call that deploys a lock
func (s *evmService) GetLockDeploymentTransaction(args LockDeploymentTransactionArgs) (models.TransactionDeployment, error) {
	if err := s.validator.Struct(args); err != nil {
		return models.TransactionDeployment{}, err
	}

	data, err := args.Args.Data()
	if err != nil {
		return models.TransactionDeployment{}, err
	}

	return models.TransactionDeployment{
		Title:           args.Title,
		Description:     args.Description,
		Data:            hexutil.Encode(data),
		Value:           valueOrZero(args.Value),
		Receiver:        args.Args.FactoryAddress.Hex(),
		TransactionType: models.TransactionTypeLockDeployment,
	}, nil
}

func valueOrZero(value string) string {
	if value == "" {
		return "0"
	}
	return value
}
