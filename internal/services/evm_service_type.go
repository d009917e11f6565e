package services

import "github.com/rxtech-lab/lock-launchpad/internal/lock"

type LockDeploymentTransactionArgs struct {
	Args        lock.DeploymentArgs
	Value       string `validate:"omitempty,number"` // Optional value, defaults to "0"
	Title       string `validate:"required"`
	Description string `validate:"required"`
}
