package lock

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/lock-launchpad/internal/constants"
)

var validate = validator.New()

// EventDescriptor is the externally owned event a lock is created for.
type EventDescriptor struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// DefaultDurationDays rounds the event length up to whole days, or 1 for open-ended events.
func (e EventDescriptor) DefaultDurationDays() int64 {
	if e.End == nil || !e.End.After(e.Start) {
		return 1
	}
	days := e.End.Sub(e.Start).Hours() / 24
	return int64(math.Ceil(days))
}

// LockDeploymentRequest is the value a lock deployment is built from.
// A new request is built on every input change; requests are never mutated in place.
type LockDeploymentRequest struct {
	Name            string `json:"name" validate:"required"`
	DurationDays    int64  `json:"duration_days" validate:"gt=0,lte=106751991167300"`
	CurrencyAddress string `json:"currency_address,omitempty" validate:"omitempty,eth_addr"`
	PriceMajorUnits string `json:"price" validate:"required"`
	MaxSupply       int64  `json:"max_supply" validate:"gt=0"`
	CreatorAddress  string `json:"creator_address" validate:"required,eth_addr"`
}

// NewRequestFromEvent fills a request with the defaults offered for an event.
func NewRequestFromEvent(event EventDescriptor, creator string) LockDeploymentRequest {
	return LockDeploymentRequest{
		Name:            event.Name,
		DurationDays:    event.DefaultDurationDays(),
		PriceMajorUnits: constants.DefaultLockPrice,
		MaxSupply:       constants.DefaultLockMaxSupply,
		CreatorAddress:  creator,
	}
}

// Validate checks every request invariant and reports the first violation as a *ValidationError.
func (r LockDeploymentRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return toValidationError(fieldErrs[0])
		}
		return &ValidationError{Field: "request", Reason: err.Error()}
	}
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if _, _, err := splitDecimal(r.PriceMajorUnits); err != nil {
		return &ValidationError{Field: "price", Reason: err.Error()}
	}
	return nil
}

// Currency returns the payment token, or the native-currency sentinel.
func (r LockDeploymentRequest) Currency() common.Address {
	if r.CurrencyAddress == "" || !common.IsHexAddress(r.CurrencyAddress) {
		return constants.NativeCurrency
	}
	return common.HexToAddress(r.CurrencyAddress)
}

// IsNativeCurrency reports whether the lock is priced in the chain's base currency.
func (r LockDeploymentRequest) IsNativeCurrency() bool {
	return r.Currency() == constants.NativeCurrency
}

// Creator returns the address that will own the lock.
func (r LockDeploymentRequest) Creator() common.Address {
	return common.HexToAddress(r.CreatorAddress)
}

// DurationSeconds converts the membership length to the on-chain unit.
func (r LockDeploymentRequest) DurationSeconds() int64 {
	return r.DurationDays * constants.SecondsPerDay
}

func toValidationError(fe validator.FieldError) *ValidationError {
	field := fieldNames[fe.Field()]
	if field == "" {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Reason: "is required"}
	case "gt":
		return &ValidationError{Field: field, Reason: "must be greater than " + fe.Param()}
	case "lte":
		return &ValidationError{Field: field, Reason: "must be at most " + fe.Param()}
	case "eth_addr":
		return &ValidationError{Field: field, Reason: strconv.Quote(fe.Value().(string)) + " is not a valid address"}
	default:
		return &ValidationError{Field: field, Reason: "failed " + fe.Tag() + " check"}
	}
}

var fieldNames = map[string]string{
	"Name":            "name",
	"DurationDays":    "duration_days",
	"CurrencyAddress": "currency_address",
	"PriceMajorUnits": "price",
	"MaxSupply":       "max_supply",
	"CreatorAddress":  "creator_address",
}
