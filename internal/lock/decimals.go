package lock

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rxtech-lab/lock-launchpad/internal/constants"
)

// ChainReader reads token metadata from the chain a lock is deployed on.
type ChainReader interface {
	TokenDecimals(ctx context.Context, token common.Address) (uint8, error)
}

type DecimalsStatus int

const (
	DecimalsPending DecimalsStatus = iota
	DecimalsResolved
	DecimalsFailed
)

func (s DecimalsStatus) String() string {
	switch s {
	case DecimalsResolved:
		return "resolved"
	case DecimalsFailed:
		return "failed"
	default:
		return "pending"
	}
}

// DecimalsState is the resolution state of a token's precision, keyed by the currency it belongs to.
type DecimalsState struct {
	Currency common.Address
	Status   DecimalsStatus
	Value    uint8
	Err      error
}

func PendingDecimals(currency common.Address) DecimalsState {
	return DecimalsState{Currency: currency, Status: DecimalsPending}
}

func ResolvedDecimals(currency common.Address, value uint8) DecimalsState {
	return DecimalsState{Currency: currency, Status: DecimalsResolved, Value: value}
}

func FailedDecimals(currency common.Address, err error) DecimalsState {
	return DecimalsState{Currency: currency, Status: DecimalsFailed, Err: err}
}

// Decimals returns the precision when the state is resolved.
func (s DecimalsState) Decimals() (uint8, bool) {
	return s.Value, s.Status == DecimalsResolved
}

// ParseCurrency normalizes an optional currency field. Empty means native currency.
func ParseCurrency(currencyAddress string) (common.Address, error) {
	trimmed := strings.TrimSpace(currencyAddress)
	if trimmed == "" {
		return constants.NativeCurrency, nil
	}
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, &ValidationError{Field: "currency_address", Reason: "is not a valid address"}
	}
	return common.HexToAddress(trimmed), nil
}

// ResolveDecimals returns the pricing precision for a currency. Native currency resolves to 18
// without touching the chain.
func ResolveDecimals(ctx context.Context, currencyAddress string, reader ChainReader) DecimalsState {
	currency, err := ParseCurrency(currencyAddress)
	if err != nil {
		return FailedDecimals(common.Address{}, err)
	}
	if currency == constants.NativeCurrency {
		return ResolvedDecimals(currency, constants.NativeCurrencyDecimals)
	}
	if reader == nil {
		return FailedDecimals(currency, &DecimalsResolutionError{Token: currency, Err: errors.New("no chain reader configured")})
	}

	value, err := reader.TokenDecimals(ctx, currency)
	if err != nil {
		return FailedDecimals(currency, &DecimalsResolutionError{Token: currency, Err: err})
	}
	return ResolvedDecimals(currency, value)
}

// DecimalsResolver tracks the currency currently selected for a form and resolves its precision
// at most once per address. Results for a currency that is no longer selected are cached under
// their own address and never reported as the current state. Failed lookups are retried on the
// next selection of the same address.
type DecimalsResolver struct {
	reader ChainReader

	mu       sync.Mutex
	current  common.Address
	selected bool
	cache    map[common.Address]DecimalsState
	inflight map[common.Address]chan struct{}
	onLookup func(DecimalsState)
}

func NewDecimalsResolver(reader ChainReader) *DecimalsResolver {
	return &DecimalsResolver{
		reader:   reader,
		cache:    make(map[common.Address]DecimalsState),
		inflight: make(map[common.Address]chan struct{}),
	}
}

// OnLookup registers a callback invoked after every chain lookup completes.
func (r *DecimalsResolver) OnLookup(fn func(DecimalsState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onLookup = fn
}

// Select makes currencyAddress the current currency and returns its state without blocking.
// A lookup is started in the background when the address has not been resolved yet.
func (r *DecimalsResolver) Select(ctx context.Context, currencyAddress string) DecimalsState {
	currency, err := ParseCurrency(currencyAddress)
	if err != nil {
		r.mu.Lock()
		r.selected = false
		r.mu.Unlock()
		return FailedDecimals(common.Address{}, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = currency
	r.selected = true

	if currency == constants.NativeCurrency {
		return ResolvedDecimals(currency, constants.NativeCurrencyDecimals)
	}
	// a failed lookup is retried when the currency is selected again
	if state, ok := r.cache[currency]; ok && state.Status == DecimalsResolved {
		return state
	}
	delete(r.cache, currency)
	if _, running := r.inflight[currency]; !running {
		done := make(chan struct{})
		r.inflight[currency] = done
		go r.lookup(context.WithoutCancel(ctx), currency, done)
	}
	return PendingDecimals(currency)
}

func (r *DecimalsResolver) lookup(ctx context.Context, currency common.Address, done chan struct{}) {
	state := ResolveDecimals(ctx, currency.Hex(), r.reader)

	r.mu.Lock()
	r.cache[currency] = state
	delete(r.inflight, currency)
	hook := r.onLookup
	r.mu.Unlock()

	close(done)
	if hook != nil {
		hook(state)
	}
}

// Current returns the state of the currently selected currency.
func (r *DecimalsResolver) Current() DecimalsState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.selected {
		return PendingDecimals(common.Address{})
	}
	return r.stateLocked(r.current)
}

func (r *DecimalsResolver) stateLocked(currency common.Address) DecimalsState {
	if currency == constants.NativeCurrency {
		return ResolvedDecimals(currency, constants.NativeCurrencyDecimals)
	}
	if state, ok := r.cache[currency]; ok {
		return state
	}
	return PendingDecimals(currency)
}

// Resolve selects currencyAddress and blocks until its lookup finishes or ctx is done.
// It returns a pending state when the selection moved to another currency in the meantime.
func (r *DecimalsResolver) Resolve(ctx context.Context, currencyAddress string) DecimalsState {
	state := r.Select(ctx, currencyAddress)
	if state.Status != DecimalsPending {
		return state
	}

	r.mu.Lock()
	done, running := r.inflight[state.Currency]
	r.mu.Unlock()
	if running {
		select {
		case <-done:
		case <-ctx.Done():
			return PendingDecimals(state.Currency)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.selected || r.current != state.Currency {
		return PendingDecimals(state.Currency)
	}
	return r.stateLocked(state.Currency)
}
