package lock

import (
	"errors"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/lock-launchpad/internal/constants"
)

const testCreator = "0xAbC0000000000000000000000000000000000001"

func validRequest() LockDeploymentRequest {
	return LockDeploymentRequest{
		Name:            "Test Event",
		DurationDays:    3,
		PriceMajorUnits: "2",
		MaxSupply:       100,
		CreatorAddress:  testCreator,
	}
}

func TestEventDescriptorDefaultDuration(t *testing.T) {
	start := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	later := func(d time.Duration) *time.Time {
		end := start.Add(d)
		return &end
	}

	tests := []struct {
		name     string
		end      *time.Time
		expected int64
	}{
		{name: "no end", end: nil, expected: 1},
		{name: "end before start", end: later(-time.Hour), expected: 1},
		{name: "same instant", end: later(0), expected: 1},
		{name: "few hours", end: later(4 * time.Hour), expected: 1},
		{name: "exactly two days", end: later(48 * time.Hour), expected: 2},
		{name: "just over two days", end: later(48*time.Hour + time.Minute), expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := EventDescriptor{Name: "Meetup", Start: start, End: tt.end}
			assert.Equal(t, tt.expected, event.DefaultDurationDays())
		})
	}
}

func TestNewRequestFromEvent(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	req := NewRequestFromEvent(EventDescriptor{ID: "evt-1", Name: "Test Event", Start: start, End: &end}, testCreator)

	assert.Equal(t, "Test Event", req.Name)
	assert.Equal(t, int64(3), req.DurationDays)
	assert.Equal(t, constants.DefaultLockPrice, req.PriceMajorUnits)
	assert.Equal(t, constants.DefaultLockMaxSupply, req.MaxSupply)
	assert.Empty(t, req.CurrencyAddress)
	assert.NoError(t, req.Validate())
}

func TestLockDeploymentRequestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LockDeploymentRequest)
		field  string
	}{
		{name: "valid", mutate: func(r *LockDeploymentRequest) {}},
		{name: "empty name", mutate: func(r *LockDeploymentRequest) { r.Name = "" }, field: "name"},
		{name: "blank name", mutate: func(r *LockDeploymentRequest) { r.Name = "   " }, field: "name"},
		{name: "zero duration", mutate: func(r *LockDeploymentRequest) { r.DurationDays = 0 }, field: "duration_days"},
		{name: "negative duration", mutate: func(r *LockDeploymentRequest) { r.DurationDays = -2 }, field: "duration_days"},
		{name: "zero supply", mutate: func(r *LockDeploymentRequest) { r.MaxSupply = 0 }, field: "max_supply"},
		{name: "negative supply", mutate: func(r *LockDeploymentRequest) { r.MaxSupply = -1 }, field: "max_supply"},
		{name: "missing price", mutate: func(r *LockDeploymentRequest) { r.PriceMajorUnits = "" }, field: "price"},
		{name: "negative price", mutate: func(r *LockDeploymentRequest) { r.PriceMajorUnits = "-1" }, field: "price"},
		{name: "bad currency", mutate: func(r *LockDeploymentRequest) { r.CurrencyAddress = "usdc" }, field: "currency_address"},
		{name: "missing creator", mutate: func(r *LockDeploymentRequest) { r.CreatorAddress = "" }, field: "creator_address"},
		{name: "bad creator", mutate: func(r *LockDeploymentRequest) { r.CreatorAddress = "0x123" }, field: "creator_address"},
		{name: "zero price is allowed", mutate: func(r *LockDeploymentRequest) { r.PriceMajorUnits = "0" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestRequestCurrency(t *testing.T) {
	req := validRequest()
	assert.True(t, req.IsNativeCurrency())
	assert.Equal(t, constants.NativeCurrency, req.Currency())

	req.CurrencyAddress = "0x0000000000000000000000000000000000000000"
	assert.True(t, req.IsNativeCurrency())

	req.CurrencyAddress = testToken.Hex()
	assert.False(t, req.IsNativeCurrency())
	assert.Equal(t, testToken, req.Currency())
}

func TestDurationSeconds(t *testing.T) {
	for _, days := range []int64{1, 3, 30, 365} {
		req := validRequest()
		req.DurationDays = days
		assert.Equal(t, days*86400, req.DurationSeconds())
	}
}

func TestDurationDaysUpperBound(t *testing.T) {
	req := validRequest()
	req.DurationDays = constants.MaxLockDurationDays
	require.NoError(t, req.Validate())
	assert.Equal(t, constants.MaxLockDurationDays*86400, req.DurationSeconds())

	data, err := BuildInitializeCalldata(req, constants.NativeCurrencyDecimals)
	require.NoError(t, err)
	decoded, err := DecodeInitializeCalldata(data)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(constants.MaxLockDurationDays), big.NewInt(86400)), decoded.ExpirationSeconds)

	req.DurationDays = math.MaxInt64/86400 + 1
	err = req.Validate()
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)
	assert.Equal(t, "duration_days", validationErr.Field)
	assert.False(t, IsReady(req, ResolvedDecimals(constants.NativeCurrency, 18)))

	_, err = BuildInitializeCalldata(req, constants.NativeCurrencyDecimals)
	assert.Error(t, err)
}
