package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/lock-launchpad/internal/constants"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestLockArgumentsRequest(t *testing.T) {
	base := LockArguments{
		Name:           "Go Meetup",
		CreatorAddress: testCreator,
		EventStart:     "2026-10-01T18:00:00Z",
		EventEnd:       "2026-10-03T12:00:00Z",
	}

	tests := []struct {
		name         string
		mutate       func(a *LockArguments)
		durationDays int64
		maxSupply    int64
		valid        bool
	}{
		{
			name:         "omitted_fields_take_defaults",
			mutate:       func(a *LockArguments) {},
			durationDays: 2,
			maxSupply:    constants.DefaultLockMaxSupply,
			valid:        true,
		},
		{
			name: "explicit_values_are_kept",
			mutate: func(a *LockArguments) {
				a.DurationDays = int64Ptr(7)
				a.MaxSupply = int64Ptr(25)
			},
			durationDays: 7,
			maxSupply:    25,
			valid:        true,
		},
		{
			name:         "explicit_zero_supply_is_rejected",
			mutate:       func(a *LockArguments) { a.MaxSupply = int64Ptr(0) },
			durationDays: 2,
			maxSupply:    0,
		},
		{
			name:         "explicit_zero_duration_is_rejected",
			mutate:       func(a *LockArguments) { a.DurationDays = int64Ptr(0) },
			durationDays: 0,
			maxSupply:    constants.DefaultLockMaxSupply,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := base
			tt.mutate(&args)

			req, err := args.Request()
			require.NoError(t, err)
			assert.Equal(t, tt.durationDays, req.DurationDays)
			assert.Equal(t, tt.maxSupply, req.MaxSupply)
			if tt.valid {
				assert.NoError(t, req.Validate())
			} else {
				assert.Error(t, req.Validate())
			}
		})
	}
}
