package tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rxtech-lab/lock-launchpad/internal/lock"
)

// LockArguments are the lock form fields shared by preview_lock and create_lock.
// Omitted optional fields take the defaults offered for the event; explicit values, zero included,
// are kept and validated.
type LockArguments struct {
	EventID         string `json:"event_id"`
	Name            string `json:"name" validate:"required"`
	EventStart      string `json:"event_start,omitempty"`
	EventEnd        string `json:"event_end,omitempty"`
	DurationDays    *int64 `json:"duration_days,omitempty"`
	CurrencyAddress string `json:"currency_address,omitempty"`
	Price           string `json:"price,omitempty"`
	MaxSupply       *int64 `json:"max_supply,omitempty"`
	CreatorAddress  string `json:"creator_address" validate:"required"`
}

func lockArgumentOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the lock, usually the event name"),
		),
		mcp.WithString("creator_address",
			mcp.Required(),
			mcp.Description("Wallet address that will own the lock"),
		),
		mcp.WithString("event_start",
			mcp.Description("Event start time in RFC 3339 format. Used with event_end to default the membership duration"),
		),
		mcp.WithString("event_end",
			mcp.Description("Event end time in RFC 3339 format"),
		),
		mcp.WithNumber("duration_days",
			mcp.Description("How many days a key stays valid. Defaults to the event length rounded up, or 1"),
		),
		mcp.WithString("currency_address",
			mcp.Description("ERC-20 token keys are priced in. Omit to price in the network's native currency"),
		),
		mcp.WithString("price",
			mcp.Description("Key price in whole token units, e.g. '0.5'. Defaults to 1"),
		),
		mcp.WithNumber("max_supply",
			mcp.Description("Maximum number of keys. Defaults to 100"),
		),
	}
}

func parseEventTime(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return &parsed, nil
}

// Request builds the deployment request, filling unset fields from the event defaults.
func (a LockArguments) Request() (lock.LockDeploymentRequest, error) {
	start, err := parseEventTime("event_start", a.EventStart)
	if err != nil {
		return lock.LockDeploymentRequest{}, err
	}
	end, err := parseEventTime("event_end", a.EventEnd)
	if err != nil {
		return lock.LockDeploymentRequest{}, err
	}

	event := lock.EventDescriptor{ID: a.EventID, Name: a.Name, End: end}
	if start != nil {
		event.Start = *start
	}

	req := lock.NewRequestFromEvent(event, a.CreatorAddress)
	if a.DurationDays != nil {
		req.DurationDays = *a.DurationDays
	}
	if a.Price != "" {
		req.PriceMajorUnits = a.Price
	}
	if a.MaxSupply != nil {
		req.MaxSupply = *a.MaxSupply
	}
	req.CurrencyAddress = strings.TrimSpace(a.CurrencyAddress)
	return req, nil
}
