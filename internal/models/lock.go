package models

import "time"

// LockDeployment tracks one attempt to deploy a lock for an event.
type LockDeployment struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	UserID  *string `gorm:"index;type:varchar(255)" json:"user_id,omitempty"`
	EventID string  `gorm:"index" json:"event_id"`
	ChainID uint    `gorm:"not null" json:"chain_id"`

	Name            string `gorm:"not null" json:"name"`
	DurationDays    int64  `gorm:"not null" json:"duration_days"`
	CurrencyAddress string `json:"currency_address"`
	Price           string `gorm:"not null" json:"price"`
	// PriceMinorUnits is the key price sent on-chain, as a base-10 integer
	PriceMinorUnits string `json:"price_minor_units"`
	Decimals        uint8  `json:"decimals"`
	MaxSupply       int64  `gorm:"not null" json:"max_supply"`
	CreatorAddress  string `gorm:"not null" json:"creator_address"`
	Calldata        string `gorm:"type:text" json:"calldata"`
	// RequestValues keeps the request as submitted
	RequestValues JSON `gorm:"type:text" json:"request_values"`

	SessionID       string            `gorm:"index" json:"session_id"`
	TransactionHash string            `json:"transaction_hash"`
	LockAddress     string            `json:"lock_address"`
	ViewerLink      string            `json:"viewer_link"`
	Status          TransactionStatus `gorm:"default:pending" json:"status"`
	Error           string            `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Chain Chain `gorm:"foreignKey:ChainID;references:ID" json:"chain,omitempty"`
}

// OwnedEvent marks an event for which the organizer already deployed a lock.
type OwnedEvent struct {
	EventID   string    `gorm:"primaryKey" json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}
