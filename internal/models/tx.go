package models

import "time"

type TransactionStatus string

type TransactionChainType string

type TransactionType string

const (
	TransactionChainTypeEthereum TransactionChainType = "ethereum"
)

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

const (
	TransactionTypeLockDeployment TransactionType = "lock_deployment"
	TransactionTypeRegular        TransactionType = "regular"
)

type TransactionMetadata struct {
	Key   string `gorm:"not null" json:"key"`
	Value string `gorm:"not null" json:"value"`
}

type TransactionDeployment struct {
	// Title is the title of the transaction used to display in the UI
	Title string `gorm:"not null" json:"title"`
	// Description is the description of the transaction used to display in the UI
	Description string `gorm:"not null" json:"description"`
	// Data is the transaction data included in the transaction body for wallet to sign
	Data string `gorm:"type:text" json:"data"`
	// Value is the value of the transaction in wei
	Value string `gorm:"not null" json:"value"`
	// Receiver is the contract the wallet sends the transaction to
	Receiver        string            `gorm:"not null" json:"receiver"`
	Status          TransactionStatus `gorm:"default:pending" json:"status"`
	TransactionType TransactionType   `gorm:"not null" json:"transaction_type"`
	// TransactionHash is filled once the wallet reports the broadcast transaction
	TransactionHash string `json:"transaction_hash,omitempty"`
	// ContractAddress is the address created by the transaction, if any
	ContractAddress string `json:"contract_address,omitempty"`
}

// TransactionSession represents signing session management
type TransactionSession struct {
	ID                   string                `gorm:"primaryKey" json:"id"`
	UserID               *string               `gorm:"index;type:varchar(255)" json:"user_id,omitempty"`
	Metadata             []TransactionMetadata `gorm:"serializer:json" json:"metadata"`
	TransactionStatus    TransactionStatus     `gorm:"default:pending" json:"status"`
	TransactionChainType TransactionChainType  `gorm:"not null" json:"chain_type"`

	// TransactionDeployments are list of the transactions that needs to be signed
	TransactionDeployments []TransactionDeployment `gorm:"serializer:json" json:"transaction_deployments"`

	ChainID uint  `gorm:"not null" json:"chain_id"`
	Chain   Chain `gorm:"foreignKey:ChainID;references:ID" json:"chain,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MetadataValue returns the metadata entry stored under key.
func (s TransactionSession) MetadataValue(key string) (string, bool) {
	for _, m := range s.Metadata {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}

// IsSettled reports whether no further transaction reports are expected.
func (s TransactionSession) IsSettled() bool {
	return s.TransactionStatus == TransactionStatusConfirmed || s.TransactionStatus == TransactionStatusFailed
}
