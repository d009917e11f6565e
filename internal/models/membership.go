package models

import "time"

// Lock is a lock as indexed by the Unlock subgraph.
type Lock struct {
	Address         string `json:"address"`
	Name            string `json:"name"`
	Network         int64  `json:"network"`
	Price           string `json:"price"`
	TokenAddress    string `json:"token_address"`
	ExpirationSecs  int64  `json:"expiration_duration"`
	MaxNumberOfKeys int64  `json:"max_number_of_keys"`
	TotalKeys       int64  `json:"total_keys"`
	Version         int64  `json:"version"`
	CreationBlock   string `json:"creation_block,omitempty"`
	CreationTxHash  string `json:"creation_transaction_hash,omitempty"`
}

// Membership is a key purchase made by a wallet.
type Membership struct {
	ID        string    `json:"id"`
	Lock      string    `json:"lock"`
	Purchaser string    `json:"purchaser"`
	Price     string    `json:"price"`
	Network   int64     `json:"network"`
	Timestamp time.Time `json:"timestamp"`
}

type PaywallLock struct {
	Network int64  `json:"network" validate:"gt=0"`
	Name    string `json:"name,omitempty"`
}

// PaywallConfig lists the locks that grant access, keyed by lock address.
type PaywallConfig struct {
	Locks map[string]PaywallLock `json:"locks" validate:"required,min=1,dive,keys,eth_addr,endkeys"`
}
