package models

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
)

type Chain struct {
	ID        uint                 `gorm:"primaryKey" json:"id"`
	ChainType TransactionChainType `gorm:"not null" json:"chain_type"`
	RPC       string               `gorm:"not null" json:"rpc"`
	NetworkID string               `gorm:"column:chain_id" json:"chain_id"` // e.g. "80001" for Polygon Mumbai
	Name      string               `gorm:"not null" json:"name"`
	// SubgraphURL is the Unlock subgraph endpoint indexing this network
	SubgraphURL string         `json:"subgraph_url,omitempty"`
	ExplorerURL string         `json:"explorer_url,omitempty"`
	IsActive    bool           `gorm:"default:false" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// NetworkIDInt parses the chain's network id.
func (c Chain) NetworkIDInt() (int64, error) {
	id, err := strconv.ParseInt(c.NetworkID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid network id %q for chain %s: %w", c.NetworkID, c.Name, err)
	}
	return id, nil
}
