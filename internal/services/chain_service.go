package services

import (
	"errors"
	"fmt"

	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"gorm.io/gorm"
)

// ChainService handles chain-related operations
type ChainService interface {
	CreateChain(chain *models.Chain) error
	// UpsertChain creates the chain or updates the one already registered for the same network id
	UpsertChain(chain *models.Chain) error
	GetActiveChain() (*models.Chain, error)
	GetChainByID(id uint) (*models.Chain, error)
	GetChainByNetworkID(networkID string) (*models.Chain, error)
	SetActiveChainByID(chainID uint) error
	ListChains() ([]models.Chain, error)
}

type chainService struct {
	db *gorm.DB
}

// NewChainService creates a new ChainService
func NewChainService(db *gorm.DB) ChainService {
	return &chainService{db: db}
}

// CreateChain creates a new chain
func (s *chainService) CreateChain(chain *models.Chain) error {
	return s.db.Create(chain).Error
}

func (s *chainService) UpsertChain(chain *models.Chain) error {
	existing, err := s.GetChainByNetworkID(chain.NetworkID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.CreateChain(chain)
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"rpc":          chain.RPC,
		"name":         chain.Name,
		"subgraph_url": chain.SubgraphURL,
		"explorer_url": chain.ExplorerURL,
	}
	if err := s.db.Model(&models.Chain{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update chain %s: %w", chain.NetworkID, err)
	}

	chain.ID = existing.ID
	chain.IsActive = existing.IsActive
	chain.CreatedAt = existing.CreatedAt
	return nil
}

// GetActiveChain returns the currently active chain
func (s *chainService) GetActiveChain() (*models.Chain, error) {
	var chain models.Chain
	err := s.db.Where("is_active = ?", true).First(&chain).Error
	if err != nil {
		return nil, err
	}
	return &chain, nil
}

func (s *chainService) GetChainByID(id uint) (*models.Chain, error) {
	var chain models.Chain
	if err := s.db.First(&chain, id).Error; err != nil {
		return nil, err
	}
	return &chain, nil
}

func (s *chainService) GetChainByNetworkID(networkID string) (*models.Chain, error) {
	var chain models.Chain
	if err := s.db.Where("chain_id = ?", networkID).First(&chain).Error; err != nil {
		return nil, err
	}
	return &chain, nil
}

// SetActiveChainByID sets a chain as active by its database ID
func (s *chainService) SetActiveChainByID(chainID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var chain models.Chain
		if err := tx.First(&chain, chainID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Chain{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chain{}).Where("id = ?", chainID).Update("is_active", true).Error
	})
}

// ListChains returns all chains
func (s *chainService) ListChains() ([]models.Chain, error) {
	var chains []models.Chain
	err := s.db.Order("id").Find(&chains).Error
	return chains, err
}
