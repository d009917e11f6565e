package services

import (
	"time"

	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"gorm.io/gorm"
)

// DeploymentFilter narrows ListDeployments. Empty fields match everything.
type DeploymentFilter struct {
	UserID  *string
	EventID string
	ChainID uint
	Status  models.TransactionStatus
}

// DeploymentService persists lock deployment attempts.
type DeploymentService interface {
	CreateDeployment(deployment *models.LockDeployment) error
	GetDeploymentByID(id uint) (*models.LockDeployment, error)
	GetDeploymentBySessionID(sessionID string) (*models.LockDeployment, error)
	GetDeploymentByLockAddress(lockAddress string) (*models.LockDeployment, error)
	ListDeployments(filter DeploymentFilter) ([]models.LockDeployment, error)
	AttachSession(id uint, sessionID string) error
	UpdateDeploymentResult(id uint, result DeploymentResult) error
	// UpdateDeploymentResultBySessionID records the outcome of the transaction carried by sessionID
	UpdateDeploymentResultBySessionID(sessionID string, result DeploymentResult) error
}

// DeploymentResult is the outcome of a deployment. Empty fields leave the stored value untouched.
type DeploymentResult struct {
	Status          models.TransactionStatus
	TransactionHash string
	LockAddress     string
	ViewerLink      string
	Error           string
}

type deploymentService struct {
	db *gorm.DB
}

// NewDeploymentService creates a new DeploymentService
func NewDeploymentService(db *gorm.DB) DeploymentService {
	return &deploymentService{db: db}
}

func (s *deploymentService) CreateDeployment(deployment *models.LockDeployment) error {
	if deployment.Status == "" {
		deployment.Status = models.TransactionStatusPending
	}
	return s.db.Create(deployment).Error
}

func (s *deploymentService) GetDeploymentByID(id uint) (*models.LockDeployment, error) {
	var deployment models.LockDeployment
	if err := s.db.Preload("Chain").First(&deployment, id).Error; err != nil {
		return nil, err
	}
	return &deployment, nil
}

func (s *deploymentService) GetDeploymentBySessionID(sessionID string) (*models.LockDeployment, error) {
	var deployment models.LockDeployment
	if err := s.db.Preload("Chain").Where("session_id = ?", sessionID).First(&deployment).Error; err != nil {
		return nil, err
	}
	return &deployment, nil
}

func (s *deploymentService) GetDeploymentByLockAddress(lockAddress string) (*models.LockDeployment, error) {
	var deployment models.LockDeployment
	err := s.db.Preload("Chain").Where("LOWER(lock_address) = LOWER(?)", lockAddress).First(&deployment).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

func (s *deploymentService) ListDeployments(filter DeploymentFilter) ([]models.LockDeployment, error) {
	query := s.db.Preload("Chain").Order("created_at desc")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.EventID != "" {
		query = query.Where("event_id = ?", filter.EventID)
	}
	if filter.ChainID != 0 {
		query = query.Where("chain_id = ?", filter.ChainID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var deployments []models.LockDeployment
	err := query.Find(&deployments).Error
	return deployments, err
}

func (s *deploymentService) AttachSession(id uint, sessionID string) error {
	return s.db.Model(&models.LockDeployment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"session_id": sessionID,
		"updated_at": time.Now(),
	}).Error
}

func (s *deploymentService) UpdateDeploymentResult(id uint, result DeploymentResult) error {
	return s.updateResult(s.db.Where("id = ?", id), result)
}

func (s *deploymentService) UpdateDeploymentResultBySessionID(sessionID string, result DeploymentResult) error {
	if sessionID == "" {
		return gorm.ErrRecordNotFound
	}
	return s.updateResult(s.db.Where("session_id = ?", sessionID), result)
}

func (s *deploymentService) updateResult(scope *gorm.DB, result DeploymentResult) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if result.Status != "" {
		updates["status"] = result.Status
	}
	if result.TransactionHash != "" {
		updates["transaction_hash"] = result.TransactionHash
	}
	if result.LockAddress != "" {
		updates["lock_address"] = result.LockAddress
	}
	if result.ViewerLink != "" {
		updates["viewer_link"] = result.ViewerLink
	}
	if result.Error != "" {
		updates["error"] = result.Error
	}

	tx := scope.Model(&models.LockDeployment{}).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
