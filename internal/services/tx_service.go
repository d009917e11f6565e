package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"gorm.io/gorm"
)

var ErrSessionExpired = errors.New("session expired")

const defaultSessionTTL = 30 * time.Minute

type TransactionService interface {
	CreateTransactionSession(req CreateTransactionSessionRequest) (string, error)
	GetTransactionSession(sessionID string) (*models.TransactionSession, error)
	UpdateTransactionSession(sessionID string, session *models.TransactionSession) error
	ListTransactionSessionsByUser(userID string) ([]models.TransactionSession, error)
	UpdateTransactionSessionStatus(sessionID string, status models.TransactionStatus) error
	// RecordTransaction stores the outcome of the transaction at index and recomputes the session status
	RecordTransaction(sessionID string, index int, report TransactionReport) (*models.TransactionSession, error)
}

type transactionService struct {
	db  *gorm.DB
	ttl time.Duration
}

type CreateTransactionSessionRequest struct {
	Metadata               []models.TransactionMetadata   `json:"metadata"`
	TransactionDeployments []models.TransactionDeployment `json:"transaction_deployments"`
	ChainType              models.TransactionChainType    `json:"chain_type"`
	ChainID                uint                           `json:"chain_id"`
	UserID                 *string                        `json:"user_id,omitempty"`
}

// TransactionReport is what the signing page sends back for one transaction.
type TransactionReport struct {
	TransactionHash string
	ContractAddress string
	Status          models.TransactionStatus
}

// NewTransactionService creates a service whose sessions expire after ttl. A zero ttl uses 30 minutes.
func NewTransactionService(db *gorm.DB, ttl time.Duration) TransactionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &transactionService{db: db, ttl: ttl}
}

func (s *transactionService) CreateTransactionSession(req CreateTransactionSessionRequest) (string, error) {
	if len(req.TransactionDeployments) == 0 {
		return "", fmt.Errorf("session must contain at least one transaction")
	}

	sessionID := uuid.New().String()
	deployments := make([]models.TransactionDeployment, len(req.TransactionDeployments))
	for i, deployment := range req.TransactionDeployments {
		deployment.Status = models.TransactionStatusPending
		deployments[i] = deployment
	}

	now := time.Now()
	session := &models.TransactionSession{
		ID:                     sessionID,
		UserID:                 req.UserID,
		Metadata:               req.Metadata,
		TransactionStatus:      models.TransactionStatusPending,
		TransactionChainType:   req.ChainType,
		TransactionDeployments: deployments,
		ChainID:                req.ChainID,
		CreatedAt:              now,
		UpdatedAt:              now,
		ExpiresAt:              now.Add(s.ttl),
	}

	if err := s.db.Create(session).Error; err != nil {
		return "", err
	}
	return sessionID, nil
}

// GetTransactionSession returns the transaction session by sessionID
func (s *transactionService) GetTransactionSession(sessionID string) (*models.TransactionSession, error) {
	var session models.TransactionSession
	err := s.db.Where("id = ?", sessionID).Preload("Chain").First(&session).Error
	if err != nil {
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// UpdateTransactionSession updates the transaction session by sessionID
func (s *transactionService) UpdateTransactionSession(sessionID string, session *models.TransactionSession) error {
	session.ID = sessionID
	session.UpdatedAt = time.Now()

	return s.db.Model(&models.TransactionSession{}).Where("id = ?", sessionID).Updates(session).Error
}

// ListTransactionSessionsByUser returns all transaction sessions for a specific user
func (s *transactionService) ListTransactionSessionsByUser(userID string) ([]models.TransactionSession, error) {
	var sessions []models.TransactionSession
	err := s.db.Preload("Chain").Where("user_id = ?", userID).Order("created_at desc").Find(&sessions).Error
	return sessions, err
}

// UpdateTransactionSessionStatus updates the status of a transaction session
func (s *transactionService) UpdateTransactionSessionStatus(sessionID string, status models.TransactionStatus) error {
	return s.db.Model(&models.TransactionSession{}).Where("id = ?", sessionID).Updates(map[string]interface{}{
		"transaction_status": status,
		"updated_at":         time.Now(),
	}).Error
}

func (s *transactionService) RecordTransaction(sessionID string, index int, report TransactionReport) (*models.TransactionSession, error) {
	var session models.TransactionSession
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", sessionID).First(&session).Error; err != nil {
			return err
		}
		if time.Now().After(session.ExpiresAt) {
			return ErrSessionExpired
		}
		if index < 0 || index >= len(session.TransactionDeployments) {
			return fmt.Errorf("transaction index %d out of range", index)
		}
		if session.IsSettled() {
			return fmt.Errorf("session %s is already %s", sessionID, session.TransactionStatus)
		}

		deployment := &session.TransactionDeployments[index]
		deployment.TransactionHash = report.TransactionHash
		deployment.ContractAddress = report.ContractAddress
		deployment.Status = report.Status

		session.TransactionStatus = aggregateStatus(session.TransactionDeployments)
		session.UpdatedAt = time.Now()

		return tx.Model(&models.TransactionSession{}).
			Where("id = ?", sessionID).
			Select("TransactionDeployments", "TransactionStatus", "UpdatedAt").
			Updates(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// aggregateStatus is failed as soon as one transaction failed and confirmed once all are confirmed.
func aggregateStatus(deployments []models.TransactionDeployment) models.TransactionStatus {
	confirmed := 0
	for _, deployment := range deployments {
		switch deployment.Status {
		case models.TransactionStatusFailed:
			return models.TransactionStatusFailed
		case models.TransactionStatusConfirmed:
			confirmed++
		}
	}
	if confirmed == len(deployments) {
		return models.TransactionStatusConfirmed
	}
	return models.TransactionStatusPending
}
