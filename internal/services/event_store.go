package services

import (
	"errors"
	"fmt"

	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OwnedEventStore is the append-only set of events that already have a deployed lock.
type OwnedEventStore interface {
	Has(eventID string) (bool, error)
	Add(eventID string) error
	List() ([]string, error)
}

type ownedEventStore struct {
	db *gorm.DB
}

func NewOwnedEventStore(db *gorm.DB) OwnedEventStore {
	return &ownedEventStore{db: db}
}

func (s *ownedEventStore) Has(eventID string) (bool, error) {
	var event models.OwnedEvent
	err := s.db.Where("event_id = ?", eventID).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Add is idempotent.
func (s *ownedEventStore) Add(eventID string) error {
	if eventID == "" {
		return fmt.Errorf("event id is empty")
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.OwnedEvent{EventID: eventID}).Error
}

func (s *ownedEventStore) List() ([]string, error) {
	var ids []string
	err := s.db.Model(&models.OwnedEvent{}).Order("created_at").Pluck("event_id", &ids).Error
	return ids, err
}
