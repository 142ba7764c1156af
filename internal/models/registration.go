package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
)

// EventRegistration holds at most one row per (event, user) pair; re-registering
// flips the status of the existing row instead of inserting a duplicate.
type EventRegistration struct {
	ID           string             `gorm:"type:uuid;primaryKey"`
	EventID      string             `gorm:"not null;uniqueIndex:idx_event_user"`
	UserID       string             `gorm:"not null;uniqueIndex:idx_event_user"`
	Status       RegistrationStatus `gorm:"type:varchar(20);default:'confirmed'"`
	RegisteredAt time.Time          `gorm:"not null;autoCreateTime"`
}

func (r *EventRegistration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
