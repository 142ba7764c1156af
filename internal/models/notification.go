package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationTypeRegistration NotificationType = "registration"
	NotificationTypeReminder     NotificationType = "reminder"
	NotificationTypeCancellation NotificationType = "cancellation"
	NotificationTypeUpdate       NotificationType = "update"
)

type Notification struct {
	BaseModel
	UserID  string           `gorm:"not null;index"`
	EventID *string          `gorm:"index"` // nullable, a notification may reference no event
	Type    NotificationType `gorm:"type:varchar(20);not null"`
	Message string           `gorm:"not null"`
	Data    datatypes.JSON   // {"event_title": "..."}
	IsRead  bool             `gorm:"default:false"`
	ReadAt  *time.Time
}

func ValidNotificationType(t NotificationType) bool {
	switch t {
	case NotificationTypeRegistration, NotificationTypeReminder,
		NotificationTypeCancellation, NotificationTypeUpdate:
		return true
	}
	return false
}
