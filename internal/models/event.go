package models

import "time"

type EventCategory string

const (
	EventCategoryConference EventCategory = "conference"
	EventCategoryWorkshop   EventCategory = "workshop"
	EventCategoryMeetup     EventCategory = "meetup"
	EventCategoryWebinar    EventCategory = "webinar"
	EventCategoryOther      EventCategory = "other"
)

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// DefaultEventCapacity is used when a create request omits the capacity field.
const DefaultEventCapacity = 100

type Event struct {
	BaseModel
	Title       string        `gorm:"not null"`
	Description string
	Category    EventCategory `gorm:"type:varchar(20)"`
	Location    string
	StartDate   time.Time  `gorm:"not null;index"`
	EndDate     *time.Time
	Status      EventStatus `gorm:"type:varchar(20);default:'upcoming'"`
	Capacity    int         `gorm:"not null;default:100"`
	CreatedBy   string      `gorm:"not null;index"`

	// Relations
	Registrations []EventRegistration `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

func ValidEventCategory(c EventCategory) bool {
	switch c {
	case EventCategoryConference, EventCategoryWorkshop, EventCategoryMeetup,
		EventCategoryWebinar, EventCategoryOther:
		return true
	}
	return false
}

func ValidEventStatus(s EventStatus) bool {
	switch s {
	case EventStatusUpcoming, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}
