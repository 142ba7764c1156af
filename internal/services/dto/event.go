package dto

import "time"

type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty" validate:"omitempty,oneof=conference workshop meetup webinar other"`
	Location    string     `json:"location,omitempty" validate:"omitempty,max=200"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Status      string     `json:"status,omitempty" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
	Capacity    *int       `json:"capacity,omitempty"`
}

// UpdateEventRequest - partial update; nil fields keep their stored value.
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty" validate:"omitempty,oneof=conference workshop meetup webinar other"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,max=200"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
	Capacity    *int       `json:"capacity,omitempty"`
}

// EventResponse - the event projection. registered_count, is_full,
// is_registered and is_owner are computed per viewer, never stored.
type EventResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Location        string     `json:"location"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Status          string     `json:"status"`
	Capacity        int        `json:"capacity"`
	CreatedBy       string     `json:"created_by"`
	CreatedByName   string     `json:"created_by_name"`
	RegisteredCount int64      `json:"registered_count"`
	IsRegistered    bool       `json:"is_registered"`
	IsFull          bool       `json:"is_full"`
	IsOwner         bool       `json:"is_owner"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type EventListResponse struct {
	Events   []EventResponse `json:"events"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type RegistrationResponse struct {
	ID             string    `json:"id"`
	EventID        string    `json:"event"`
	EventTitle     string    `json:"event_title"`
	EventStartDate time.Time `json:"event_start_date"`
	UserID         string    `json:"user"`
	UserName       string    `json:"user_name"`
	Status         string    `json:"status"`
	RegisteredAt   time.Time `json:"registered_at"`
}
