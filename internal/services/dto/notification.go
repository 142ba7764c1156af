package dto

import "time"

type CreateNotificationRequest struct {
	Type    string  `json:"type" validate:"required,oneof=registration reminder cancellation update"`
	Message string  `json:"message" validate:"required,max=1000"`
	EventID *string `json:"event,omitempty"`
}

type NotificationResponse struct {
	ID         string    `json:"id"`
	EventID    *string   `json:"event"`
	EventTitle string    `json:"event_title,omitempty"`
	Type       string    `json:"notification_type"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}
