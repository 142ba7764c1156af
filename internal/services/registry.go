package services

import "eventhub_backend/internal/email"

// ServiceContainer holds all application services.
type ServiceContainer struct {
	AuthService         AuthService
	EventService        EventService
	NotificationService NotificationService
	EmailService        email.Provider
}
