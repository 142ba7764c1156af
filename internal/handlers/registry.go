package handlers

// AppHandlers holds all application handlers.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	EventHandler        *EventHandler
	NotificationHandler *NotificationHandler
}
