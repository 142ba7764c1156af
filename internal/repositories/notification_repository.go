package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventhub_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	WithTx(tx *gorm.DB) NotificationRepository

	Create(notification *models.Notification) error
	CreateBulk(notifications []*models.Notification) error
	FindByID(id string) (*models.Notification, error)
	FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error)
	// MarkAsRead flips a single notification owned by userID; returns
	// ErrNotificationNotFound when the row does not exist or belongs to
	// someone else.
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) (int64, error)
	GetUnreadCount(userID string) (int64, error)

	// Factory methods for the notifications the event service emits.
	CreateEventCreated(userID string, event *models.Event) error
	CreateRegistrationConfirmed(userID string, event *models.Event) error
	CreateRegistrationCancelled(userID string, event *models.Event) error
	CreateEventUpdated(userIDs []string, event *models.Event) error
	CreateEventCancelled(userIDs []string, event *models.Event) error
}

// NotificationCriteria filters a user's notification list.
type NotificationCriteria struct {
	IsRead   *bool
	Page     int
	PageSize int
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) WithTx(tx *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: tx}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	if err := validateNotification(notification); err != nil {
		return err
	}
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) CreateBulk(notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	for _, notification := range notifications {
		if err := validateNotification(notification); err != nil {
			return err
		}
	}
	return r.db.CreateInBatches(notifications, 100).Error
}

func (r *NotificationRepositoryImpl) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	if criteria.IsRead != nil {
		query = query.Where("is_read = ?", *criteria.IsRead)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(userID, notificationID string) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(userID string) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// Factory methods

func (r *NotificationRepositoryImpl) CreateEventCreated(userID string, event *models.Event) error {
	// The "registration" type for a created event is a client contract, not a typo.
	return r.Create(eventNotification(userID, event,
		models.NotificationTypeRegistration,
		fmt.Sprintf("Event %q was created", event.Title),
	))
}

func (r *NotificationRepositoryImpl) CreateRegistrationConfirmed(userID string, event *models.Event) error {
	return r.Create(eventNotification(userID, event,
		models.NotificationTypeRegistration,
		fmt.Sprintf("You are registered for %q", event.Title),
	))
}

func (r *NotificationRepositoryImpl) CreateRegistrationCancelled(userID string, event *models.Event) error {
	return r.Create(eventNotification(userID, event,
		models.NotificationTypeCancellation,
		fmt.Sprintf("You cancelled your registration for %q", event.Title),
	))
}

func (r *NotificationRepositoryImpl) CreateEventUpdated(userIDs []string, event *models.Event) error {
	message := fmt.Sprintf("Event %q was updated", event.Title)
	notifications := make([]*models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		notifications = append(notifications,
			eventNotification(userID, event, models.NotificationTypeUpdate, message))
	}
	return r.CreateBulk(notifications)
}

func (r *NotificationRepositoryImpl) CreateEventCancelled(userIDs []string, event *models.Event) error {
	message := fmt.Sprintf("Event %q was cancelled", event.Title)
	notifications := make([]*models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		notifications = append(notifications,
			eventNotification(userID, event, models.NotificationTypeCancellation, message))
	}
	return r.CreateBulk(notifications)
}

// Helpers

func eventNotification(userID string, event *models.Event, notificationType models.NotificationType, message string) *models.Notification {
	eventID := event.ID
	data, _ := json.Marshal(map[string]interface{}{
		"event_title": event.Title,
	})

	return &models.Notification{
		UserID:  userID,
		EventID: &eventID,
		Type:    notificationType,
		Message: message,
		Data:    datatypes.JSON(data),
	}
}

func validateNotification(notification *models.Notification) error {
	if notification.UserID == "" {
		return errors.New("user ID is required")
	}
	if !models.ValidNotificationType(notification.Type) {
		return fmt.Errorf("invalid notification type: %s", notification.Type)
	}
	if notification.Message == "" {
		return errors.New("notification message is required")
	}
	if len(notification.Data) > 0 && !json.Valid(notification.Data) {
		return errors.New("invalid notification data")
	}
	return nil
}
