package services

import (
	"eventhub_backend/internal/models"
	"eventhub_backend/internal/repositories"
	"eventhub_backend/internal/services/dto"
	"eventhub_backend/pkg/apperrors"
)

type NotificationService interface {
	ListNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	CreateNotification(userID string, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) (int64, error)
	UnreadCount(userID string) (int64, error)
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	eventRepo        repositories.EventRepository
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	eventRepo repositories.EventRepository,
) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		eventRepo:        eventRepo,
	}
}

func (s *NotificationServiceImpl) ListNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, s.buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
	}, nil
}

// CreateNotification files a notification for the calling user themselves.
func (s *NotificationServiceImpl) CreateNotification(userID string, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	if req.EventID != nil {
		if _, err := s.eventRepo.FindByID(*req.EventID); err != nil {
			if apperrors.Is(err, repositories.ErrEventNotFound) {
				return nil, apperrors.ErrNotFound(err)
			}
			return nil, apperrors.InternalError(err)
		}
	}

	notification := &models.Notification{
		UserID:  userID,
		EventID: req.EventID,
		Type:    models.NotificationType(req.Type),
		Message: req.Message,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, apperrors.InternalError(err)
	}

	response := s.buildNotificationResponse(notification)
	return &response, nil
}

func (s *NotificationServiceImpl) MarkAsRead(userID, notificationID string) error {
	err := s.notificationRepo.MarkAsRead(userID, notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllAsRead(userID string) (int64, error) {
	count, err := s.notificationRepo.MarkAllAsRead(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *NotificationServiceImpl) UnreadCount(userID string) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *NotificationServiceImpl) buildNotificationResponse(notification *models.Notification) dto.NotificationResponse {
	response := dto.NotificationResponse{
		ID:        notification.ID,
		EventID:   notification.EventID,
		Type:      string(notification.Type),
		Message:   notification.Message,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt,
	}
	if notification.EventID != nil {
		if event, err := s.eventRepo.FindByID(*notification.EventID); err == nil {
			response.EventTitle = event.Title
		}
	}
	return response
}
