package services

import (
	"time"

	"eventhub_backend/internal/models"
	"eventhub_backend/internal/repositories"
	"eventhub_backend/internal/services/dto"
	"eventhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type EventService interface {
	ListEvents(viewerID string, criteria repositories.EventCriteria) (*dto.EventListResponse, error)
	GetEvent(viewerID, eventID string) (*dto.EventResponse, error)
	CreateEvent(userID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	UpdateEvent(userID, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	DeleteEvent(userID, eventID string) error
	Register(userID, eventID string) (*dto.RegistrationResponse, error)
	Unregister(userID, eventID string) error
	MyRegistrations(userID string) ([]dto.RegistrationResponse, error)
}

type EventServiceImpl struct {
	db               *gorm.DB
	eventRepo        repositories.EventRepository
	registrationRepo repositories.RegistrationRepository
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
}

func NewEventService(
	db *gorm.DB,
	eventRepo repositories.EventRepository,
	registrationRepo repositories.RegistrationRepository,
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
) EventService {
	return &EventServiceImpl{
		db:               db,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

func (s *EventServiceImpl) ListEvents(viewerID string, criteria repositories.EventCriteria) (*dto.EventListResponse, error) {
	events, total, err := s.eventRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses, err := s.buildEventResponses(viewerID, events)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.EventListResponse{
		Events:   responses,
		Total:    total,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	}, nil
}

func (s *EventServiceImpl) GetEvent(viewerID, eventID string) (*dto.EventResponse, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	responses, err := s.buildEventResponses(viewerID, []models.Event{*event})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &responses[0], nil
}

func (s *EventServiceImpl) CreateEvent(userID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	capacity := models.DefaultEventCapacity
	if req.Capacity != nil {
		capacity = *req.Capacity
	}
	if err := validateEventFields(capacity, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	category := models.EventCategory(req.Category)
	if category == "" {
		category = models.EventCategoryOther
	}
	status := models.EventStatus(req.Status)
	if status == "" {
		status = models.EventStatusUpcoming
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      status,
		Capacity:    capacity,
		CreatedBy:   userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.eventRepo.WithTx(tx).Create(event); err != nil {
			return err
		}
		return s.notificationRepo.WithTx(tx).CreateEventCreated(userID, event)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.GetEvent(userID, event.ID)
}

func (s *EventServiceImpl) UpdateEvent(userID, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if event.CreatedBy != userID {
		return nil, apperrors.ErrNotEventOwner
	}

	applyEventUpdate(event, req)
	if err := validateEventFields(event.Capacity, event.StartDate, event.EndDate); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.eventRepo.WithTx(tx).Update(event); err != nil {
			return err
		}

		registrations, err := s.registrationRepo.WithTx(tx).FindConfirmedByEvent(event.ID)
		if err != nil {
			return err
		}
		// Registrants hear about the change; the owner who made it does not.
		recipients := registrantIDs(registrations, userID)
		return s.notificationRepo.WithTx(tx).CreateEventUpdated(recipients, event)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.GetEvent(userID, event.ID)
}

func (s *EventServiceImpl) DeleteEvent(userID, eventID string) error {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrEventNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if event.CreatedBy != userID {
		return apperrors.ErrNotEventOwner
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		registrations, err := s.registrationRepo.WithTx(tx).FindConfirmedByEvent(event.ID)
		if err != nil {
			return err
		}
		// Cancellation goes to every confirmed registrant, the owner included
		// when they registered for their own event.
		recipients := registrantIDs(registrations, "")
		if err := s.notificationRepo.WithTx(tx).CreateEventCancelled(recipients, event); err != nil {
			return err
		}

		if err := s.registrationRepo.WithTx(tx).DeleteByEvent(event.ID); err != nil {
			return err
		}
		return s.eventRepo.WithTx(tx).Delete(event.ID)
	})
	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *EventServiceImpl) Register(userID, eventID string) (*dto.RegistrationResponse, error) {
	var registration *models.EventRegistration
	var event *models.Event

	err := s.db.Transaction(func(tx *gorm.DB) error {
		eventRepo := s.eventRepo.WithTx(tx)
		registrationRepo := s.registrationRepo.WithTx(tx)

		var err error
		event, err = eventRepo.FindByIDForUpdate(eventID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrEventNotFound) {
				return apperrors.ErrNotFound(err)
			}
			return err
		}

		// Capacity check and write happen under the same row lock. Fullness
		// wins over every other answer: a full event reports "full" even to
		// a caller who already holds a confirmed seat.
		confirmed, err := eventRepo.CountConfirmed(eventID)
		if err != nil {
			return err
		}
		if confirmed >= int64(event.Capacity) {
			return apperrors.ErrEventFull
		}

		existing, err := registrationRepo.FindByEventAndUser(eventID, userID)
		if err != nil && !apperrors.Is(err, repositories.ErrRegistrationNotFound) {
			return err
		}
		if existing != nil && existing.Status == models.RegistrationStatusConfirmed {
			return apperrors.ErrAlreadyRegistered
		}

		if existing != nil {
			existing.Status = models.RegistrationStatusConfirmed
			if err := registrationRepo.Update(existing); err != nil {
				return err
			}
			registration = existing
		} else {
			registration = &models.EventRegistration{
				EventID: eventID,
				UserID:  userID,
				Status:  models.RegistrationStatusConfirmed,
			}
			if err := registrationRepo.Create(registration); err != nil {
				return err
			}
		}

		return s.notificationRepo.WithTx(tx).CreateRegistrationConfirmed(userID, event)
	})
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return nil, appErr
		}
		return nil, apperrors.InternalError(err)
	}

	return s.buildRegistrationResponse(registration, event)
}

func (s *EventServiceImpl) Unregister(userID, eventID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		registrationRepo := s.registrationRepo.WithTx(tx)

		registration, err := registrationRepo.FindByEventAndUser(eventID, userID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrRegistrationNotFound) {
				return apperrors.ErrRegistrationNotFound
			}
			return err
		}
		if registration.Status != models.RegistrationStatusConfirmed {
			return apperrors.ErrRegistrationNotFound
		}

		registration.Status = models.RegistrationStatusCancelled
		if err := registrationRepo.Update(registration); err != nil {
			return err
		}

		event, err := s.eventRepo.WithTx(tx).FindByID(eventID)
		if err != nil {
			return err
		}
		return s.notificationRepo.WithTx(tx).CreateRegistrationCancelled(userID, event)
	})
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return appErr
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *EventServiceImpl) MyRegistrations(userID string) ([]dto.RegistrationResponse, error) {
	registrations, err := s.registrationRepo.FindConfirmedByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.RegistrationResponse, 0, len(registrations))
	for i := range registrations {
		registration := &registrations[i]
		event, err := s.eventRepo.FindByID(registration.EventID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		responses = append(responses, dto.RegistrationResponse{
			ID:             registration.ID,
			EventID:        event.ID,
			EventTitle:     event.Title,
			EventStartDate: event.StartDate,
			UserID:         userID,
			UserName:       user.Username,
			Status:         string(registration.Status),
			RegisteredAt:   registration.RegisteredAt,
		})
	}
	return responses, nil
}

// --- Helpers ---

func (s *EventServiceImpl) buildRegistrationResponse(registration *models.EventRegistration, event *models.Event) (*dto.RegistrationResponse, error) {
	user, err := s.userRepo.FindByID(registration.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.RegistrationResponse{
		ID:             registration.ID,
		EventID:        event.ID,
		EventTitle:     event.Title,
		EventStartDate: event.StartDate,
		UserID:         registration.UserID,
		UserName:       user.Username,
		Status:         string(registration.Status),
		RegisteredAt:   registration.RegisteredAt,
	}, nil
}

func (s *EventServiceImpl) buildEventResponses(viewerID string, events []models.Event) ([]dto.EventResponse, error) {
	eventIDs := make([]string, 0, len(events))
	creatorIDs := make([]string, 0, len(events))
	for i := range events {
		eventIDs = append(eventIDs, events[i].ID)
		creatorIDs = append(creatorIDs, events[i].CreatedBy)
	}

	counts, err := s.eventRepo.ConfirmedCounts(eventIDs)
	if err != nil {
		return nil, err
	}
	creatorNames, err := s.userRepo.FindUsernames(creatorIDs)
	if err != nil {
		return nil, err
	}

	registered := make(map[string]bool, len(events))
	if viewerID != "" {
		viewerRegistrations, err := s.registrationRepo.FindConfirmedByUser(viewerID)
		if err != nil {
			return nil, err
		}
		for i := range viewerRegistrations {
			registered[viewerRegistrations[i].EventID] = true
		}
	}

	responses := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		event := &events[i]
		count := counts[event.ID]
		responses = append(responses, dto.EventResponse{
			ID:              event.ID,
			Title:           event.Title,
			Description:     event.Description,
			Category:        string(event.Category),
			Location:        event.Location,
			StartDate:       event.StartDate,
			EndDate:         event.EndDate,
			Status:          string(event.Status),
			Capacity:        event.Capacity,
			CreatedBy:       event.CreatedBy,
			CreatedByName:   creatorNames[event.CreatedBy],
			RegisteredCount: count,
			IsRegistered:    registered[event.ID],
			IsFull:          count >= int64(event.Capacity),
			IsOwner:         viewerID != "" && event.CreatedBy == viewerID,
			CreatedAt:       event.CreatedAt,
			UpdatedAt:       event.UpdatedAt,
		})
	}
	return responses, nil
}

func applyEventUpdate(event *models.Event, req *dto.UpdateEventRequest) {
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Category != nil {
		event.Category = models.EventCategory(*req.Category)
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = req.EndDate
	}
	if req.Status != nil {
		event.Status = models.EventStatus(*req.Status)
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}
}

func validateEventFields(capacity int, startDate time.Time, endDate *time.Time) error {
	details := map[string]string{}
	if capacity < 1 {
		details["capacity"] = "Capacity must be at least 1"
	}
	if endDate != nil && !endDate.After(startDate) {
		details["end_date"] = "End date must be after start date"
	}
	if len(details) > 0 {
		return apperrors.ValidationError(details)
	}
	return nil
}

// registrantIDs collects user ids from registrations, skipping excludeID
// when it is non-empty.
func registrantIDs(registrations []models.EventRegistration, excludeID string) []string {
	ids := make([]string, 0, len(registrations))
	for i := range registrations {
		if excludeID != "" && registrations[i].UserID == excludeID {
			continue
		}
		ids = append(ids, registrations[i].UserID)
	}
	return ids
}
