package repositories

import (
	"errors"

	"eventhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRegistrationNotFound = errors.New("registration not found")

type RegistrationRepository interface {
	WithTx(tx *gorm.DB) RegistrationRepository

	Create(registration *models.EventRegistration) error
	Update(registration *models.EventRegistration) error
	FindByEventAndUser(eventID, userID string) (*models.EventRegistration, error)
	// FindConfirmedByEvent returns the confirmed registrations of an event,
	// the fan-out set for update/cancellation notifications.
	FindConfirmedByEvent(eventID string) ([]models.EventRegistration, error)
	FindConfirmedByUser(userID string) ([]models.EventRegistration, error)
	DeleteByEvent(eventID string) error
}

type RegistrationRepositoryImpl struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &RegistrationRepositoryImpl{db: db}
}

func (r *RegistrationRepositoryImpl) WithTx(tx *gorm.DB) RegistrationRepository {
	return &RegistrationRepositoryImpl{db: tx}
}

func (r *RegistrationRepositoryImpl) Create(registration *models.EventRegistration) error {
	return r.db.Create(registration).Error
}

func (r *RegistrationRepositoryImpl) Update(registration *models.EventRegistration) error {
	return r.db.Save(registration).Error
}

func (r *RegistrationRepositoryImpl) FindByEventAndUser(eventID, userID string) (*models.EventRegistration, error) {
	var registration models.EventRegistration
	err := r.db.First(&registration, "event_id = ? AND user_id = ?", eventID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &registration, nil
}

func (r *RegistrationRepositoryImpl) FindConfirmedByEvent(eventID string) ([]models.EventRegistration, error) {
	var registrations []models.EventRegistration
	err := r.db.
		Where("event_id = ? AND status = ?", eventID, models.RegistrationStatusConfirmed).
		Find(&registrations).Error
	return registrations, err
}

func (r *RegistrationRepositoryImpl) FindConfirmedByUser(userID string) ([]models.EventRegistration, error) {
	var registrations []models.EventRegistration
	err := r.db.
		Where("user_id = ? AND status = ?", userID, models.RegistrationStatusConfirmed).
		Order("registered_at DESC").
		Find(&registrations).Error
	return registrations, err
}

func (r *RegistrationRepositoryImpl) DeleteByEvent(eventID string) error {
	return r.db.Where("event_id = ?", eventID).Delete(&models.EventRegistration{}).Error
}
