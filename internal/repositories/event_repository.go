package repositories

import (
	"errors"
	"strings"

	"eventhub_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	WithTx(tx *gorm.DB) EventRepository

	Create(event *models.Event) error
	FindByID(id string) (*models.Event, error)
	// FindByIDForUpdate locks the event row for the rest of the transaction so
	// concurrent registration attempts on the same event serialize.
	FindByIDForUpdate(id string) (*models.Event, error)
	Update(event *models.Event) error
	Delete(id string) error
	FindWithFilter(criteria EventCriteria) ([]models.Event, int64, error)

	CountConfirmed(eventID string) (int64, error)
	// ConfirmedCounts resolves confirmed-registration counts for a set of
	// events in one query.
	ConfirmedCounts(eventIDs []string) (map[string]int64, error)
}

// EventCriteria mirrors the list-endpoint query parameters.
type EventCriteria struct {
	Category  models.EventCategory
	Status    models.EventStatus
	Location  string // substring, case-insensitive
	Search    string // matches title, description, location
	CreatedBy string // set when my_events=true
	Page      int
	PageSize  int
}

type EventRepositoryImpl struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &EventRepositoryImpl{db: db}
}

func (r *EventRepositoryImpl) WithTx(tx *gorm.DB) EventRepository {
	return &EventRepositoryImpl{db: tx}
}

func (r *EventRepositoryImpl) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

func (r *EventRepositoryImpl) FindByID(id string) (*models.Event, error) {
	var event models.Event
	err := r.db.First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) FindByIDForUpdate(id string) (*models.Event, error) {
	query := r.db
	// sqlite has no FOR UPDATE; its single-writer lock covers the same race.
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var event models.Event
	err := query.First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

func (r *EventRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) FindWithFilter(criteria EventCriteria) ([]models.Event, int64, error) {
	query := r.db.Model(&models.Event{})

	if criteria.Category != "" {
		query = query.Where("category = ?", criteria.Category)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(criteria.Location)+"%")
	}
	if criteria.Search != "" {
		pattern := "%" + strings.ToLower(criteria.Search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if criteria.CreatedBy != "" {
		query = query.Where("created_by = ?", criteria.CreatedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	var events []models.Event
	err := query.Order("start_date DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&events).Error

	return events, total, err
}

func (r *EventRepositoryImpl) CountConfirmed(eventID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.EventRegistration{}).
		Where("event_id = ? AND status = ?", eventID, models.RegistrationStatusConfirmed).
		Count(&count).Error
	return count, err
}

func (r *EventRepositoryImpl) ConfirmedCounts(eventIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		EventID string
		Count   int64
	}
	err := r.db.Model(&models.EventRegistration{}).
		Select("event_id, COUNT(*) as count").
		Where("event_id IN ? AND status = ?", eventIDs, models.RegistrationStatusConfirmed).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.EventID] = row.Count
	}
	return counts, nil
}
