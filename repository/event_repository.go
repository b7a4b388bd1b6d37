package repository

import (
	"context"
	"fmt"

	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/utils"
	"gorm.io/gorm"
)

// EventRepositoryImpl implements EventRepository
type EventRepositoryImpl struct {
	*BaseRepository[models.Event, models.EventFilter]
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &EventRepositoryImpl{BaseRepository: NewBaseRepository[models.Event, models.EventFilter](db)}
}

func (r *EventRepositoryImpl) applyFilter(db *gorm.DB, f models.EventFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.CreatedBy != nil {
		db = db.Where("created_by = ?", *f.CreatedBy)
	}
	if f.StartsAfter != nil {
		db = db.Where("starts_at >= ?", *f.StartsAfter)
	}
	if f.EndsBefore != nil {
		db = db.Where("ends_at < ?", *f.EndsBefore)
	}
	return db
}

func (r *EventRepositoryImpl) ByFilter(ctx context.Context, filter models.EventFilter, orderBy string, limit, offset int) ([]*models.Event, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Event{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Event
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find events by filter: %w", err)
	}
	return rows, nil
}

func (r *EventRepositoryImpl) ListUpcoming(ctx context.Context) ([]*models.Event, error) {
	now := utils.UTCNow()
	return r.ByFilter(ctx, models.EventFilter{StartsAfter: &now}, "starts_at ASC", 0, 0)
}

func (r *EventRepositoryImpl) Update(ctx context.Context, event *models.Event) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.Event{}).Where("id = ?", event.ID).Updates(map[string]any{
		"title":       event.Title,
		"description": event.Description,
		"starts_at":   event.StartsAt,
		"ends_at":     event.EndsAt,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (r *EventRepositoryImpl) Count(ctx context.Context, filter models.EventFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Event{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
