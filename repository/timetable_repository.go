package repository

import (
	"context"
	"fmt"

	"github.com/eduvia/eduvia-api/models"
	"gorm.io/gorm"
)

// TimetableRepositoryImpl implements TimetableRepository
type TimetableRepositoryImpl struct {
	*BaseRepository[models.TimetableEntry, models.TimetableFilter]
}

func NewTimetableRepository(db *gorm.DB) TimetableRepository {
	return &TimetableRepositoryImpl{BaseRepository: NewBaseRepository[models.TimetableEntry, models.TimetableFilter](db)}
}

func (r *TimetableRepositoryImpl) applyFilter(db *gorm.DB, f models.TimetableFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.Course != nil {
		db = db.Where("course = ?", *f.Course)
	}
	if f.Day != nil {
		db = db.Where("day = ?", *f.Day)
	}
	return db
}

func (r *TimetableRepositoryImpl) ByFilter(ctx context.Context, filter models.TimetableFilter, orderBy string, limit, offset int) ([]*models.TimetableEntry, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.TimetableEntry{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.TimetableEntry
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find timetable entries by filter: %w", err)
	}
	return rows, nil
}

func (r *TimetableRepositoryImpl) Update(ctx context.Context, entry *models.TimetableEntry) error {
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

	err = db.Model(&models.TimetableEntry{}).Where("id = ?", entry.ID).Updates(map[string]any{
		"course":     entry.Course,
		"day":        entry.Day,
		"start_time": entry.StartTime,
		"end_time":   entry.EndTime,
		"room":       entry.Room,
		"faculty":    entry.Faculty,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update timetable entry: %w", err)
	}
	return nil
}

func (r *TimetableRepositoryImpl) Count(ctx context.Context, filter models.TimetableFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.TimetableEntry{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
