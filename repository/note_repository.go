package repository

import (
	"context"
	"fmt"

	"github.com/eduvia/eduvia-api/models"
	"gorm.io/gorm"
)

// NoteRepositoryImpl implements NoteRepository
type NoteRepositoryImpl struct {
	*BaseRepository[models.Note, models.NoteFilter]
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &NoteRepositoryImpl{BaseRepository: NewBaseRepository[models.Note, models.NoteFilter](db)}
}

func (r *NoteRepositoryImpl) applyFilter(db *gorm.DB, f models.NoteFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.Course != nil {
		db = db.Where("course = ?", *f.Course)
	}
	if f.CreatedBy != nil {
		db = db.Where("created_by = ?", *f.CreatedBy)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *NoteRepositoryImpl) ByFilter(ctx context.Context, filter models.NoteFilter, orderBy string, limit, offset int) ([]*models.Note, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Note{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Note
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find notes by filter: %w", err)
	}
	return rows, nil
}

// ListNewestFirst returns the full note catalog. The catalog is small and
// visibility filtering happens in memory, so there is no pagination here.
func (r *NoteRepositoryImpl) ListNewestFirst(ctx context.Context) ([]*models.Note, error) {
	return r.ByFilter(ctx, models.NoteFilter{}, "created_at DESC", 0, 0)
}

func (r *NoteRepositoryImpl) Count(ctx context.Context, filter models.NoteFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Note{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
