package repository

import (
	"context"
	"fmt"

	"github.com/eduvia/eduvia-api/models"
	"gorm.io/gorm"
)

// LostFoundRepositoryImpl implements LostFoundRepository
type LostFoundRepositoryImpl struct {
	*BaseRepository[models.LostFoundItem, models.LostFoundFilter]
}

func NewLostFoundRepository(db *gorm.DB) LostFoundRepository {
	return &LostFoundRepositoryImpl{BaseRepository: NewBaseRepository[models.LostFoundItem, models.LostFoundFilter](db)}
}

func (r *LostFoundRepositoryImpl) applyFilter(db *gorm.DB, f models.LostFoundFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *LostFoundRepositoryImpl) ByFilter(ctx context.Context, filter models.LostFoundFilter, orderBy string, limit, offset int) ([]*models.LostFoundItem, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.LostFoundItem{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.LostFoundItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find lost & found items by filter: %w", err)
	}
	return rows, nil
}

func (r *LostFoundRepositoryImpl) UpdateStatus(ctx context.Context, itemID uint, status string) (*models.LostFoundItem, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return nil, err
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

	err = db.Model(&models.LostFoundItem{}).Where("id = ?", itemID).Update("status", status).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update lost & found status: %w", err)
	}

	var item models.LostFoundItem
	if err = db.First(&item, itemID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload lost & found item: %w", err)
	}
	return &item, nil
}

func (r *LostFoundRepositoryImpl) Count(ctx context.Context, filter models.LostFoundFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.LostFoundItem{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
