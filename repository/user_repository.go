package repository

import (
	"context"
	"fmt"

	"github.com/eduvia/eduvia-api/matching"
	"github.com/eduvia/eduvia-api/models"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements UserRepository
type UserRepositoryImpl struct {
	*BaseRepository[models.User, models.UserFilter]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{BaseRepository: NewBaseRepository[models.User, models.UserFilter](db)}
}

func (r *UserRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.User, error) {
	rows, err := r.ByFilter(ctx, models.UserFilter{Email: &email}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *UserRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.User, error) {
	rows, err := r.ByFilter(ctx, models.UserFilter{UUID: &uuid}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *UserRepositoryImpl) applyFilter(db *gorm.DB, f models.UserFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Email != nil {
		db = db.Where("email = ?", *f.Email)
	}
	if f.Role != nil {
		db = db.Where("role = ?", *f.Role)
	}
	if len(f.BranchIn) > 0 {
		db = db.Where("branch IN ?", f.BranchIn)
	}
	if len(f.SemesterIn) > 0 {
		db = db.Where("semester IN ?", f.SemesterIn)
	}
	if f.YearOfStudy != nil {
		db = db.Where("year_of_study = ?", *f.YearOfStudy)
	}
	if f.ProfileCompleted != nil {
		db = db.Where("profile_completed = ?", *f.ProfileCompleted)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *UserRepositoryImpl) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.User{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.User
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find users by filter: %w", err)
	}
	return rows, nil
}

// ListIDsByAudience resolves an audience criterion to user IDs with a single
// scan. Present dimensions are ANDed; values within a dimension are an
// IN-set. The empty criterion deliberately selects everyone.
func (r *UserRepositoryImpl) ListIDsByAudience(ctx context.Context, criterion matching.Criterion) ([]uint, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.User{})
	if len(criterion.Branches) > 0 {
		query = query.Where("branch IN ?", criterion.Branches)
	}
	if len(criterion.Semesters) > 0 {
		query = query.Where("semester IN ?", criterion.Semesters)
	}
	if criterion.Year != nil {
		query = query.Where("year_of_study = ?", *criterion.Year)
	}

	var ids []uint
	if err := query.Distinct().Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve audience: %w", err)
	}
	return ids, nil
}

// Update persists the full row of an existing user
func (r *UserRepositoryImpl) Update(ctx context.Context, user *models.User) error {
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

	err = db.Save(user).Error
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateRole(ctx context.Context, userID uint, role string) error {
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

	err = db.Model(&models.User{}).Where("id = ?", userID).Update("role", role).Error
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return nil
}

// UpdateProfile overwrites the profile columns of a user and marks the
// profile completed. Only profile fields are taken from the update value.
func (r *UserRepositoryImpl) UpdateProfile(ctx context.Context, userID uint, update models.User) (*models.User, error) {
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

	updates := map[string]any{
		"college":           update.College,
		"mobile":            update.Mobile,
		"branch":            update.Branch,
		"semester":          update.Semester,
		"year_of_study":     update.YearOfStudy,
		"program_type":      update.ProgramType,
		"profile_completed": true,
	}
	err = db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	var user models.User
	if err = db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user after profile update: %w", err)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) CountByBranch(ctx context.Context) (map[string]int64, error) {
	db := r.getDB(ctx)

	type row struct {
		Branch *string
		Total  int64
	}
	var rows []row
	err := db.Model(&models.User{}).
		Select("branch, COUNT(*) AS total").
		Group("branch").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count users by branch: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		branch := ""
		if r.Branch != nil {
			branch = *r.Branch
		}
		out[branch] = r.Total
	}
	return out, nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.User{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
