package businessflow

import (
	"context"
	"fmt"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/repository"
	"github.com/xuri/excelize/v2"
)

const adminUsersPageSize = 50

// AdminFlow handles the admin console: stats, user management, and exports
type AdminFlow interface {
	Stats(ctx context.Context) (*dto.AdminStatsResponse, error)
	ListUsers(ctx context.Context, page int) (*dto.ListUsersResponse, error)
	ChangeRole(ctx context.Context, actorID, targetID uint, request *dto.PromoteUserRequest) (*dto.UserDTO, error)
	ExportUsersExcel(ctx context.Context) (string, []byte, error)
}

// AdminFlowImpl implements the admin business flow
type AdminFlowImpl struct {
	userRepo         repository.UserRepository
	noteRepo         repository.NoteRepository
	eventRepo        repository.EventRepository
	lostFoundRepo    repository.LostFoundRepository
	notificationRepo repository.NotificationRepository
}

// NewAdminFlow creates a new admin flow instance
func NewAdminFlow(
	userRepo repository.UserRepository,
	noteRepo repository.NoteRepository,
	eventRepo repository.EventRepository,
	lostFoundRepo repository.LostFoundRepository,
	notificationRepo repository.NotificationRepository,
) AdminFlow {
	return &AdminFlowImpl{
		userRepo:         userRepo,
		noteRepo:         noteRepo,
		eventRepo:        eventRepo,
		lostFoundRepo:    lostFoundRepo,
		notificationRepo: notificationRepo,
	}
}

// Stats aggregates portal-wide counts for the admin dashboard
func (af *AdminFlowImpl) Stats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	totalUsers, err := af.userRepo.Count(ctx, models.UserFilter{})
	if err != nil {
		return nil, NewBusinessError("ADMIN_STATS_FAILED", "Failed to count users", err)
	}
	totalNotes, err := af.noteRepo.Count(ctx, models.NoteFilter{})
	if err != nil {
		return nil, NewBusinessError("ADMIN_STATS_FAILED", "Failed to count notes", err)
	}
	totalEvents, err := af.eventRepo.Count(ctx, models.EventFilter{})
	if err != nil {
		return nil, NewBusinessError("ADMIN_STATS_FAILED", "Failed to count events", err)
	}
	totalLostFound, err := af.lostFoundRepo.Count(ctx, models.LostFoundFilter{})
	if err != nil {
		return nil, NewBusinessError("ADMIN_STATS_FAILED", "Failed to count lost & found items", err)
	}
	totalNotifications, err := af.notificationRepo.Count(ctx, models.NotificationFilter{})
	if err != nil {
		return nil, NewBusinessError("ADMIN_STATS_FAILED", "Failed to count notifications", err)
	}
	usersByBranch, err := af.userRepo.CountByBranch(ctx)
	if err != nil {
		return nil, NewBusinessError("ADMIN_STATS_FAILED", "Failed to count users by branch", err)
	}

	return &dto.AdminStatsResponse{
		TotalUsers:         totalUsers,
		TotalNotes:         totalNotes,
		TotalEvents:        totalEvents,
		TotalLostFound:     totalLostFound,
		TotalNotifications: totalNotifications,
		UsersByBranch:      usersByBranch,
	}, nil
}

// ListUsers returns one page of registered users, newest first
func (af *AdminFlowImpl) ListUsers(ctx context.Context, page int) (*dto.ListUsersResponse, error) {
	if page < 1 {
		return nil, NewBusinessError("INVALID_PAGE", "Page must be at least 1", ErrInvalidPage)
	}

	offset := (page - 1) * adminUsersPageSize
	rows, err := af.userRepo.ByFilter(ctx, models.UserFilter{}, "created_at DESC", adminUsersPageSize, offset)
	if err != nil {
		return nil, NewBusinessError("ADMIN_USER_LIST_FAILED", "Failed to list users", err)
	}
	total, err := af.userRepo.Count(ctx, models.UserFilter{})
	if err != nil {
		return nil, NewBusinessError("ADMIN_USER_LIST_FAILED", "Failed to count users", err)
	}

	users := make([]dto.UserDTO, 0, len(rows))
	for _, row := range rows {
		users = append(users, ToUserDTO(*row))
	}
	return &dto.ListUsersResponse{Users: users, Total: total, Page: page}, nil
}

// ChangeRole promotes or demotes a user between student and admin. The super
// admin role itself can never be granted or revoked here, and actors cannot
// change their own role.
func (af *AdminFlowImpl) ChangeRole(ctx context.Context, actorID, targetID uint, request *dto.PromoteUserRequest) (*dto.UserDTO, error) {
	if actorID == targetID {
		return nil, NewBusinessError("CANNOT_DEMOTE_SELF", "Cannot change your own role", ErrCannotDemoteSelf)
	}

	target, err := af.userRepo.ByID(ctx, targetID)
	if err != nil {
		return nil, NewBusinessError("ADMIN_ROLE_CHANGE_FAILED", "Failed to load user", err)
	}
	if target == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}
	if target.Role == models.RoleSuperAdmin {
		return nil, NewBusinessError("CANNOT_CHANGE_SUPER_ADMIN", "Super admin role cannot be changed", ErrCannotChangeSuperAdmin)
	}

	if err := af.userRepo.UpdateRole(ctx, targetID, request.Role); err != nil {
		return nil, NewBusinessError("ADMIN_ROLE_CHANGE_FAILED", "Failed to update role", err)
	}
	target.Role = request.Role

	result := ToUserDTO(*target)
	return &result, nil
}

// ExportUsersExcel builds an .xlsx roster of every registered user
func (af *AdminFlowImpl) ExportUsersExcel(ctx context.Context) (string, []byte, error) {
	rows, err := af.userRepo.ByFilter(ctx, models.UserFilter{}, "created_at ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("ADMIN_EXPORT_FAILED", "Failed to list users for export", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Users"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "email", "name", "role", "college", "branch", "program_type", "semester", "year_of_study", "profile_completed", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, user := range rows {
		record := []any{
			user.ID,
			user.Email,
			user.Name,
			user.Role,
			derefString(user.College),
			derefString(user.Branch),
			derefString(user.ProgramType),
			derefInt(user.Semester),
			derefInt(user.YearOfStudy),
			user.ProfileCompleted,
			user.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	filename := fmt.Sprintf("users_%d.xlsx", len(rows))
	return filename, buf.Bytes(), nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) any {
	if i == nil {
		return ""
	}
	return *i
}
