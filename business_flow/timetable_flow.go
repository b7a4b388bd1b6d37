package businessflow

import (
	"context"
	"fmt"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/repository"
	"github.com/eduvia/eduvia-api/utils"
)

// TimetableFlow handles the weekly class timetable
type TimetableFlow interface {
	List(ctx context.Context, course string) (*dto.TimetableResponse, error)
	Create(ctx context.Context, userID uint, request *dto.CreateTimetableEntryRequest, metadata *ClientMetadata) (*dto.TimetableEntryDTO, error)
	Update(ctx context.Context, entryID uint, request *dto.UpdateTimetableEntryRequest, metadata *ClientMetadata) (*dto.TimetableEntryDTO, error)
	Delete(ctx context.Context, entryID uint) error
}

// TimetableFlowImpl implements the timetable business flow
type TimetableFlowImpl struct {
	timetableRepo repository.TimetableRepository
	dispatch      DispatchFlow
}

// NewTimetableFlow creates a new timetable flow instance
func NewTimetableFlow(timetableRepo repository.TimetableRepository, dispatch DispatchFlow) TimetableFlow {
	return &TimetableFlowImpl{timetableRepo: timetableRepo, dispatch: dispatch}
}

// List returns the timetable grouped by teaching day, optionally narrowed to one course
func (tf *TimetableFlowImpl) List(ctx context.Context, course string) (*dto.TimetableResponse, error) {
	filter := models.TimetableFilter{}
	if course != "" {
		filter.Course = &course
	}
	rows, err := tf.timetableRepo.ByFilter(ctx, filter, "day ASC, start_time ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("TIMETABLE_LIST_FAILED", "Failed to load timetable", err)
	}

	days := make(map[string][]dto.TimetableEntryDTO, len(models.TimetableDays))
	for _, day := range models.TimetableDays {
		days[day] = []dto.TimetableEntryDTO{}
	}
	for _, row := range rows {
		days[row.Day] = append(days[row.Day], ToTimetableEntryDTO(*row))
	}
	return &dto.TimetableResponse{Days: days}, nil
}

// Create adds a slot and broadcasts a CLASS_UPDATE notification
func (tf *TimetableFlowImpl) Create(ctx context.Context, userID uint, request *dto.CreateTimetableEntryRequest, metadata *ClientMetadata) (*dto.TimetableEntryDTO, error) {
	if request.EndTime <= request.StartTime {
		return nil, NewBusinessError("INVALID_TIME_RANGE", "End time must be after start time", ErrInvalidTimeRange)
	}

	entry := &models.TimetableEntry{
		Course:    request.Course,
		Day:       request.Day,
		StartTime: request.StartTime,
		EndTime:   request.EndTime,
		Room:      request.Room,
		Faculty:   request.Faculty,
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}
	if err := tf.timetableRepo.Save(ctx, entry); err != nil {
		return nil, NewBusinessError("TIMETABLE_CREATE_FAILED", "Failed to create timetable entry", err)
	}

	broadcastBestEffort(ctx, tf.dispatch,
		"Timetable updated",
		fmt.Sprintf("%s now meets %s %s-%s in %s", entry.Course, entry.Day, entry.StartTime, entry.EndTime, entry.Room),
		models.NotificationTypeClassUpdate, notificationLink("/timetable"))

	result := ToTimetableEntryDTO(*entry)
	return &result, nil
}

// Update edits a slot and broadcasts a CLASS_UPDATE notification
func (tf *TimetableFlowImpl) Update(ctx context.Context, entryID uint, request *dto.UpdateTimetableEntryRequest, metadata *ClientMetadata) (*dto.TimetableEntryDTO, error) {
	entry, err := tf.timetableRepo.ByID(ctx, entryID)
	if err != nil {
		return nil, NewBusinessError("TIMETABLE_UPDATE_FAILED", "Failed to load timetable entry", err)
	}
	if entry == nil {
		return nil, NewBusinessError("TIMETABLE_ENTRY_NOT_FOUND", "Timetable entry not found", ErrTimetableEntryNotFound)
	}

	if request.Course != nil {
		entry.Course = *request.Course
	}
	if request.Day != nil {
		entry.Day = *request.Day
	}
	if request.StartTime != nil {
		entry.StartTime = *request.StartTime
	}
	if request.EndTime != nil {
		entry.EndTime = *request.EndTime
	}
	if request.Room != nil {
		entry.Room = *request.Room
	}
	if request.Faculty != nil {
		entry.Faculty = *request.Faculty
	}
	if entry.EndTime <= entry.StartTime {
		return nil, NewBusinessError("INVALID_TIME_RANGE", "End time must be after start time", ErrInvalidTimeRange)
	}
	entry.UpdatedAt = utils.UTCNow()

	if err := tf.timetableRepo.Update(ctx, entry); err != nil {
		return nil, NewBusinessError("TIMETABLE_UPDATE_FAILED", "Failed to update timetable entry", err)
	}

	broadcastBestEffort(ctx, tf.dispatch,
		"Timetable updated",
		fmt.Sprintf("%s now meets %s %s-%s in %s", entry.Course, entry.Day, entry.StartTime, entry.EndTime, entry.Room),
		models.NotificationTypeClassUpdate, notificationLink("/timetable"))

	result := ToTimetableEntryDTO(*entry)
	return &result, nil
}

// Delete removes a slot without notifying anyone
func (tf *TimetableFlowImpl) Delete(ctx context.Context, entryID uint) error {
	entry, err := tf.timetableRepo.ByID(ctx, entryID)
	if err != nil {
		return NewBusinessError("TIMETABLE_DELETE_FAILED", "Failed to load timetable entry", err)
	}
	if entry == nil {
		return NewBusinessError("TIMETABLE_ENTRY_NOT_FOUND", "Timetable entry not found", ErrTimetableEntryNotFound)
	}
	if err := tf.timetableRepo.Delete(ctx, entryID); err != nil {
		return NewBusinessError("TIMETABLE_DELETE_FAILED", "Failed to delete timetable entry", err)
	}
	return nil
}
