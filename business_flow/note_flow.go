package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/matching"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/repository"
	"github.com/eduvia/eduvia-api/utils"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NoteFlow handles the note catalog, its audience filtering, and publishing
type NoteFlow interface {
	ListVisible(ctx context.Context, userID uint) (*dto.ListNotesResponse, error)
	Get(ctx context.Context, userID, noteID uint) (*dto.NoteDTO, error)
	Create(ctx context.Context, userID uint, request *dto.CreateNoteRequest, metadata *ClientMetadata) (*dto.NoteDTO, error)
	Delete(ctx context.Context, noteID uint) error
	Download(ctx context.Context, userID, noteID uint) (string, error)
	DebugMatches(ctx context.Context, userID uint) (*dto.DebugNotesResponse, error)
}

// NoteFlowImpl implements the note business flow
type NoteFlowImpl struct {
	noteRepo    repository.NoteRepository
	userRepo    repository.UserRepository
	dispatch    DispatchFlow
	rc          *redis.Client
	cachePrefix string
	cacheTTL    time.Duration
	db          *gorm.DB
}

// NewNoteFlow creates a new note flow instance. rc may be nil to disable the
// catalog cache.
func NewNoteFlow(
	noteRepo repository.NoteRepository,
	userRepo repository.UserRepository,
	dispatch DispatchFlow,
	rc *redis.Client,
	cachePrefix string,
	cacheTTL time.Duration,
	db *gorm.DB,
) NoteFlow {
	return &NoteFlowImpl{
		noteRepo:    noteRepo,
		userRepo:    userRepo,
		dispatch:    dispatch,
		rc:          rc,
		cachePrefix: cachePrefix,
		cacheTTL:    cacheTTL,
		db:          db,
	}
}

// ListVisible returns the notes whose targeting matches the caller's profile,
// newest first. Filtering happens in memory against the full catalog so the
// substring branch rule behaves identically everywhere.
func (nf *NoteFlowImpl) ListVisible(ctx context.Context, userID uint) (*dto.ListNotesResponse, error) {
	user, err := nf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("NOTE_LIST_FAILED", "Failed to load user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	catalog, err := nf.loadCatalog(ctx)
	if err != nil {
		return nil, NewBusinessError("NOTE_LIST_FAILED", "Failed to load note catalog", err)
	}

	visible := matching.Filter(catalog, profileOf(*user), noteTargeting)

	notes := make([]dto.NoteDTO, 0, len(visible))
	for _, note := range visible {
		notes = append(notes, ToNoteDTO(note))
	}
	return &dto.ListNotesResponse{Notes: notes, Total: len(notes)}, nil
}

// Get returns one note after checking that the caller's profile may see it.
// Admins bypass the audience check.
func (nf *NoteFlowImpl) Get(ctx context.Context, userID, noteID uint) (*dto.NoteDTO, error) {
	user, err := nf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("NOTE_FETCH_FAILED", "Failed to load user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	note, err := nf.noteRepo.ByID(ctx, noteID)
	if err != nil {
		return nil, NewBusinessError("NOTE_FETCH_FAILED", "Failed to load note", err)
	}
	if note == nil {
		return nil, NewBusinessError("NOTE_NOT_FOUND", "Note not found", ErrNoteNotFound)
	}

	if !user.IsAdmin() && !matching.IsVisible(noteTargeting(*note), profileOf(*user)) {
		return nil, NewBusinessError("NOTE_NOT_VISIBLE", "Note is not visible to this profile", ErrNoteNotVisible)
	}

	result := ToNoteDTO(*note)
	return &result, nil
}

// Create publishes a note and fans a NEW_NOTE notification out to the note's
// audience. The fan-out is awaited but best-effort: a failed batch never
// fails the publish.
func (nf *NoteFlowImpl) Create(ctx context.Context, userID uint, request *dto.CreateNoteRequest, metadata *ClientMetadata) (*dto.NoteDTO, error) {
	semesters := make(pq.Int32Array, 0, len(request.Semesters))
	for _, s := range request.Semesters {
		semesters = append(semesters, int32(s))
	}

	note := &models.Note{
		Title:       request.Title,
		Course:      request.Course,
		FileID:      request.FileID,
		DriveURL:    request.DriveURL,
		Branches:    pq.StringArray(request.Branches),
		Semesters:   semesters,
		YearOfStudy: request.YearOfStudy,
		CreatedBy:   userID,
		CreatedAt:   utils.UTCNow(),
	}
	if note.Branches == nil {
		note.Branches = pq.StringArray{}
	}

	if err := nf.noteRepo.Save(ctx, note); err != nil {
		return nil, NewBusinessError("NOTE_CREATE_FAILED", "Failed to create note", err)
	}

	nf.invalidateCatalog(ctx)

	dispatchBestEffort(ctx, nf.dispatch, noteCriterion(*note),
		noteNotificationTitle(*note), note.Course,
		models.NotificationTypeNewNote, notificationLink("/notes"))

	result := ToNoteDTO(*note)
	return &result, nil
}

// Delete removes a note from the catalog
func (nf *NoteFlowImpl) Delete(ctx context.Context, noteID uint) error {
	note, err := nf.noteRepo.ByID(ctx, noteID)
	if err != nil {
		return NewBusinessError("NOTE_DELETE_FAILED", "Failed to load note", err)
	}
	if note == nil {
		return NewBusinessError("NOTE_NOT_FOUND", "Note not found", ErrNoteNotFound)
	}

	if err := nf.noteRepo.Delete(ctx, noteID); err != nil {
		return NewBusinessError("NOTE_DELETE_FAILED", "Failed to delete note", err)
	}

	nf.invalidateCatalog(ctx)
	return nil
}

// Download returns the direct download URL after re-checking visibility.
// Admins bypass the audience check.
func (nf *NoteFlowImpl) Download(ctx context.Context, userID, noteID uint) (string, error) {
	user, err := nf.userRepo.ByID(ctx, userID)
	if err != nil {
		return "", NewBusinessError("NOTE_DOWNLOAD_FAILED", "Failed to load user", err)
	}
	if user == nil {
		return "", NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	note, err := nf.noteRepo.ByID(ctx, noteID)
	if err != nil {
		return "", NewBusinessError("NOTE_DOWNLOAD_FAILED", "Failed to load note", err)
	}
	if note == nil {
		return "", NewBusinessError("NOTE_NOT_FOUND", "Note not found", ErrNoteNotFound)
	}

	if !user.IsAdmin() && !matching.IsVisible(noteTargeting(*note), profileOf(*user)) {
		return "", NewBusinessError("NOTE_NOT_VISIBLE", "Note is not visible to this profile", ErrNoteNotVisible)
	}

	return note.DriveURL, nil
}

// DebugMatches explains, note by note, why the catalog is or is not visible
// to the caller's profile.
func (nf *NoteFlowImpl) DebugMatches(ctx context.Context, userID uint) (*dto.DebugNotesResponse, error) {
	user, err := nf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("NOTE_DEBUG_FAILED", "Failed to load user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	catalog, err := nf.loadCatalog(ctx)
	if err != nil {
		return nil, NewBusinessError("NOTE_DEBUG_FAILED", "Failed to load note catalog", err)
	}

	profile := profileOf(*user)
	reports := make([]dto.NoteMatchReport, 0, len(catalog))
	for _, note := range catalog {
		report := matching.Explain(noteTargeting(note), profile)
		reports = append(reports, dto.NoteMatchReport{
			Note:          ToNoteDTO(note),
			Visible:       report.Matched(),
			BranchMatch:   report.BranchMatch,
			SemesterMatch: report.SemesterMatch,
			YearMatch:     report.YearMatch,
			ProfileBranch: report.ProfileBranch,
			NoteBranches:  report.NoteBranches,
		})
	}

	return &dto.DebugNotesResponse{
		Profile: ToUserDTO(*user),
		Reports: reports,
	}, nil
}

// loadCatalog returns the full catalog, newest first, from cache when possible
func (nf *NoteFlowImpl) loadCatalog(ctx context.Context) ([]models.Note, error) {
	cacheKey := nf.catalogCacheKey()

	if nf.rc != nil {
		if bs, err := nf.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var cached []models.Note
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	rows, err := nf.noteRepo.ListNewestFirst(ctx)
	if err != nil {
		return nil, err
	}
	catalog := make([]models.Note, 0, len(rows))
	for _, row := range rows {
		catalog = append(catalog, *row)
	}

	if nf.rc != nil {
		if bs, err := json.Marshal(catalog); err == nil {
			_ = nf.rc.Set(ctx, cacheKey, bs, nf.cacheTTL).Err()
		}
	}
	return catalog, nil
}

func (nf *NoteFlowImpl) invalidateCatalog(ctx context.Context) {
	if nf.rc == nil {
		return
	}
	_ = nf.rc.Del(ctx, nf.catalogCacheKey()).Err()
}

func (nf *NoteFlowImpl) catalogCacheKey() string {
	return fmt.Sprintf("%s%s", nf.cachePrefix, utils.NoteCatalogCacheKey)
}
