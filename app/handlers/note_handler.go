package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/eduvia/eduvia-api/app/dto"
	businessflow "github.com/eduvia/eduvia-api/business_flow"
	"github.com/eduvia/eduvia-api/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// NoteHandlerInterface defines the contract for note handlers
type NoteHandlerInterface interface {
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	Download(c fiber.Ctx) error
	DebugMatches(c fiber.Ctx) error
}

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	noteFlow  businessflow.NoteFlow
	validator *validator.Validate
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteFlow businessflow.NoteFlow) *NoteHandler {
	return &NoteHandler{
		noteFlow:  noteFlow,
		validator: validator.New(),
	}
}

func (h *NoteHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *NoteHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List returns the notes visible to the caller's profile
func (h *NoteHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.noteFlow.ListVisible(h.createRequestContext(c, "/api/v1/notes"), userID)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", dto.ErrorUserNotFound, nil)
		}
		log.Println("List notes failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list notes", "NOTE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Notes retrieved", result)
}

// Get returns one note after a visibility check
func (h *NoteHandler) Get(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	noteID, err := pathID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid note ID", "INVALID_REQUEST", nil)
	}

	result, err := h.noteFlow.Get(h.createRequestContext(c, "/api/v1/notes/:id"), userID, noteID)
	if err != nil {
		if businessflow.IsNoteNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Note not found", dto.ErrorNoteNotFound, nil)
		}
		if businessflow.IsNoteNotVisible(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Note is not visible to this profile", dto.ErrorNoteNotVisible, nil)
		}
		log.Println("Get note failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch note", "NOTE_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Note retrieved", result)
}

// Create publishes a note
func (h *NoteHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateNoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.noteFlow.Create(h.createRequestContext(c, "/api/v1/notes"), userID, &req, metadata)
	if err != nil {
		log.Println("Create note failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create note", "NOTE_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Note published", result)
}

// Delete removes a note
func (h *NoteHandler) Delete(c fiber.Ctx) error {
	noteID, err := pathID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid note ID", "INVALID_REQUEST", nil)
	}

	if err := h.noteFlow.Delete(h.createRequestContext(c, "/api/v1/notes/:id"), noteID); err != nil {
		if businessflow.IsNoteNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Note not found", dto.ErrorNoteNotFound, nil)
		}
		log.Println("Delete note failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete note", "NOTE_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Note deleted", nil)
}

// Download redirects to the note's direct download URL after a visibility check
func (h *NoteHandler) Download(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	noteID, err := pathID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid note ID", "INVALID_REQUEST", nil)
	}

	url, err := h.noteFlow.Download(h.createRequestContext(c, "/api/v1/notes/:id/download"), userID, noteID)
	if err != nil {
		if businessflow.IsNoteNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Note not found", dto.ErrorNoteNotFound, nil)
		}
		if businessflow.IsNoteNotVisible(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Note is not visible to this profile", dto.ErrorNoteNotVisible, nil)
		}
		log.Println("Download note failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve download", "NOTE_DOWNLOAD_FAILED", nil)
	}

	return c.Redirect().Status(fiber.StatusFound).To(url)
}

// DebugMatches explains per-note visibility for the caller
func (h *NoteHandler) DebugMatches(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.noteFlow.DebugMatches(h.createRequestContext(c, "/api/v1/debug/notes"), userID)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", dto.ErrorUserNotFound, nil)
		}
		log.Println("Debug notes failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to trace note matching", "NOTE_DEBUG_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Match trace computed", result)
}

func (h *NoteHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *NoteHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}

// pathID parses a numeric path parameter
func pathID(c fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}
