package handlers

import (
	"context"
	"log"
	"time"

	"github.com/eduvia/eduvia-api/app/dto"
	businessflow "github.com/eduvia/eduvia-api/business_flow"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// LostFoundHandlerInterface defines the contract for lost & found handlers
type LostFoundHandlerInterface interface {
	List(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	UpdateStatus(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// LostFoundHandler handles lost & found HTTP requests
type LostFoundHandler struct {
	lostFoundFlow businessflow.LostFoundFlow
	validator     *validator.Validate
}

// NewLostFoundHandler creates a new lost & found handler
func NewLostFoundHandler(lostFoundFlow businessflow.LostFoundFlow) *LostFoundHandler {
	return &LostFoundHandler{
		lostFoundFlow: lostFoundFlow,
		validator:     validator.New(),
	}
}

func (h *LostFoundHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *LostFoundHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List returns the whole board
func (h *LostFoundHandler) List(c fiber.Ctx) error {
	result, err := h.lostFoundFlow.List(h.createRequestContext(c, "/api/v1/lostfound"))
	if err != nil {
		log.Println("List lost & found failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load lost & found items", "LOSTFOUND_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Lost & found items retrieved", result)
}

// Create files a report
func (h *LostFoundHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateLostFoundRequest
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

	result, err := h.lostFoundFlow.Create(h.createRequestContext(c, "/api/v1/lostfound"), userID, &req, metadata)
	if err != nil {
		log.Println("Create lost & found item failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create lost & found item", "LOSTFOUND_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Report filed", result)
}

// UpdateStatus resolves a report
func (h *LostFoundHandler) UpdateStatus(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	itemID, err := pathID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid item ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateLostFoundStatusRequest
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

	result, err := h.lostFoundFlow.UpdateStatus(h.createRequestContext(c, "/api/v1/lostfound/:id"), userID, isAdminRole(c), itemID, &req)
	if err != nil {
		if businessflow.IsLostFoundNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lost & found item not found", dto.ErrorLostFoundNotFound, nil)
		}
		if businessflow.IsLostFoundAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Item belongs to another user", dto.ErrorLostFoundAccessDenied, nil)
		}
		log.Println("Update lost & found item failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update lost & found item", "LOSTFOUND_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Item updated", result)
}

// Delete removes a report
func (h *LostFoundHandler) Delete(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	itemID, err := pathID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid item ID", "INVALID_REQUEST", nil)
	}

	if err := h.lostFoundFlow.Delete(h.createRequestContext(c, "/api/v1/lostfound/:id"), userID, isAdminRole(c), itemID); err != nil {
		if businessflow.IsLostFoundNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lost & found item not found", dto.ErrorLostFoundNotFound, nil)
		}
		if businessflow.IsLostFoundAccessDenied(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Item belongs to another user", dto.ErrorLostFoundAccessDenied, nil)
		}
		log.Println("Delete lost & found item failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete lost & found item", "LOSTFOUND_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Item deleted", nil)
}

func (h *LostFoundHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *LostFoundHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}

// isAdminRole reports whether the authenticated caller has an admin role
func isAdminRole(c fiber.Ctx) bool {
	role, _ := c.Locals("user_role").(string)
	return role == models.RoleAdmin || role == models.RoleSuperAdmin
}
