package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/eduvia/eduvia-api/app/dto"
	businessflow "github.com/eduvia/eduvia-api/business_flow"
	"github.com/eduvia/eduvia-api/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AdminHandlerInterface defines the contract for admin console handlers
type AdminHandlerInterface interface {
	Stats(c fiber.Ctx) error
	ListUsers(c fiber.Ctx) error
	ChangeRole(c fiber.Ctx) error
	ExportUsers(c fiber.Ctx) error
}

// AdminHandler handles admin console HTTP requests
type AdminHandler struct {
	adminFlow businessflow.AdminFlow
	validator *validator.Validate
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminFlow businessflow.AdminFlow) *AdminHandler {
	return &AdminHandler{
		adminFlow: adminFlow,
		validator: validator.New(),
	}
}

func (h *AdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Stats returns usage counters for the dashboard
func (h *AdminHandler) Stats(c fiber.Ctx) error {
	result, err := h.adminFlow.Stats(h.createRequestContext(c, "/api/v1/admin/stats"))
	if err != nil {
		log.Println("Admin stats failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute stats", "ADMIN_STATS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Stats computed", result)
}

// ListUsers returns a page of registered users
func (h *AdminHandler) ListUsers(c fiber.Ctx) error {
	page := 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid page number", "INVALID_REQUEST", nil)
		}
		page = parsed
	}

	result, err := h.adminFlow.ListUsers(h.createRequestContext(c, "/api/v1/admin/users"), page)
	if err != nil {
		log.Println("Admin list users failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list users", "ADMIN_USERS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Users retrieved", result)
}

// ChangeRole promotes or demotes a user
func (h *AdminHandler) ChangeRole(c fiber.Ctx) error {
	actorID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	targetID, err := pathID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", nil)
	}

	var req dto.PromoteUserRequest
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

	result, err := h.adminFlow.ChangeRole(h.createRequestContext(c, "/api/v1/admin/users/:id/role"), actorID, targetID, &req)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", dto.ErrorUserNotFound, nil)
		}
		if businessflow.IsCannotDemoteSelf(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "You cannot change your own role", dto.ErrorCannotDemoteSelf, nil)
		}
		if businessflow.IsCannotChangeSuperAdmin(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Super admin role cannot be changed", dto.ErrorCannotChangeSuper, nil)
		}
		log.Println("Admin change role failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to change role", "ADMIN_ROLE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Role updated", result)
}

// ExportUsers streams the user list as an xlsx attachment
func (h *AdminHandler) ExportUsers(c fiber.Ctx) error {
	filename, content, err := h.adminFlow.ExportUsersExcel(h.createRequestContextWithTimeout(c, "/api/v1/admin/users/export", 60*time.Second))
	if err != nil {
		log.Println("Admin export users failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export users", "ADMIN_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Status(fiber.StatusOK).Send(content)
}

func (h *AdminHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *AdminHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
