package http

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"copiersync/internal/domain"
	"copiersync/internal/middleware"
	"copiersync/internal/usecase"
)

// AdminHandler serves the admin-only surface: user administration, the
// audit trail and manual account reconciliation.
type AdminHandler struct {
	syncService  *usecase.SyncService
	userRepo     domain.UserRepository
	activityRepo domain.ActivityLogRepository
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(syncService *usecase.SyncService, userRepo domain.UserRepository, activityRepo domain.ActivityLogRepository) *AdminHandler {
	return &AdminHandler{
		syncService:  syncService,
		userRepo:     userRepo,
		activityRepo: activityRepo,
	}
}

// ListUsers returns every registered user.
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.userRepo.GetAll(c.Request().Context())
	if err != nil {
		return HandleError(c, err)
	}
	return SuccessResponse(c, users)
}

// CreateUserRequest represents the admin user-creation payload. Unlike
// self-service signup, the role is assignable.
type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role"`
}

// CreateUser registers a user with an explicit role.
// POST /api/v1/admin/users
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Email == "" || req.Password == "" {
		return BadRequestResponse(c, "Email and password are required")
	}
	if len(req.Password) < 6 {
		return BadRequestResponse(c, "Password must be at least 6 characters")
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return BadRequestResponse(c, "Role must be admin or user")
	}

	ctx := c.Request().Context()
	if existing, err := h.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return BadRequestResponse(c, "Email is already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to hash password", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		return HandleError(c, err)
	}

	return CreatedResponse(c, user)
}

// DeleteUser removes a user. Their mirrored accounts stay in the store
// without an owner until reassigned or reconciled away.
// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid user id")
	}

	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}
	if identity.UserID == id {
		return BadRequestResponse(c, "Cannot delete your own account")
	}

	if err := h.userRepo.Delete(c.Request().Context(), id); err != nil {
		return HandleError(c, err)
	}

	return SuccessMessageResponse(c, "User deleted", nil)
}

// ActivityLogs returns the most recent audit records, newest first.
// GET /api/v1/admin/activity-logs?limit=100
func (h *AdminHandler) ActivityLogs(c echo.Context) error {
	limit := 100
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return BadRequestResponse(c, "Invalid limit")
		}
		limit = parsed
	}

	logs, err := h.activityRepo.List(c.Request().Context(), limit)
	if err != nil {
		return HandleError(c, err)
	}

	return SuccessResponse(c, logs)
}

// SyncAccounts pulls the authoritative account list from the copier and
// reconciles the local mirror.
// POST /api/v1/admin/accounts/sync
func (h *AdminHandler) SyncAccounts(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	filter := domain.AccountFilter{
		AccountID: c.QueryParam("account_id"),
		Type:      intQueryParam(c, "type"),
		Status:    intQueryParam(c, "status"),
	}

	synced, err := h.syncService.SyncAccounts(c.Request().Context(), identity, filter)
	if err != nil {
		return HandleError(c, err)
	}

	return SuccessMessageResponse(c, "Accounts reconciled", map[string]int{"synced": synced})
}
