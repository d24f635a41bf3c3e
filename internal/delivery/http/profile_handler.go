package http

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"copiersync/internal/domain"
	"copiersync/internal/middleware"
)

// ProfileHandler serves the authenticated user's own record.
type ProfileHandler struct {
	userRepo domain.UserRepository
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(userRepo domain.UserRepository) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo}
}

// Get returns the caller's profile.
// GET /api/v1/profile
func (h *ProfileHandler) Get(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), identity.UserID)
	if err != nil {
		return HandleError(c, err)
	}

	return SuccessResponse(c, user)
}

// Update changes the caller's name and email.
// PUT /api/v1/profile
func (h *ProfileHandler) Update(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	type updateRequest struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	}

	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx := c.Request().Context()
	user, err := h.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		return HandleError(c, err)
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Email != "" {
		user.Email = req.Email
	}

	if err := h.userRepo.UpdateProfile(ctx, user); err != nil {
		return HandleError(c, err)
	}

	return SuccessResponse(c, user)
}

// ChangePassword verifies the current password and sets a new one.
// PUT /api/v1/profile/password
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	type passwordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=6"`
	}

	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if len(req.NewPassword) < 6 {
		return BadRequestResponse(c, "Password must be at least 6 characters")
	}

	ctx := c.Request().Context()
	user, err := h.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		return HandleError(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return UnauthorizedResponse(c, "Current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to hash password", err)
	}

	if err := h.userRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return HandleError(c, err)
	}

	return SuccessMessageResponse(c, "Password updated", nil)
}
