package http

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"copiersync/internal/domain"
	"copiersync/internal/middleware"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userRepo domain.UserRepository
	auth     *middleware.Auth
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo domain.UserRepository, auth *middleware.Auth) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		auth:     auth,
	}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Signup handles user registration
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Email == "" || req.Password == "" {
		return BadRequestResponse(c, "Email and password are required")
	}
	if len(req.Password) < 6 {
		return BadRequestResponse(c, "Password must be at least 6 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

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
		Role:         domain.RoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		return InternalServerErrorResponse(c, "Failed to create user", err)
	}

	return CreatedResponse(c, user)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Email == "" || req.Password == "" {
		return BadRequestResponse(c, "Email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return UnauthorizedResponse(c, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return UnauthorizedResponse(c, "Invalid credentials")
	}

	token, err := h.auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to generate token", err)
	}

	return SuccessResponse(c, LoginResponse{
		Token: token,
		User:  user,
	})
}

// RequestPasswordReset issues a one-hour reset token for the given email.
// Only the token's hash is stored; the reset URL is logged in place of an
// outbound email. The response is the same whether or not the email exists,
// so the endpoint cannot be used to probe for registered addresses.
// POST /api/v1/auth/reset-password
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	type resetRequest struct {
		Email string `json:"email" validate:"required"`
	}

	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Email == "" {
		return BadRequestResponse(c, "Email is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return SuccessMessageResponse(c, "If the email is registered, a reset link has been sent", nil)
		}
		return InternalServerErrorResponse(c, "Failed to look up user", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return InternalServerErrorResponse(c, "Failed to generate reset token", err)
	}
	token := hex.EncodeToString(raw)
	tokenHash := hashResetToken(token)

	expires := time.Now().Add(1 * time.Hour)
	if err := h.userRepo.SetResetToken(ctx, user.ID, tokenHash, expires); err != nil {
		return InternalServerErrorResponse(c, "Failed to store reset token", err)
	}

	// No mail transport is wired up; the link is logged for the operator.
	log.Printf("[OK] Password reset requested for %s: /api/v1/auth/reset/%s", user.Email, token)

	return SuccessMessageResponse(c, "If the email is registered, a reset link has been sent", nil)
}

// CompletePasswordReset consumes a reset token and sets the new password.
// PUT /api/v1/auth/reset/:token
func (h *AuthHandler) CompletePasswordReset(c echo.Context) error {
	type completeRequest struct {
		Password string `json:"password" validate:"required,min=6"`
	}

	token := c.Param("token")
	if token == "" {
		return BadRequestResponse(c, "Reset token is required")
	}

	var req completeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if len(req.Password) < 6 {
		return BadRequestResponse(c, "Password must be at least 6 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByResetToken(ctx, hashResetToken(token))
	if err != nil {
		return UnauthorizedResponse(c, "Invalid or expired reset token")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to hash password", err)
	}

	if err := h.userRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return InternalServerErrorResponse(c, "Failed to update password", err)
	}

	return SuccessMessageResponse(c, "Password updated", nil)
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum)
}
