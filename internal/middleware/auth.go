package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"copiersync/internal/domain"
)

// JWTClaims represents the JWT token claims
type JWTClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// Auth issues and verifies access tokens. The signing secret and token
// lifetime are fixed at construction from configuration; nothing reads the
// environment after startup.
type Auth struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewAuth creates a new Auth
func NewAuth(secret string, tokenTTL time.Duration) *Auth {
	return &Auth{secret: []byte(secret), tokenTTL: tokenTTL}
}

// GenerateToken generates a new JWT token for a user
func (a *Auth) GenerateToken(userID uuid.UUID, role string) (string, error) {
	claims := &JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Middleware validates the JWT token and sets the caller identity on the
// request context. A missing credential and a malformed or expired one are
// reported as distinct conditions.
func (a *Auth) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrInvalidCredential.Error())
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.secret, nil
		})
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrInvalidCredential.Error())
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrInvalidCredential.Error())
		}

		c.Set("identity", domain.Identity{UserID: claims.UserID, Role: claims.Role})

		return next(c)
	}
}

// AdminOnly checks that the authenticated caller has the admin role.
func (a *Auth) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, ok := c.Get("identity").(domain.Identity)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
		}

		if !identity.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
		}

		return next(c)
	}
}

// GetIdentity extracts the caller identity from echo context
func GetIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := c.Get("identity").(domain.Identity)
	if !ok {
		return domain.Identity{}, fmt.Errorf("identity not found in context")
	}
	return identity, nil
}
