package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copiersync/internal/domain"
)

func invokeMiddleware(t *testing.T, auth *Auth, authHeader string) (*httptest.ResponseRecorder, domain.Identity, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var identity domain.Identity
	handler := auth.Middleware(func(c echo.Context) error {
		var err error
		identity, err = GetIdentity(c)
		return err
	})

	return rec, identity, handler(c)
}

func TestAuth_TokenRoundTrip(t *testing.T) {
	auth := NewAuth("test-secret", time.Hour)
	userID := uuid.New()

	token, err := auth.GenerateToken(userID, domain.RoleAdmin)
	require.NoError(t, err)

	_, identity, err := invokeMiddleware(t, auth, "Bearer "+token)
	require.NoError(t, err)

	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, domain.RoleAdmin, identity.Role)
	assert.True(t, identity.IsAdmin())
}

func TestAuth_MissingCredential(t *testing.T) {
	auth := NewAuth("test-secret", time.Hour)

	_, _, err := invokeMiddleware(t, auth, "")
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, domain.ErrUnauthenticated.Error(), httpErr.Message)
}

func TestAuth_MalformedCredential(t *testing.T) {
	auth := NewAuth("test-secret", time.Hour)

	for name, header := range map[string]string{
		"no bearer scheme": "just-a-token",
		"wrong scheme":     "Basic dXNlcjpwYXNz",
		"garbage token":    "Bearer not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := invokeMiddleware(t, auth, header)
			require.Error(t, err)

			httpErr, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
			assert.Equal(t, domain.ErrInvalidCredential.Error(), httpErr.Message)
		})
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	auth := NewAuth("test-secret", -time.Minute)

	token, err := auth.GenerateToken(uuid.New(), domain.RoleUser)
	require.NoError(t, err)

	_, _, err = invokeMiddleware(t, auth, "Bearer "+token)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuth_WrongSecret(t *testing.T) {
	issuer := NewAuth("secret-one", time.Hour)
	verifier := NewAuth("secret-two", time.Hour)

	token, err := issuer.GenerateToken(uuid.New(), domain.RoleUser)
	require.NoError(t, err)

	_, _, err = invokeMiddleware(t, verifier, "Bearer "+token)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuth_AdminOnly(t *testing.T) {
	auth := NewAuth("test-secret", time.Hour)
	e := echo.New()

	run := func(identity interface{}) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if identity != nil {
			c.Set("identity", identity)
		}
		return auth.AdminOnly(func(c echo.Context) error { return nil })(c)
	}

	t.Run("admin passes", func(t *testing.T) {
		err := run(domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin})
		assert.NoError(t, err)
	})

	t.Run("user role is forbidden", func(t *testing.T) {
		err := run(domain.Identity{UserID: uuid.New(), Role: domain.RoleUser})
		require.Error(t, err)

		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
	})

	t.Run("no identity is unauthorized", func(t *testing.T) {
		err := run(nil)
		require.Error(t, err)

		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}
