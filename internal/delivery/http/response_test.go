package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copiersync/internal/domain"
)

// Every sentinel must map to exactly one status code, including when it
// arrives wrapped with call-site context.
func TestHandleError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrInvalidCredential, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrScheduling, http.StatusUnprocessableEntity},
		{domain.ErrRemoteRejected, http.StatusBadGateway},
		{domain.ErrShapeMismatch, http.StatusBadGateway},
		{domain.ErrRemoteUnreachable, http.StatusGatewayTimeout},
		{fmt.Errorf("some unexpected failure"), http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			wrapped := fmt.Errorf("account A1: %w", tc.err)
			require.NoError(t, HandleError(c, wrapped))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
