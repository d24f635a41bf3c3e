package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"copiersync/internal/domain"
)

// Response represents a standardized API response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// SuccessMessageResponse sends a success response with a message
func SuccessMessageResponse(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// CreatedResponse sends a 201 Created response
func CreatedResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Status: "success",
		Data:   data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c echo.Context, statusCode int, message string, err interface{}) error {
	return c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
		Error:   err,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message, nil)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusUnauthorized, message, nil)
}

// InternalServerErrorResponse sends a 500 Internal Server Error response
func InternalServerErrorResponse(c echo.Context, message string, err error) error {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	return ErrorResponse(c, http.StatusInternalServerError, message, errMsg)
}

// HandleError maps a domain error chain onto an HTTP status. This is the
// single place where wire status codes are chosen; everything below the
// delivery layer speaks sentinel errors only.
func HandleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidCredential):
		return ErrorResponse(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, domain.ErrForbidden):
		return ErrorResponse(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		return ErrorResponse(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrScheduling):
		return ErrorResponse(c, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, domain.ErrRemoteRejected), errors.Is(err, domain.ErrShapeMismatch):
		return ErrorResponse(c, http.StatusBadGateway, err.Error(), nil)
	case errors.Is(err, domain.ErrRemoteUnreachable):
		return ErrorResponse(c, http.StatusGatewayTimeout, err.Error(), nil)
	default:
		return InternalServerErrorResponse(c, "Internal server error", err)
	}
}
