package http

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"copiersync/internal/domain"
	"copiersync/internal/middleware"
)

// BacktestHandler stores and lists user-owned backtest documents. The
// backend treats parameters and results as opaque JSON.
type BacktestHandler struct {
	backtestRepo domain.BacktestRepository
}

// NewBacktestHandler creates a new BacktestHandler
func NewBacktestHandler(backtestRepo domain.BacktestRepository) *BacktestHandler {
	return &BacktestHandler{backtestRepo: backtestRepo}
}

// Create stores a backtest for the caller.
// POST /api/v1/backtests
func (h *BacktestHandler) Create(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	type backtestRequest struct {
		Strategy   string          `json:"strategy" validate:"required"`
		Parameters json.RawMessage `json:"parameters"`
		Result     json.RawMessage `json:"result"`
	}

	var req backtestRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Strategy == "" {
		return BadRequestResponse(c, "strategy is required")
	}

	backtest := &domain.Backtest{
		ID:         uuid.New(),
		UserID:     identity.UserID,
		Strategy:   req.Strategy,
		Parameters: req.Parameters,
		Result:     req.Result,
		CreatedAt:  time.Now(),
	}

	if err := h.backtestRepo.Create(c.Request().Context(), backtest); err != nil {
		return HandleError(c, err)
	}

	return CreatedResponse(c, backtest)
}

// List returns the caller's backtests, newest first.
// GET /api/v1/backtests
func (h *BacktestHandler) List(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	backtests, err := h.backtestRepo.ListByUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return HandleError(c, err)
	}

	return SuccessResponse(c, backtests)
}
