package http

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"copiersync/internal/domain"
	"copiersync/internal/usecase"
)

// PositionHandler serves position listings. Positions come straight from the
// copier on every request; nothing is mirrored locally.
type PositionHandler struct {
	syncService *usecase.SyncService
}

// NewPositionHandler creates a new PositionHandler
func NewPositionHandler(syncService *usecase.SyncService) *PositionHandler {
	return &PositionHandler{syncService: syncService}
}

// Open lists open positions.
// GET /api/v1/positions/open
func (h *PositionHandler) Open(c echo.Context) error {
	positions, err := h.syncService.OpenPositions(c.Request().Context(), positionFilter(c))
	if err != nil {
		return HandleError(c, err)
	}
	return SuccessResponse(c, positions)
}

// Closed lists closed positions.
// GET /api/v1/positions/closed
func (h *PositionHandler) Closed(c echo.Context) error {
	positions, err := h.syncService.ClosedPositions(c.Request().Context(), positionFilter(c))
	if err != nil {
		return HandleError(c, err)
	}
	return SuccessResponse(c, positions)
}

// positionFilter reads the optional narrowing parameters off the query
// string. Absent parameters stay nil and are omitted from the remote call.
func positionFilter(c echo.Context) domain.PositionFilter {
	return domain.PositionFilter{
		From:        c.QueryParam("from"),
		To:          c.QueryParam("to"),
		AccountType: intQueryParam(c, "account_type"),
		Start:       intQueryParam(c, "start"),
		Length:      intQueryParam(c, "length"),
		ShowOff:     intQueryParam(c, "show_off"),
	}
}

func intQueryParam(c echo.Context, name string) *int {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}
