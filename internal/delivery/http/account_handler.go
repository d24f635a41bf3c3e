package http

import (
	"github.com/labstack/echo/v4"

	"copiersync/internal/domain"
	"copiersync/internal/middleware"
	"copiersync/internal/usecase"
)

// AccountHandler handles account mirror requests
type AccountHandler struct {
	syncService *usecase.SyncService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(syncService *usecase.SyncService) *AccountHandler {
	return &AccountHandler{syncService: syncService}
}

// AccountRequest represents the writable account fields. Pointer fields
// distinguish "absent" from zero, so a request that omits a field never
// overwrites it remotely.
type AccountRequest struct {
	Type                  *int     `json:"type"`
	Name                  string   `json:"name"`
	Broker                string   `json:"broker"`
	MTVersion             string   `json:"mt_version"`
	Login                 string   `json:"login"`
	Password              string   `json:"password"`
	Server                string   `json:"server"`
	Environment           string   `json:"environment"`
	Status                *int     `json:"status"`
	Group                 string   `json:"group"`
	Subscription          string   `json:"subscription"`
	Pending               *int     `json:"pending"`
	StopLoss              *int     `json:"stop_loss"`
	TakeProfit            *int     `json:"take_profit"`
	AlertEmail            *int     `json:"alert_email"`
	AlertSMS              *int     `json:"alert_sms"`
	GlobalStopLoss        *int     `json:"globalstoploss"`
	GlobalStopLossValue   *float64 `json:"globalstoploss_value"`
	GlobalTakeProfit      *int     `json:"globaltakeprofit"`
	GlobalTakeProfitValue *float64 `json:"globaltakeprofit_value"`
}

func (r *AccountRequest) toParams() domain.AccountParams {
	return domain.AccountParams{
		Type:                  r.Type,
		Name:                  r.Name,
		Broker:                r.Broker,
		MTVersion:             r.MTVersion,
		Login:                 r.Login,
		Password:              r.Password,
		Server:                r.Server,
		Environment:           r.Environment,
		Status:                r.Status,
		Group:                 r.Group,
		Subscription:          r.Subscription,
		Pending:               r.Pending,
		StopLoss:              r.StopLoss,
		TakeProfit:            r.TakeProfit,
		AlertEmail:            r.AlertEmail,
		AlertSMS:              r.AlertSMS,
		GlobalStopLoss:        r.GlobalStopLoss,
		GlobalStopLossValue:   r.GlobalStopLossValue,
		GlobalTakeProfit:      r.GlobalTakeProfit,
		GlobalTakeProfitValue: r.GlobalTakeProfitValue,
	}
}

// List returns the caller's accounts, or all accounts for admins.
// GET /api/v1/accounts
func (h *AccountHandler) List(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	accounts, err := h.syncService.ListAccounts(c.Request().Context(), identity)
	if err != nil {
		return HandleError(c, err)
	}

	return SuccessResponse(c, accounts)
}

// Get returns one mirrored account.
// GET /api/v1/accounts/:accountID
func (h *AccountHandler) Get(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	account, err := h.syncService.GetAccount(c.Request().Context(), identity, c.Param("accountID"))
	if err != nil {
		return HandleError(c, err)
	}

	return SuccessResponse(c, account)
}

// Create registers a new account on the copier and mirrors it locally.
// POST /api/v1/accounts
func (h *AccountHandler) Create(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	account, err := h.syncService.CreateAccount(c.Request().Context(), identity, req.toParams())
	if err != nil {
		return HandleError(c, err)
	}

	return CreatedResponse(c, account)
}

// Update changes account fields remotely and refreshes the mirror.
// PUT /api/v1/accounts/:accountID
func (h *AccountHandler) Update(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	account, err := h.syncService.UpdateAccount(c.Request().Context(), identity, c.Param("accountID"), req.toParams())
	if err != nil {
		return HandleError(c, err)
	}

	return SuccessResponse(c, account)
}

// Delete removes the account remotely, then drops the mirror row.
// DELETE /api/v1/accounts/:accountID
func (h *AccountHandler) Delete(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	if err := h.syncService.DeleteAccount(c.Request().Context(), identity, c.Param("accountID")); err != nil {
		return HandleError(c, err)
	}

	return SuccessMessageResponse(c, "Account deleted", nil)
}

// Connect links an existing broker account to the copier cockpit.
// POST /api/v1/accounts/connect
func (h *AccountHandler) Connect(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	account, err := h.syncService.ConnectAccount(c.Request().Context(), identity, req.toParams())
	if err != nil {
		return HandleError(c, err)
	}

	return CreatedResponse(c, account)
}

// SetTradingStatus starts or stops copying for one account.
// PUT /api/v1/accounts/:accountID/trading-status
func (h *AccountHandler) SetTradingStatus(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	type statusRequest struct {
		Status string `json:"status" validate:"required"`
	}

	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if err := h.syncService.SetTradingStatus(c.Request().Context(), identity, c.Param("accountID"), req.Status); err != nil {
		return HandleError(c, err)
	}

	return SuccessMessageResponse(c, "Trading status updated", nil)
}

// ApplyStrategy assigns a copy strategy to one account.
// PUT /api/v1/accounts/:accountID/strategy
func (h *AccountHandler) ApplyStrategy(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	type strategyRequest struct {
		StrategyID string `json:"strategy_id" validate:"required"`
	}

	var req strategyRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.StrategyID == "" {
		return BadRequestResponse(c, "strategy_id is required")
	}

	if err := h.syncService.ApplyStrategy(c.Request().Context(), identity, c.Param("accountID"), req.StrategyID); err != nil {
		return HandleError(c, err)
	}

	return SuccessMessageResponse(c, "Strategy applied", nil)
}
