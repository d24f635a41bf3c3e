package http

import (
	"github.com/labstack/echo/v4"

	"copiersync/internal/domain"
	"copiersync/internal/middleware"
	"copiersync/internal/usecase"
)

// SettingsHandler handles copy-settings mirror requests
type SettingsHandler struct {
	syncService  *usecase.SyncService
	settingsRepo domain.SettingsRepository
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(syncService *usecase.SyncService, settingsRepo domain.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{
		syncService:  syncService,
		settingsRepo: settingsRepo,
	}
}

// SettingsRequest represents a copy-settings write. The composite key fields
// are required; every other field is optional and omitted from the remote
// call when absent.
type SettingsRequest struct {
	IDMaster string `json:"id_master"`
	IDSlave  string `json:"id_slave"`
	IDGroup  string `json:"id_group"`

	RiskFactorValue *float64 `json:"risk_factor_value"`
	RiskFactorType  *int     `json:"risk_factor_type"`
	OrderSide       *int     `json:"order_side"`
	MaxOrderSize    *float64 `json:"max_order_size"`
	MinOrderSize    *float64 `json:"min_order_size"`
	CopierStatus    *int     `json:"copier_status"`
	SymbolMaster    string   `json:"symbol_master"`
	Symbol          string   `json:"symbol"`
	PendingOrder    *int     `json:"pending_order"`

	StopLoss            *int     `json:"stop_loss"`
	StopLossFixedValue  *float64 `json:"stop_loss_fixed_value"`
	StopLossFixedFormat *int     `json:"stop_loss_fixed_format"`
	StopLossMinValue    *float64 `json:"stop_loss_min_value"`
	StopLossMinFormat   *int     `json:"stop_loss_min_format"`
	StopLossMaxValue    *float64 `json:"stop_loss_max_value"`
	StopLossMaxFormat   *int     `json:"stop_loss_max_format"`

	TakeProfit            *int     `json:"take_profit"`
	TakeProfitFixedValue  *float64 `json:"take_profit_fixed_value"`
	TakeProfitFixedFormat *int     `json:"take_profit_fixed_format"`
	TakeProfitMinValue    *float64 `json:"take_profit_min_value"`
	TakeProfitMinFormat   *int     `json:"take_profit_min_format"`
	TakeProfitMaxValue    *float64 `json:"take_profit_max_value"`
	TakeProfitMaxFormat   *int     `json:"take_profit_max_format"`

	TrailingStopValue  *float64 `json:"trailing_stop_value"`
	TrailingStopFormat *int     `json:"trailing_stop_format"`
	MaxRiskValue       *float64 `json:"max_risk_value"`
	MaxRiskFormat      *int     `json:"max_risk_format"`
	Comment            string   `json:"comment"`
	MaxSlippage        *float64 `json:"max_slippage"`
	MaxDelay           *float64 `json:"max_delay"`
	ForceMinRoundUp    *int     `json:"force_min_round_up"`
	RoundDown          *int     `json:"round_down"`
	SplitOrder         *int     `json:"split_order"`
	PriceImprovement   *float64 `json:"price_improvement"`

	MaxPositionSizeA     *float64 `json:"max_position_size_a"`
	MaxPositionSizeS     *float64 `json:"max_position_size_s"`
	MaxPositionSizeAM    *float64 `json:"max_position_size_a_m"`
	MaxPositionSizeSM    *float64 `json:"max_position_size_s_m"`
	MaxOpenCountA        *int     `json:"max_open_count_a"`
	MaxOpenCountS        *int     `json:"max_open_count_s"`
	MaxOpenCountAM       *int     `json:"max_open_count_a_m"`
	MaxOpenCountSM       *int     `json:"max_open_count_s_m"`
	MaxDailyOrderCountA  *int     `json:"max_daily_order_count_a"`
	MaxDailyOrderCountS  *int     `json:"max_daily_order_count_s"`
	MaxDailyOrderCountAM *int     `json:"max_daily_order_count_a_m"`
	MaxDailyOrderCountSM *int     `json:"max_daily_order_count_s_m"`

	GlobalStopLoss        *int     `json:"globalstoploss"`
	GlobalStopLossValue   *float64 `json:"globalstoploss_value"`
	GlobalStopLossType    *int     `json:"globalstoploss_type"`
	GlobalTakeProfit      *int     `json:"globaltakeprofit"`
	GlobalTakeProfitValue *float64 `json:"globaltakeprofit_value"`
	GlobalTakeProfitType  *int     `json:"globaltakeprofit_type"`
}

func (r *SettingsRequest) toParams() domain.SetSettingsParams {
	return domain.SetSettingsParams{
		IDMaster: r.IDMaster,
		IDSlave:  r.IDSlave,
		IDGroup:  r.IDGroup,

		RiskFactorValue: r.RiskFactorValue,
		RiskFactorType:  r.RiskFactorType,
		OrderSide:       r.OrderSide,
		MaxOrderSize:    r.MaxOrderSize,
		MinOrderSize:    r.MinOrderSize,
		CopierStatus:    r.CopierStatus,
		SymbolMaster:    r.SymbolMaster,
		Symbol:          r.Symbol,
		PendingOrder:    r.PendingOrder,

		StopLoss:            r.StopLoss,
		StopLossFixedValue:  r.StopLossFixedValue,
		StopLossFixedFormat: r.StopLossFixedFormat,
		StopLossMinValue:    r.StopLossMinValue,
		StopLossMinFormat:   r.StopLossMinFormat,
		StopLossMaxValue:    r.StopLossMaxValue,
		StopLossMaxFormat:   r.StopLossMaxFormat,

		TakeProfit:            r.TakeProfit,
		TakeProfitFixedValue:  r.TakeProfitFixedValue,
		TakeProfitFixedFormat: r.TakeProfitFixedFormat,
		TakeProfitMinValue:    r.TakeProfitMinValue,
		TakeProfitMinFormat:   r.TakeProfitMinFormat,
		TakeProfitMaxValue:    r.TakeProfitMaxValue,
		TakeProfitMaxFormat:   r.TakeProfitMaxFormat,

		TrailingStopValue:  r.TrailingStopValue,
		TrailingStopFormat: r.TrailingStopFormat,
		MaxRiskValue:       r.MaxRiskValue,
		MaxRiskFormat:      r.MaxRiskFormat,
		Comment:            r.Comment,
		MaxSlippage:        r.MaxSlippage,
		MaxDelay:           r.MaxDelay,
		ForceMinRoundUp:    r.ForceMinRoundUp,
		RoundDown:          r.RoundDown,
		SplitOrder:         r.SplitOrder,
		PriceImprovement:   r.PriceImprovement,

		MaxPositionSizeA:     r.MaxPositionSizeA,
		MaxPositionSizeS:     r.MaxPositionSizeS,
		MaxPositionSizeAM:    r.MaxPositionSizeAM,
		MaxPositionSizeSM:    r.MaxPositionSizeSM,
		MaxOpenCountA:        r.MaxOpenCountA,
		MaxOpenCountS:        r.MaxOpenCountS,
		MaxOpenCountAM:       r.MaxOpenCountAM,
		MaxOpenCountSM:       r.MaxOpenCountSM,
		MaxDailyOrderCountA:  r.MaxDailyOrderCountA,
		MaxDailyOrderCountS:  r.MaxDailyOrderCountS,
		MaxDailyOrderCountAM: r.MaxDailyOrderCountAM,
		MaxDailyOrderCountSM: r.MaxDailyOrderCountSM,

		GlobalStopLoss:        r.GlobalStopLoss,
		GlobalStopLossValue:   r.GlobalStopLossValue,
		GlobalStopLossType:    r.GlobalStopLossType,
		GlobalTakeProfit:      r.GlobalTakeProfit,
		GlobalTakeProfitValue: r.GlobalTakeProfitValue,
		GlobalTakeProfitType:  r.GlobalTakeProfitType,
	}
}

// List returns all mirrored copy-settings rows.
// GET /api/v1/settings
func (h *SettingsHandler) List(c echo.Context) error {
	settings, err := h.settingsRepo.List(c.Request().Context())
	if err != nil {
		return HandleError(c, err)
	}
	return SuccessResponse(c, settings)
}

// Get returns one mirrored settings row by its composite key.
// GET /api/v1/settings/row?id_master=&id_slave=&id_group=
func (h *SettingsHandler) Get(c echo.Context) error {
	idMaster := c.QueryParam("id_master")
	idSlave := c.QueryParam("id_slave")
	if idMaster == "" || idSlave == "" {
		return BadRequestResponse(c, "id_master and id_slave are required")
	}

	settings, err := h.settingsRepo.Get(c.Request().Context(), idMaster, idSlave, c.QueryParam("id_group"))
	if err != nil {
		return HandleError(c, err)
	}
	return SuccessResponse(c, settings)
}

// Pull fetches settings from the copier and refreshes the local mirror.
// POST /api/v1/settings/pull
func (h *SettingsHandler) Pull(c echo.Context) error {
	filter := domain.SettingsFilter{
		IDMaster: c.QueryParam("id_master"),
		IDSlave:  c.QueryParam("id_slave"),
		IDGroup:  c.QueryParam("id_group"),
	}

	settings, err := h.syncService.PullSettings(c.Request().Context(), filter)
	if err != nil {
		return HandleError(c, err)
	}

	return SuccessMessageResponse(c, "Settings pulled", settings)
}

// Push writes a settings row on the copier and mirrors the remote result.
// PUT /api/v1/settings
func (h *SettingsHandler) Push(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	var req SettingsRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if err := h.syncService.PushSettings(c.Request().Context(), identity, req.toParams()); err != nil {
		return HandleError(c, err)
	}

	return SuccessMessageResponse(c, "Settings updated", nil)
}
