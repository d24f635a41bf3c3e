package domain

import "time"

// CopySettings is one copy-relationship configuration between a master and a
// slave (and optional group). The composite key (IDMaster, IDSlave, IDGroup)
// uniquely identifies a row; the local copy is upserted from remote truth and
// is never independently authoritative.
type CopySettings struct {
	IDMaster string `json:"id_master"`
	IDSlave  string `json:"id_slave"`
	IDGroup  string `json:"id_group"`

	RiskFactorValue float64 `json:"risk_factor_value"`
	RiskFactorType  int     `json:"risk_factor_type"`
	OrderSide       int     `json:"order_side"`
	MaxOrderSize    float64 `json:"max_order_size"`
	MinOrderSize    float64 `json:"min_order_size"`
	CopierStatus    int     `json:"copier_status"`
	SymbolMaster    string  `json:"symbol_master"`
	Symbol          string  `json:"symbol"`
	PendingOrder    int     `json:"pending_order"`

	StopLoss            int     `json:"stop_loss"`
	StopLossFixedValue  float64 `json:"stop_loss_fixed_value"`
	StopLossFixedFormat int     `json:"stop_loss_fixed_format"`
	StopLossMinValue    float64 `json:"stop_loss_min_value"`
	StopLossMinFormat   int     `json:"stop_loss_min_format"`
	StopLossMaxValue    float64 `json:"stop_loss_max_value"`
	StopLossMaxFormat   int     `json:"stop_loss_max_format"`

	TakeProfit            int     `json:"take_profit"`
	TakeProfitFixedValue  float64 `json:"take_profit_fixed_value"`
	TakeProfitFixedFormat int     `json:"take_profit_fixed_format"`
	TakeProfitMinValue    float64 `json:"take_profit_min_value"`
	TakeProfitMinFormat   int     `json:"take_profit_min_format"`
	TakeProfitMaxValue    float64 `json:"take_profit_max_value"`
	TakeProfitMaxFormat   int     `json:"take_profit_max_format"`

	TrailingStopValue  float64 `json:"trailing_stop_value"`
	TrailingStopFormat int     `json:"trailing_stop_format"`
	MaxRiskValue       float64 `json:"max_risk_value"`
	MaxRiskFormat      int     `json:"max_risk_format"`
	Comment            string  `json:"comment"`
	MaxSlippage        float64 `json:"max_slippage"`
	MaxDelay           float64 `json:"max_delay"`
	ForceMinRoundUp    int     `json:"force_min_round_up"`
	RoundDown          int     `json:"round_down"`
	SplitOrder         int     `json:"split_order"`
	PriceImprovement   float64 `json:"price_improvement"`

	// Position/order caps split by account type (_a = all, _s = single)
	// with per-minute variants (_m).
	MaxPositionSizeA    float64 `json:"max_position_size_a"`
	MaxPositionSizeS    float64 `json:"max_position_size_s"`
	MaxPositionSizeAM   float64 `json:"max_position_size_a_m"`
	MaxPositionSizeSM   float64 `json:"max_position_size_s_m"`
	MaxOpenCountA       int     `json:"max_open_count_a"`
	MaxOpenCountS       int     `json:"max_open_count_s"`
	MaxOpenCountAM      int     `json:"max_open_count_a_m"`
	MaxOpenCountSM      int     `json:"max_open_count_s_m"`
	MaxDailyOrderCountA int     `json:"max_daily_order_count_a"`
	MaxDailyOrderCountS int     `json:"max_daily_order_count_s"`
	MaxDailyOrderCountAM int    `json:"max_daily_order_count_a_m"`
	MaxDailyOrderCountSM int    `json:"max_daily_order_count_s_m"`

	GlobalStopLoss        int     `json:"global_stop_loss"`
	GlobalStopLossValue   float64 `json:"global_stop_loss_value"`
	GlobalStopLossType    int     `json:"global_stop_loss_type"`
	GlobalTakeProfit      int     `json:"global_take_profit"`
	GlobalTakeProfitValue float64 `json:"global_take_profit_value"`
	GlobalTakeProfitType  int     `json:"global_take_profit_type"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the composite natural key used for upserts.
func (s *CopySettings) Key() (string, string, string) {
	return s.IDMaster, s.IDSlave, s.IDGroup
}
