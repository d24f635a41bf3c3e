package domain

import "context"

// CopierGateway is the typed adapter to the remote trade-copier service.
// One operation per remote capability; the adapter owns credential
// attachment and response-shape normalization. Failures classify as
// ErrRemoteUnreachable, ErrRemoteRejected or ErrShapeMismatch and are never
// retried here; retry policy belongs to callers.
type CopierGateway interface {
	AddAccount(ctx context.Context, params AccountParams) (*RemoteAccount, error)
	UpdateAccount(ctx context.Context, accountID string, params AccountParams) (*RemoteAccount, error)
	DeleteAccount(ctx context.Context, accountID string) error
	ListAccounts(ctx context.Context, filter AccountFilter) ([]RemoteAccount, error)
	ConnectAccount(ctx context.Context, params AccountParams) (*RemoteAccount, error)
	SetTradingStatus(ctx context.Context, accountID, status string) error
	ApplyStrategy(ctx context.Context, accountID, strategyID string) error
	ListOpenPositions(ctx context.Context, filter PositionFilter) ([]RemotePosition, error)
	ListClosedPositions(ctx context.Context, filter PositionFilter) ([]RemotePosition, error)
	GetSettings(ctx context.Context, filter SettingsFilter) ([]CopySettings, error)
	SetSettings(ctx context.Context, params SetSettingsParams) error
	GetReporting(ctx context.Context, filter ReportFilter) ([]RemoteReportRow, error)
}

// AccountParams carries the writable account fields for add/update/connect
// calls. Pointer fields distinguish "not specified" from a meaningful zero;
// unset fields are omitted from the wire form, never sent as empty strings.
type AccountParams struct {
	Type                  *int
	Name                  string
	Broker                string
	MTVersion             string
	Login                 string
	Password              string
	Server                string
	Environment           string
	Status                *int
	Group                 string
	Subscription          string
	Pending               *int
	StopLoss              *int
	TakeProfit            *int
	AlertEmail            *int
	AlertSMS              *int
	GlobalStopLoss        *int
	GlobalStopLossValue   *float64
	GlobalTakeProfit      *int
	GlobalTakeProfitValue *float64
}

// AccountFilter narrows a remote account listing.
type AccountFilter struct {
	AccountID string
	Type      *int
	Status    *int
}

// PositionFilter narrows a remote position listing.
type PositionFilter struct {
	From        string
	To          string
	AccountType *int
	Start       *int
	Length      *int
	ShowOff     *int
}

// SettingsFilter narrows a remote copy-settings fetch. All fields optional.
type SettingsFilter struct {
	IDMaster string
	IDSlave  string
	IDGroup  string
}

// SetSettingsParams carries a copy-settings write. The composite key fields
// are required; everything else is optional and omitted when nil.
type SetSettingsParams struct {
	IDMaster string
	IDSlave  string
	IDGroup  string

	RiskFactorValue *float64
	RiskFactorType  *int
	OrderSide       *int
	MaxOrderSize    *float64
	MinOrderSize    *float64
	CopierStatus    *int
	SymbolMaster    string
	Symbol          string
	PendingOrder    *int

	StopLoss            *int
	StopLossFixedValue  *float64
	StopLossFixedFormat *int
	StopLossMinValue    *float64
	StopLossMinFormat   *int
	StopLossMaxValue    *float64
	StopLossMaxFormat   *int

	TakeProfit            *int
	TakeProfitFixedValue  *float64
	TakeProfitFixedFormat *int
	TakeProfitMinValue    *float64
	TakeProfitMinFormat   *int
	TakeProfitMaxValue    *float64
	TakeProfitMaxFormat   *int

	TrailingStopValue  *float64
	TrailingStopFormat *int
	MaxRiskValue       *float64
	MaxRiskFormat      *int
	Comment            string
	MaxSlippage        *float64
	MaxDelay           *float64
	ForceMinRoundUp    *int
	RoundDown          *int
	SplitOrder         *int
	PriceImprovement   *float64

	MaxPositionSizeA     *float64
	MaxPositionSizeS     *float64
	MaxPositionSizeAM    *float64
	MaxPositionSizeSM    *float64
	MaxOpenCountA        *int
	MaxOpenCountS        *int
	MaxOpenCountAM       *int
	MaxOpenCountSM       *int
	MaxDailyOrderCountA  *int
	MaxDailyOrderCountS  *int
	MaxDailyOrderCountAM *int
	MaxDailyOrderCountSM *int

	GlobalStopLoss        *int
	GlobalStopLossValue   *float64
	GlobalStopLossType    *int
	GlobalTakeProfit      *int
	GlobalTakeProfitValue *float64
	GlobalTakeProfitType  *int
}

// ReportFilter selects the reporting window. Month/Year select a calendar
// period; StartDate/EndDate select an explicit window (used by the daily
// job). AccountIDs narrows to specific accounts.
type ReportFilter struct {
	Month      *int
	Year       *int
	StartDate  string
	EndDate    string
	ReportType string
	AccountIDs []string
	Start      *int
	Length     *int
}

// RemoteAccount is the canonical account record extracted from a copier
// success payload, whatever envelope it arrived in.
type RemoteAccount struct {
	AccountID             string  `json:"account_id"`
	Type                  int     `json:"type"`
	Name                  string  `json:"name"`
	Broker                string  `json:"broker"`
	Login                 string  `json:"login"`
	Password              string  `json:"password"`
	Server                string  `json:"server"`
	Environment           string  `json:"environment"`
	Status                int     `json:"status"`
	Group                 string  `json:"group"`
	Subscription          string  `json:"subscription"`
	Pending               int     `json:"pending"`
	StopLoss              int     `json:"stop_loss"`
	TakeProfit            int     `json:"take_profit"`
	AlertEmail            int     `json:"alert_email"`
	AlertSMS              int     `json:"alert_sms"`
	GlobalStopLoss        int     `json:"globalstoploss"`
	GlobalStopLossValue   float64 `json:"globalstoploss_value"`
	GlobalTakeProfit      int     `json:"globaltakeprofit"`
	GlobalTakeProfitValue float64 `json:"globaltakeprofit_value"`
	Balance               float64 `json:"balance"`
	Currency              string  `json:"ccy"`
	LastUpdate            string  `json:"lastUpdate"`
}

// RemotePosition is one open or closed position row as reported by the
// copier. Positions are remote-authoritative and never stored locally.
type RemotePosition struct {
	Ticket     string  `json:"ticket"`
	AccountID  string  `json:"account_id"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	Lots       float64 `json:"lots"`
	OpenPrice  float64 `json:"open_price"`
	OpenTime   string  `json:"open_time"`
	ClosePrice float64 `json:"close_price"`
	CloseTime  string  `json:"close_time"`
	StopLoss   float64 `json:"sl"`
	TakeProfit float64 `json:"tp"`
	PnL        float64 `json:"pnl"`
	Comment    string  `json:"comment"`
}

// RemoteReportRow is one reporting row from the copier. Some deployments
// omit account_id and identify the row by login only; AccountKey resolves
// the reconciliation key either way.
type RemoteReportRow struct {
	AccountID         string  `json:"account_id"`
	Month             int     `json:"month"`
	Year              int     `json:"year"`
	Name              string  `json:"name"`
	Broker            string  `json:"broker"`
	Login             string  `json:"login"`
	Server            string  `json:"server"`
	Currency          string  `json:"currency"`
	HWM               float64 `json:"hwm"`
	BalanceStart      float64 `json:"balance_start"`
	DepositWithdrawal float64 `json:"deposit_withdrawal"`
	BalanceEnd        float64 `json:"balance_end"`
	PnL               float64 `json:"pnl"`
	Performance       float64 `json:"performance"`
	AccountStatus     int     `json:"accountStatus"`
	AccountType       int     `json:"accountType"`
}

// AccountKey returns the account identifier for the row, preferring the
// remote account_id over the broker login.
func (r *RemoteReportRow) AccountKey() string {
	if r.AccountID != "" {
		return r.AccountID
	}
	return r.Login
}
