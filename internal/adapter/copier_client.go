package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"copiersync/internal/domain"
)

// Duplikium webservice capability paths, relative to the configured base URL.
const (
	pathAddAccount         = "account/addAccount.php"
	pathUpdateAccount      = "account/updateAccount.php"
	pathDeleteAccount      = "account/deleteAccount.php"
	pathGetAccounts        = "account/getAccounts.php"
	pathConnectAccount     = "account/connectAccount.php"
	pathSetAccountSettings = "account/setSettings.php"
	pathSetStrategy        = "account/setStrategy.php"
	pathGetOpenPositions   = "position/getOpenPositions.php"
	pathGetClosedPositions = "position/getClosedPositions.php"
	pathGetSettings        = "settings/getSettings.php"
	pathSetSettings        = "settings/setSettings.php"
	pathGetReporting       = "reporting/getReporting.php"
)

// CopierClient implements domain.CopierGateway against the trade-copier
// webservice. Every call is a form-encoded POST carrying the two static
// auth headers; unset parameters are omitted from the form entirely.
type CopierClient struct {
	baseURL      string
	authUsername string
	authToken    string
	httpClient   *http.Client
}

// NewCopierClient creates a gateway bound to one set of copier credentials.
// The timeout bounds every remote call; expiry classifies as
// ErrRemoteUnreachable.
func NewCopierClient(baseURL, authUsername, authToken string, timeout time.Duration) domain.CopierGateway {
	return &CopierClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		authUsername: authUsername,
		authToken:    authToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// envelope covers every success wrapper the copier is known to use. The
// service wraps equivalent data inconsistently, so extraction happens here
// once, centrally, instead of ad hoc probing at call sites.
type envelope struct {
	Error    string                   `json:"error"`
	Account  *domain.RemoteAccount    `json:"account"`
	Accounts []domain.RemoteAccount   `json:"accounts"`
	Details  *envelopeDetails         `json:"details"`
	Settings []domain.CopySettings    `json:"settings"`
	Reports  []domain.RemoteReportRow `json:"reporting"`
	Data     []domain.RemotePosition  `json:"data"`
}

type envelopeDetails struct {
	Account *domain.RemoteAccount `json:"account"`
}

// postForm executes one capability call and decodes the response envelope.
// Transport failures (including timeouts) classify as ErrRemoteUnreachable;
// a remote-declared error field classifies as ErrRemoteRejected.
func (c *CopierClient) postForm(ctx context.Context, path string, form url.Values) (*envelope, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", path, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Auth-Username", c.authUsername)
	req.Header.Set("Auth-Token", c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRemoteUnreachable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s returned status %d: %s", domain.ErrRemoteRejected, path, resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrShapeMismatch, path, err)
	}

	if env.Error != "" {
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrRemoteRejected, path, env.Error)
	}

	return &env, nil
}

// singleAccount extracts the one canonical account record from whichever
// envelope shape the copier used: {account}, {details:{account}} or
// {accounts:[...]}.
func (env *envelope) singleAccount(path string) (*domain.RemoteAccount, error) {
	switch {
	case env.Account != nil:
		return env.Account, nil
	case env.Details != nil && env.Details.Account != nil:
		return env.Details.Account, nil
	case len(env.Accounts) > 0:
		return &env.Accounts[0], nil
	}
	return nil, fmt.Errorf("%w: %s: no account in payload", domain.ErrShapeMismatch, path)
}

// AddAccount registers a new account with the copier.
func (c *CopierClient) AddAccount(ctx context.Context, params domain.AccountParams) (*domain.RemoteAccount, error) {
	env, err := c.postForm(ctx, pathAddAccount, accountForm(params))
	if err != nil {
		return nil, err
	}
	return env.singleAccount(pathAddAccount)
}

// UpdateAccount changes writable fields of an existing copier account.
func (c *CopierClient) UpdateAccount(ctx context.Context, accountID string, params domain.AccountParams) (*domain.RemoteAccount, error) {
	form := accountForm(params)
	form.Set("account_id", accountID)
	env, err := c.postForm(ctx, pathUpdateAccount, form)
	if err != nil {
		return nil, err
	}
	return env.singleAccount(pathUpdateAccount)
}

// DeleteAccount removes an account from the copier.
func (c *CopierClient) DeleteAccount(ctx context.Context, accountID string) error {
	form := url.Values{}
	form.Set("account_id", accountID)
	_, err := c.postForm(ctx, pathDeleteAccount, form)
	return err
}

// ListAccounts fetches the authoritative account list from the copier.
func (c *CopierClient) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.RemoteAccount, error) {
	form := url.Values{}
	setString(form, "account_id", filter.AccountID)
	setInt(form, "type", filter.Type)
	setInt(form, "status", filter.Status)

	env, err := c.postForm(ctx, pathGetAccounts, form)
	if err != nil {
		return nil, err
	}
	if env.Accounts != nil {
		return env.Accounts, nil
	}
	if env.Account != nil {
		return []domain.RemoteAccount{*env.Account}, nil
	}
	return nil, fmt.Errorf("%w: %s: no accounts in payload", domain.ErrShapeMismatch, pathGetAccounts)
}

// ConnectAccount links an existing broker account to the copier cockpit.
func (c *CopierClient) ConnectAccount(ctx context.Context, params domain.AccountParams) (*domain.RemoteAccount, error) {
	env, err := c.postForm(ctx, pathConnectAccount, accountForm(params))
	if err != nil {
		return nil, err
	}
	return env.singleAccount(pathConnectAccount)
}

// SetTradingStatus starts or stops copying for one account.
func (c *CopierClient) SetTradingStatus(ctx context.Context, accountID, status string) error {
	form := url.Values{}
	form.Set("account_id", accountID)
	form.Set("trading_status", status)
	_, err := c.postForm(ctx, pathSetAccountSettings, form)
	return err
}

// ApplyStrategy assigns a copy strategy to an account.
func (c *CopierClient) ApplyStrategy(ctx context.Context, accountID, strategyID string) error {
	form := url.Values{}
	form.Set("account_id", accountID)
	form.Set("strategy_id", strategyID)
	_, err := c.postForm(ctx, pathSetStrategy, form)
	return err
}

// ListOpenPositions fetches open positions matching the filter.
func (c *CopierClient) ListOpenPositions(ctx context.Context, filter domain.PositionFilter) ([]domain.RemotePosition, error) {
	return c.listPositions(ctx, pathGetOpenPositions, filter)
}

// ListClosedPositions fetches closed positions matching the filter.
func (c *CopierClient) ListClosedPositions(ctx context.Context, filter domain.PositionFilter) ([]domain.RemotePosition, error) {
	return c.listPositions(ctx, pathGetClosedPositions, filter)
}

func (c *CopierClient) listPositions(ctx context.Context, path string, filter domain.PositionFilter) ([]domain.RemotePosition, error) {
	form := url.Values{}
	setString(form, "from", filter.From)
	setString(form, "to", filter.To)
	setInt(form, "account_type", filter.AccountType)
	setInt(form, "start", filter.Start)
	setInt(form, "length", filter.Length)
	setInt(form, "show_off", filter.ShowOff)

	env, err := c.postForm(ctx, path, form)
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("%w: %s: no position data in payload", domain.ErrShapeMismatch, path)
	}
	return env.Data, nil
}

// GetSettings fetches copy-settings rows matching the filter.
func (c *CopierClient) GetSettings(ctx context.Context, filter domain.SettingsFilter) ([]domain.CopySettings, error) {
	form := url.Values{}
	setString(form, "id_master", filter.IDMaster)
	setString(form, "id_slave", filter.IDSlave)
	setString(form, "id_group", filter.IDGroup)

	env, err := c.postForm(ctx, pathGetSettings, form)
	if err != nil {
		return nil, err
	}
	if env.Settings == nil {
		return nil, fmt.Errorf("%w: %s: no settings in payload", domain.ErrShapeMismatch, pathGetSettings)
	}
	return env.Settings, nil
}

// SetSettings writes a copy-settings row on the copier.
func (c *CopierClient) SetSettings(ctx context.Context, params domain.SetSettingsParams) error {
	_, err := c.postForm(ctx, pathSetSettings, settingsForm(params))
	return err
}

// GetReporting fetches performance report rows for the filter window.
func (c *CopierClient) GetReporting(ctx context.Context, filter domain.ReportFilter) ([]domain.RemoteReportRow, error) {
	form := url.Values{}
	setInt(form, "month", filter.Month)
	setInt(form, "year", filter.Year)
	setString(form, "start_date", filter.StartDate)
	setString(form, "end_date", filter.EndDate)
	setString(form, "report_type", filter.ReportType)
	setInt(form, "start", filter.Start)
	setInt(form, "length", filter.Length)
	if len(filter.AccountIDs) > 0 {
		form.Set("account_id", strings.Join(filter.AccountIDs, ","))
	}

	env, err := c.postForm(ctx, pathGetReporting, form)
	if err != nil {
		return nil, err
	}
	if env.Reports == nil {
		return nil, fmt.Errorf("%w: %s: no reporting rows in payload", domain.ErrShapeMismatch, pathGetReporting)
	}
	return env.Reports, nil
}

// accountForm encodes AccountParams, omitting unset fields.
func accountForm(params domain.AccountParams) url.Values {
	form := url.Values{}
	setInt(form, "type", params.Type)
	setString(form, "name", params.Name)
	setString(form, "broker", params.Broker)
	setString(form, "mt_version", params.MTVersion)
	setString(form, "login", params.Login)
	setString(form, "password", params.Password)
	setString(form, "server", params.Server)
	setString(form, "environment", params.Environment)
	setInt(form, "status", params.Status)
	setString(form, "group", params.Group)
	setString(form, "subscription", params.Subscription)
	setInt(form, "pending", params.Pending)
	setInt(form, "stop_loss", params.StopLoss)
	setInt(form, "take_profit", params.TakeProfit)
	setInt(form, "alert_email", params.AlertEmail)
	setInt(form, "alert_sms", params.AlertSMS)
	setInt(form, "globalstoploss", params.GlobalStopLoss)
	setFloat(form, "globalstoploss_value", params.GlobalStopLossValue)
	setInt(form, "globaltakeprofit", params.GlobalTakeProfit)
	setFloat(form, "globaltakeprofit_value", params.GlobalTakeProfitValue)
	return form
}

// settingsForm encodes SetSettingsParams, omitting unset fields. The
// composite key is always sent.
func settingsForm(p domain.SetSettingsParams) url.Values {
	form := url.Values{}
	form.Set("id_master", p.IDMaster)
	form.Set("id_slave", p.IDSlave)
	setString(form, "id_group", p.IDGroup)

	setFloat(form, "risk_factor_value", p.RiskFactorValue)
	setInt(form, "risk_factor_type", p.RiskFactorType)
	setInt(form, "order_side", p.OrderSide)
	setFloat(form, "max_order_size", p.MaxOrderSize)
	setFloat(form, "min_order_size", p.MinOrderSize)
	setInt(form, "copier_status", p.CopierStatus)
	setString(form, "symbol_master", p.SymbolMaster)
	setString(form, "symbol", p.Symbol)
	setInt(form, "pending_order", p.PendingOrder)

	setInt(form, "stop_loss", p.StopLoss)
	setFloat(form, "stop_loss_fixed_value", p.StopLossFixedValue)
	setInt(form, "stop_loss_fixed_format", p.StopLossFixedFormat)
	setFloat(form, "stop_loss_min_value", p.StopLossMinValue)
	setInt(form, "stop_loss_min_format", p.StopLossMinFormat)
	setFloat(form, "stop_loss_max_value", p.StopLossMaxValue)
	setInt(form, "stop_loss_max_format", p.StopLossMaxFormat)

	setInt(form, "take_profit", p.TakeProfit)
	setFloat(form, "take_profit_fixed_value", p.TakeProfitFixedValue)
	setInt(form, "take_profit_fixed_format", p.TakeProfitFixedFormat)
	setFloat(form, "take_profit_min_value", p.TakeProfitMinValue)
	setInt(form, "take_profit_min_format", p.TakeProfitMinFormat)
	setFloat(form, "take_profit_max_value", p.TakeProfitMaxValue)
	setInt(form, "take_profit_max_format", p.TakeProfitMaxFormat)

	setFloat(form, "trailing_stop_value", p.TrailingStopValue)
	setInt(form, "trailing_stop_format", p.TrailingStopFormat)
	setFloat(form, "max_risk_value", p.MaxRiskValue)
	setInt(form, "max_risk_format", p.MaxRiskFormat)
	setString(form, "comment", p.Comment)
	setFloat(form, "max_slippage", p.MaxSlippage)
	setFloat(form, "max_delay", p.MaxDelay)
	setInt(form, "force_min_round_up", p.ForceMinRoundUp)
	setInt(form, "round_down", p.RoundDown)
	setInt(form, "split_order", p.SplitOrder)
	setFloat(form, "price_improvement", p.PriceImprovement)

	setFloat(form, "max_position_size_a", p.MaxPositionSizeA)
	setFloat(form, "max_position_size_s", p.MaxPositionSizeS)
	setFloat(form, "max_position_size_a_m", p.MaxPositionSizeAM)
	setFloat(form, "max_position_size_s_m", p.MaxPositionSizeSM)
	setInt(form, "max_open_count_a", p.MaxOpenCountA)
	setInt(form, "max_open_count_s", p.MaxOpenCountS)
	setInt(form, "max_open_count_a_m", p.MaxOpenCountAM)
	setInt(form, "max_open_count_s_m", p.MaxOpenCountSM)
	setInt(form, "max_daily_order_count_a", p.MaxDailyOrderCountA)
	setInt(form, "max_daily_order_count_s", p.MaxDailyOrderCountS)
	setInt(form, "max_daily_order_count_a_m", p.MaxDailyOrderCountAM)
	setInt(form, "max_daily_order_count_s_m", p.MaxDailyOrderCountSM)

	setInt(form, "global_stop_loss", p.GlobalStopLoss)
	setFloat(form, "global_stop_loss_value", p.GlobalStopLossValue)
	setInt(form, "global_stop_loss_type", p.GlobalStopLossType)
	setInt(form, "global_take_profit", p.GlobalTakeProfit)
	setFloat(form, "global_take_profit_value", p.GlobalTakeProfitValue)
	setInt(form, "global_take_profit_type", p.GlobalTakeProfitType)
	return form
}

// Form helpers: the wire contract is omission, not coercion. A nil pointer
// or empty string means "field not specified" and produces no key at all.

func setString(form url.Values, key, value string) {
	if value != "" {
		form.Set(key, value)
	}
}

func setInt(form url.Values, key string, value *int) {
	if value != nil {
		form.Set(key, strconv.Itoa(*value))
	}
}

func setFloat(form url.Values, key string, value *float64) {
	if value != nil {
		form.Set(key, strconv.FormatFloat(*value, 'f', -1, 64))
	}
}
