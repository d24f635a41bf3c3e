package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"copiersync/internal/domain"
)

const settingsColumns = `
	id_master, id_slave, id_group, risk_factor_value, risk_factor_type,
	order_side, max_order_size, min_order_size, copier_status, symbol_master,
	symbol, pending_order, stop_loss, stop_loss_fixed_value,
	stop_loss_fixed_format, stop_loss_min_value, stop_loss_min_format,
	stop_loss_max_value, stop_loss_max_format, take_profit,
	take_profit_fixed_value, take_profit_fixed_format, take_profit_min_value,
	take_profit_min_format, take_profit_max_value, take_profit_max_format,
	trailing_stop_value, trailing_stop_format, max_risk_value, max_risk_format,
	comment, max_slippage, max_delay, force_min_round_up, round_down,
	split_order, price_improvement, max_position_size_a, max_position_size_s,
	max_position_size_a_m, max_position_size_s_m, max_open_count_a,
	max_open_count_s, max_open_count_a_m, max_open_count_s_m,
	max_daily_order_count_a, max_daily_order_count_s,
	max_daily_order_count_a_m, max_daily_order_count_s_m, global_stop_loss,
	global_stop_loss_value, global_stop_loss_type, global_take_profit,
	global_take_profit_value, global_take_profit_type, updated_at
`

const (
	queryGetSettings = `SELECT` + settingsColumns + `FROM copier_settings
		WHERE id_master = $1 AND id_slave = $2 AND id_group = $3`
	queryListSettings = `SELECT` + settingsColumns + `FROM copier_settings ORDER BY id_master, id_slave, id_group`
)

// SettingsRepositoryImpl implements the SettingsRepository interface
type SettingsRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *pgxpool.Pool) domain.SettingsRepository {
	return &SettingsRepositoryImpl{db: db}
}

// Upsert writes settings keyed by (id_master, id_slave, id_group). The
// store's native atomic upsert resolves concurrent writes last-write-wins,
// so two calls with the same key leave exactly one row.
func (r *SettingsRepositoryImpl) Upsert(ctx context.Context, s *domain.CopySettings) error {
	query := `
		INSERT INTO copier_settings (` + settingsColumns + `)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
			$29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40, $41,
			$42, $43, $44, $45, $46, $47, $48, $49, $50, $51, $52, $53, $54,
			$55, NOW()
		)
		ON CONFLICT (id_master, id_slave, id_group) DO UPDATE SET
			risk_factor_value = EXCLUDED.risk_factor_value,
			risk_factor_type = EXCLUDED.risk_factor_type,
			order_side = EXCLUDED.order_side,
			max_order_size = EXCLUDED.max_order_size,
			min_order_size = EXCLUDED.min_order_size,
			copier_status = EXCLUDED.copier_status,
			symbol_master = EXCLUDED.symbol_master,
			symbol = EXCLUDED.symbol,
			pending_order = EXCLUDED.pending_order,
			stop_loss = EXCLUDED.stop_loss,
			stop_loss_fixed_value = EXCLUDED.stop_loss_fixed_value,
			stop_loss_fixed_format = EXCLUDED.stop_loss_fixed_format,
			stop_loss_min_value = EXCLUDED.stop_loss_min_value,
			stop_loss_min_format = EXCLUDED.stop_loss_min_format,
			stop_loss_max_value = EXCLUDED.stop_loss_max_value,
			stop_loss_max_format = EXCLUDED.stop_loss_max_format,
			take_profit = EXCLUDED.take_profit,
			take_profit_fixed_value = EXCLUDED.take_profit_fixed_value,
			take_profit_fixed_format = EXCLUDED.take_profit_fixed_format,
			take_profit_min_value = EXCLUDED.take_profit_min_value,
			take_profit_min_format = EXCLUDED.take_profit_min_format,
			take_profit_max_value = EXCLUDED.take_profit_max_value,
			take_profit_max_format = EXCLUDED.take_profit_max_format,
			trailing_stop_value = EXCLUDED.trailing_stop_value,
			trailing_stop_format = EXCLUDED.trailing_stop_format,
			max_risk_value = EXCLUDED.max_risk_value,
			max_risk_format = EXCLUDED.max_risk_format,
			comment = EXCLUDED.comment,
			max_slippage = EXCLUDED.max_slippage,
			max_delay = EXCLUDED.max_delay,
			force_min_round_up = EXCLUDED.force_min_round_up,
			round_down = EXCLUDED.round_down,
			split_order = EXCLUDED.split_order,
			price_improvement = EXCLUDED.price_improvement,
			max_position_size_a = EXCLUDED.max_position_size_a,
			max_position_size_s = EXCLUDED.max_position_size_s,
			max_position_size_a_m = EXCLUDED.max_position_size_a_m,
			max_position_size_s_m = EXCLUDED.max_position_size_s_m,
			max_open_count_a = EXCLUDED.max_open_count_a,
			max_open_count_s = EXCLUDED.max_open_count_s,
			max_open_count_a_m = EXCLUDED.max_open_count_a_m,
			max_open_count_s_m = EXCLUDED.max_open_count_s_m,
			max_daily_order_count_a = EXCLUDED.max_daily_order_count_a,
			max_daily_order_count_s = EXCLUDED.max_daily_order_count_s,
			max_daily_order_count_a_m = EXCLUDED.max_daily_order_count_a_m,
			max_daily_order_count_s_m = EXCLUDED.max_daily_order_count_s_m,
			global_stop_loss = EXCLUDED.global_stop_loss,
			global_stop_loss_value = EXCLUDED.global_stop_loss_value,
			global_stop_loss_type = EXCLUDED.global_stop_loss_type,
			global_take_profit = EXCLUDED.global_take_profit,
			global_take_profit_value = EXCLUDED.global_take_profit_value,
			global_take_profit_type = EXCLUDED.global_take_profit_type,
			updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		s.IDMaster, s.IDSlave, s.IDGroup,
		s.RiskFactorValue, s.RiskFactorType, s.OrderSide,
		s.MaxOrderSize, s.MinOrderSize, s.CopierStatus,
		s.SymbolMaster, s.Symbol, s.PendingOrder,
		s.StopLoss, s.StopLossFixedValue, s.StopLossFixedFormat,
		s.StopLossMinValue, s.StopLossMinFormat,
		s.StopLossMaxValue, s.StopLossMaxFormat,
		s.TakeProfit, s.TakeProfitFixedValue, s.TakeProfitFixedFormat,
		s.TakeProfitMinValue, s.TakeProfitMinFormat,
		s.TakeProfitMaxValue, s.TakeProfitMaxFormat,
		s.TrailingStopValue, s.TrailingStopFormat,
		s.MaxRiskValue, s.MaxRiskFormat, s.Comment,
		s.MaxSlippage, s.MaxDelay, s.ForceMinRoundUp, s.RoundDown,
		s.SplitOrder, s.PriceImprovement,
		s.MaxPositionSizeA, s.MaxPositionSizeS,
		s.MaxPositionSizeAM, s.MaxPositionSizeSM,
		s.MaxOpenCountA, s.MaxOpenCountS,
		s.MaxOpenCountAM, s.MaxOpenCountSM,
		s.MaxDailyOrderCountA, s.MaxDailyOrderCountS,
		s.MaxDailyOrderCountAM, s.MaxDailyOrderCountSM,
		s.GlobalStopLoss, s.GlobalStopLossValue, s.GlobalStopLossType,
		s.GlobalTakeProfit, s.GlobalTakeProfitValue, s.GlobalTakeProfitType,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert settings (%s,%s,%s): %w", s.IDMaster, s.IDSlave, s.IDGroup, err)
	}

	return nil
}

// Get retrieves one settings row by its composite key.
func (r *SettingsRepositoryImpl) Get(ctx context.Context, idMaster, idSlave, idGroup string) (*domain.CopySettings, error) {
	s, err := scanSettings(r.db.QueryRow(ctx, queryGetSettings, idMaster, idSlave, idGroup))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("settings (%s,%s,%s): %w", idMaster, idSlave, idGroup, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return s, nil
}

// List retrieves all stored settings rows.
func (r *SettingsRepositoryImpl) List(ctx context.Context) ([]*domain.CopySettings, error) {
	rows, err := r.db.Query(ctx, queryListSettings)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	var result []*domain.CopySettings
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settings: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settings: %w", err)
	}

	return result, nil
}

func scanSettings(row pgx.Row) (*domain.CopySettings, error) {
	s := &domain.CopySettings{}
	err := row.Scan(
		&s.IDMaster, &s.IDSlave, &s.IDGroup,
		&s.RiskFactorValue, &s.RiskFactorType, &s.OrderSide,
		&s.MaxOrderSize, &s.MinOrderSize, &s.CopierStatus,
		&s.SymbolMaster, &s.Symbol, &s.PendingOrder,
		&s.StopLoss, &s.StopLossFixedValue, &s.StopLossFixedFormat,
		&s.StopLossMinValue, &s.StopLossMinFormat,
		&s.StopLossMaxValue, &s.StopLossMaxFormat,
		&s.TakeProfit, &s.TakeProfitFixedValue, &s.TakeProfitFixedFormat,
		&s.TakeProfitMinValue, &s.TakeProfitMinFormat,
		&s.TakeProfitMaxValue, &s.TakeProfitMaxFormat,
		&s.TrailingStopValue, &s.TrailingStopFormat,
		&s.MaxRiskValue, &s.MaxRiskFormat, &s.Comment,
		&s.MaxSlippage, &s.MaxDelay, &s.ForceMinRoundUp, &s.RoundDown,
		&s.SplitOrder, &s.PriceImprovement,
		&s.MaxPositionSizeA, &s.MaxPositionSizeS,
		&s.MaxPositionSizeAM, &s.MaxPositionSizeSM,
		&s.MaxOpenCountA, &s.MaxOpenCountS,
		&s.MaxOpenCountAM, &s.MaxOpenCountSM,
		&s.MaxDailyOrderCountA, &s.MaxDailyOrderCountS,
		&s.MaxDailyOrderCountAM, &s.MaxDailyOrderCountSM,
		&s.GlobalStopLoss, &s.GlobalStopLossValue, &s.GlobalStopLossType,
		&s.GlobalTakeProfit, &s.GlobalTakeProfitValue, &s.GlobalTakeProfitType,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
