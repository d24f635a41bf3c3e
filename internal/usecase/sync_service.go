package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"copiersync/internal/domain"
)

// SyncService is the synchronization engine. It keeps the local store
// consistent with the remote copier via idempotent reconciliation, under two
// triggers: direct user-initiated calls and scheduled batch jobs.
//
// Mutation ordering is remote-first: the remote call must succeed before any
// local write happens, so a rejected or unreachable remote never leaves
// partial local state. Ownership is checked before the remote call is even
// issued, so non-owners cannot exercise remote mutation capability.
type SyncService struct {
	gateway      domain.CopierGateway
	accountRepo  domain.AccountRepository
	settingsRepo domain.SettingsRepository
	reportRepo   domain.ReportRepository
	activityRepo domain.ActivityLogRepository
}

// NewSyncService creates a new SyncService
func NewSyncService(
	gateway domain.CopierGateway,
	accountRepo domain.AccountRepository,
	settingsRepo domain.SettingsRepository,
	reportRepo domain.ReportRepository,
	activityRepo domain.ActivityLogRepository,
) *SyncService {
	return &SyncService{
		gateway:      gateway,
		accountRepo:  accountRepo,
		settingsRepo: settingsRepo,
		reportRepo:   reportRepo,
		activityRepo: activityRepo,
	}
}

// CreateAccount registers an account with the copier and, only on remote
// success, mirrors it locally with the caller as owner.
func (s *SyncService) CreateAccount(ctx context.Context, caller domain.Identity, params domain.AccountParams) (*domain.Account, error) {
	if params.Broker == "" || params.Login == "" || params.Server == "" {
		return nil, fmt.Errorf("%w: broker, login and server are required", domain.ErrValidation)
	}

	remote, err := s.gateway.AddAccount(ctx, params)
	if err != nil {
		return nil, err
	}

	account := accountFromRemote(remote)
	account.UserID = caller.UserID
	if account.Broker == "" {
		account.Broker = params.Broker
	}

	if err := s.accountRepo.Upsert(ctx, account); err != nil {
		return nil, fmt.Errorf("account %s created remotely but local mirror failed: %w", account.AccountID, err)
	}

	s.logActivity(ctx, caller.UserID.String(), fmt.Sprintf("account %s created", account.AccountID))
	return account, nil
}

// UpdateAccount changes account fields remotely and refreshes the local
// mirror. The caller must own the account or hold the admin role; the check
// happens before the remote call.
func (s *SyncService) UpdateAccount(ctx context.Context, caller domain.Identity, accountID string, params domain.AccountParams) (*domain.Account, error) {
	existing, err := s.accountRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := ownershipGate(caller, existing); err != nil {
		return nil, err
	}

	remote, err := s.gateway.UpdateAccount(ctx, accountID, params)
	if err != nil {
		return nil, err
	}

	account := accountFromRemote(remote)
	if account.AccountID == "" {
		account.AccountID = accountID
	}
	account.UserID = existing.UserID

	if err := s.accountRepo.Upsert(ctx, account); err != nil {
		return nil, fmt.Errorf("account %s updated remotely but local mirror failed: %w", accountID, err)
	}

	s.logActivity(ctx, caller.UserID.String(), fmt.Sprintf("account %s updated", accountID))
	return account, nil
}

// DeleteAccount removes the account from the copier and then drops the
// local mirror row. Remote failure leaves the local row untouched.
func (s *SyncService) DeleteAccount(ctx context.Context, caller domain.Identity, accountID string) error {
	existing, err := s.accountRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := ownershipGate(caller, existing); err != nil {
		return err
	}

	if err := s.gateway.DeleteAccount(ctx, accountID); err != nil {
		return err
	}

	if err := s.accountRepo.Delete(ctx, accountID); err != nil {
		return fmt.Errorf("account %s deleted remotely but local mirror removal failed: %w", accountID, err)
	}

	s.logActivity(ctx, caller.UserID.String(), fmt.Sprintf("account %s deleted", accountID))
	return nil
}

// ConnectAccount links an existing broker account to the copier cockpit and
// mirrors the result locally owned by the caller.
func (s *SyncService) ConnectAccount(ctx context.Context, caller domain.Identity, params domain.AccountParams) (*domain.Account, error) {
	remote, err := s.gateway.ConnectAccount(ctx, params)
	if err != nil {
		return nil, err
	}

	account := accountFromRemote(remote)
	account.UserID = caller.UserID

	if err := s.accountRepo.Upsert(ctx, account); err != nil {
		return nil, fmt.Errorf("account %s connected remotely but local mirror failed: %w", account.AccountID, err)
	}

	s.logActivity(ctx, caller.UserID.String(), fmt.Sprintf("account %s connected", account.AccountID))
	return account, nil
}

// SetTradingStatus starts or stops copying for one owned account.
func (s *SyncService) SetTradingStatus(ctx context.Context, caller domain.Identity, accountID, status string) error {
	if status != domain.TradingStatusStart && status != domain.TradingStatusStop {
		return fmt.Errorf("%w: trading status must be %q or %q", domain.ErrValidation, domain.TradingStatusStart, domain.TradingStatusStop)
	}

	existing, err := s.accountRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := ownershipGate(caller, existing); err != nil {
		return err
	}

	if err := s.gateway.SetTradingStatus(ctx, accountID, status); err != nil {
		return err
	}

	s.logActivity(ctx, caller.UserID.String(), fmt.Sprintf("account %s trading %s", accountID, status))
	return nil
}

// ApplyStrategy assigns a copy strategy to one owned account.
func (s *SyncService) ApplyStrategy(ctx context.Context, caller domain.Identity, accountID, strategyID string) error {
	existing, err := s.accountRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := ownershipGate(caller, existing); err != nil {
		return err
	}

	if err := s.gateway.ApplyStrategy(ctx, accountID, strategyID); err != nil {
		return err
	}

	s.logActivity(ctx, caller.UserID.String(), fmt.Sprintf("strategy %s applied to account %s", strategyID, accountID))
	return nil
}

// ListAccounts returns the caller's accounts, or every account for admins.
func (s *SyncService) ListAccounts(ctx context.Context, caller domain.Identity) ([]*domain.Account, error) {
	if caller.IsAdmin() {
		return s.accountRepo.ListAll(ctx)
	}
	return s.accountRepo.ListByUser(ctx, caller.UserID)
}

// GetAccount returns one account after an ownership check.
func (s *SyncService) GetAccount(ctx context.Context, caller domain.Identity, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := ownershipGate(caller, account); err != nil {
		return nil, err
	}
	return account, nil
}

// SyncAccounts pulls the authoritative account list from the copier and
// upserts every row into the local store. Existing owner references are
// preserved by the store's upsert. Admin only.
func (s *SyncService) SyncAccounts(ctx context.Context, caller domain.Identity, filter domain.AccountFilter) (int, error) {
	if !caller.IsAdmin() {
		return 0, fmt.Errorf("%w: account reconciliation requires the admin role", domain.ErrForbidden)
	}

	remotes, err := s.gateway.ListAccounts(ctx, filter)
	if err != nil {
		return 0, err
	}

	synced := 0
	for i := range remotes {
		account := accountFromRemote(&remotes[i])
		if account.AccountID == "" {
			log.Printf("WARNING: Skipping remote account without account_id (login=%s)", account.Login)
			continue
		}
		if err := s.accountRepo.Upsert(ctx, account); err != nil {
			return synced, fmt.Errorf("failed to reconcile account %s: %w", account.AccountID, err)
		}
		synced++
	}

	log.Printf("[OK] Reconciled %d account(s) from copier", synced)
	return synced, nil
}

// PullSettings fetches copy-settings rows from the copier and upserts each
// into the local store keyed by (id_master, id_slave, id_group). Applying
// the same snapshot twice yields identical stored state.
func (s *SyncService) PullSettings(ctx context.Context, filter domain.SettingsFilter) ([]domain.CopySettings, error) {
	settings, err := s.gateway.GetSettings(ctx, filter)
	if err != nil {
		return nil, err
	}

	for i := range settings {
		if err := s.settingsRepo.Upsert(ctx, &settings[i]); err != nil {
			return nil, fmt.Errorf("failed to mirror settings row: %w", err)
		}
	}

	return settings, nil
}

// PushSettings writes a copy-settings row on the copier, then re-fetches
// that key so the local mirror reflects remote truth rather than the raw
// request. The remote stays authoritative end to end.
func (s *SyncService) PushSettings(ctx context.Context, caller domain.Identity, params domain.SetSettingsParams) error {
	if params.IDMaster == "" || params.IDSlave == "" {
		return fmt.Errorf("%w: id_master and id_slave are required", domain.ErrValidation)
	}

	if err := s.gateway.SetSettings(ctx, params); err != nil {
		return err
	}

	refreshed, err := s.gateway.GetSettings(ctx, domain.SettingsFilter{
		IDMaster: params.IDMaster,
		IDSlave:  params.IDSlave,
		IDGroup:  params.IDGroup,
	})
	if err != nil {
		// The remote write succeeded; a failed read-back only delays the
		// mirror until the next reconciliation.
		log.Printf("WARNING: settings pushed but read-back failed for (%s,%s,%s): %v",
			params.IDMaster, params.IDSlave, params.IDGroup, err)
		return nil
	}

	for i := range refreshed {
		if err := s.settingsRepo.Upsert(ctx, &refreshed[i]); err != nil {
			return fmt.Errorf("failed to mirror settings row: %w", err)
		}
	}

	s.logActivity(ctx, caller.UserID.String(),
		fmt.Sprintf("copy settings updated for (%s,%s,%s)", params.IDMaster, params.IDSlave, params.IDGroup))
	return nil
}

// GenerateReport fetches reporting rows for the filter window and persists
// each as a new immutable report document. Existing reports are never
// touched; repeated generation for the same period appends history.
func (s *SyncService) GenerateReport(ctx context.Context, actor string, filter domain.ReportFilter) ([]*domain.Report, error) {
	rows, err := s.gateway.GetReporting(ctx, filter)
	if err != nil {
		return nil, err
	}

	reports := make([]*domain.Report, 0, len(rows))
	for i := range rows {
		report := reportFromRow(&rows[i], actor)
		if err := s.reportRepo.Insert(ctx, report); err != nil {
			return reports, fmt.Errorf("failed to persist report for account %s: %w", report.AccountID, err)
		}
		reports = append(reports, report)
	}

	return reports, nil
}

// ListReports returns the stored report history for one account after an
// ownership check.
func (s *SyncService) ListReports(ctx context.Context, caller domain.Identity, accountID string) ([]*domain.Report, error) {
	account, err := s.accountRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := ownershipGate(caller, account); err != nil {
		return nil, err
	}
	return s.reportRepo.ListByAccount(ctx, accountID)
}

// OpenPositions lists open positions straight from the copier. Positions
// are remote-authoritative and never mirrored.
func (s *SyncService) OpenPositions(ctx context.Context, filter domain.PositionFilter) ([]domain.RemotePosition, error) {
	return s.gateway.ListOpenPositions(ctx, filter)
}

// ClosedPositions lists closed positions straight from the copier.
func (s *SyncService) ClosedPositions(ctx context.Context, filter domain.PositionFilter) ([]domain.RemotePosition, error) {
	return s.gateway.ListClosedPositions(ctx, filter)
}

// OwnsAccount reports whether the account still exists and is owned by the
// given user. Used by recurring per-account jobs to re-validate ownership
// on every firing.
func (s *SyncService) OwnsAccount(ctx context.Context, userID uuid.UUID, accountID string) (bool, error) {
	account, err := s.accountRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return false, err
	}
	return account.UserID == userID, nil
}

// AllAccounts returns every stored account for scheduled batch jobs.
func (s *SyncService) AllAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.accountRepo.ListAll(ctx)
}

// LogActivity appends an audit record for an arbitrary actor, including the
// system actor used by scheduled jobs.
func (s *SyncService) LogActivity(ctx context.Context, actor, action string) {
	s.logActivity(ctx, actor, action)
}

// ownershipGate rejects callers who neither own the record nor hold the
// admin role. It runs before any remote call so a mismatch causes no side
// effects.
func ownershipGate(caller domain.Identity, account *domain.Account) error {
	if caller.IsAdmin() {
		return nil
	}
	if account.UserID != caller.UserID {
		return fmt.Errorf("%w: account %s is not owned by the caller", domain.ErrForbidden, account.AccountID)
	}
	return nil
}

// logActivity is best-effort: an audit write failure is logged but never
// fails the operation it records.
func (s *SyncService) logActivity(ctx context.Context, actor, action string) {
	entry := &domain.ActivityLog{
		ID:        uuid.New(),
		Actor:     actor,
		Action:    action,
		Timestamp: time.Now(),
	}
	if err := s.activityRepo.Insert(ctx, entry); err != nil {
		log.Printf("ERROR: Failed to record activity %q: %v", action, err)
	}
}

// accountFromRemote maps a canonical remote record onto a local mirror row.
func accountFromRemote(remote *domain.RemoteAccount) *domain.Account {
	return &domain.Account{
		ID:                    uuid.New(),
		AccountID:             remote.AccountID,
		Type:                  remote.Type,
		Name:                  remote.Name,
		Broker:                remote.Broker,
		Login:                 remote.Login,
		Password:              remote.Password,
		Server:                remote.Server,
		Environment:           remote.Environment,
		Status:                remote.Status,
		Group:                 remote.Group,
		Subscription:          remote.Subscription,
		Pending:               remote.Pending,
		StopLoss:              remote.StopLoss,
		TakeProfit:            remote.TakeProfit,
		AlertEmail:            remote.AlertEmail,
		AlertSMS:              remote.AlertSMS,
		GlobalStopLoss:        remote.GlobalStopLoss,
		GlobalStopLossValue:   remote.GlobalStopLossValue,
		GlobalTakeProfit:      remote.GlobalTakeProfit,
		GlobalTakeProfitValue: remote.GlobalTakeProfitValue,
		Balance:               remote.Balance,
		Currency:              remote.Currency,
		LastUpdate:            remote.LastUpdate,
	}
}

// reportFromRow maps a remote reporting row onto a new immutable report.
func reportFromRow(row *domain.RemoteReportRow, actor string) *domain.Report {
	return &domain.Report{
		ID:                uuid.New(),
		AccountID:         row.AccountKey(),
		Month:             row.Month,
		Year:              row.Year,
		Name:              row.Name,
		Broker:            row.Broker,
		Login:             row.Login,
		Server:            row.Server,
		Currency:          row.Currency,
		HWM:               row.HWM,
		BalanceStart:      row.BalanceStart,
		DepositWithdrawal: row.DepositWithdrawal,
		BalanceEnd:        row.BalanceEnd,
		PnL:               row.PnL,
		Performance:       row.Performance,
		AccountStatus:     row.AccountStatus,
		AccountType:       row.AccountType,
		GeneratedBy:       actor,
		GeneratedAt:       time.Now(),
	}
}
