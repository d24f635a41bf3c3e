package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"copiersync/internal/domain"
)

// ============ Mock Copier Gateway ============

// mockGateway is a scriptable in-memory stand-in for the remote copier.
// Per-operation errors simulate rejection and unreachability; call counters
// let tests assert that ownership failures never reach the remote.
type mockGateway struct {
	mu sync.Mutex

	addResult     *domain.RemoteAccount
	updateResult  *domain.RemoteAccount
	connectResult *domain.RemoteAccount
	listResult    []domain.RemoteAccount
	settings      []domain.CopySettings
	reportRows    []domain.RemoteReportRow

	err map[string]error

	calls map[string]int
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		err:   make(map[string]error),
		calls: make(map[string]int),
	}
}

func (m *mockGateway) failWith(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err[op] = err
}

func (m *mockGateway) callCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *mockGateway) record(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	return m.err[op]
}

func (m *mockGateway) AddAccount(ctx context.Context, params domain.AccountParams) (*domain.RemoteAccount, error) {
	if err := m.record("AddAccount"); err != nil {
		return nil, err
	}
	return m.addResult, nil
}

func (m *mockGateway) UpdateAccount(ctx context.Context, accountID string, params domain.AccountParams) (*domain.RemoteAccount, error) {
	if err := m.record("UpdateAccount"); err != nil {
		return nil, err
	}
	return m.updateResult, nil
}

func (m *mockGateway) DeleteAccount(ctx context.Context, accountID string) error {
	return m.record("DeleteAccount")
}

func (m *mockGateway) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.RemoteAccount, error) {
	if err := m.record("ListAccounts"); err != nil {
		return nil, err
	}
	return m.listResult, nil
}

func (m *mockGateway) ConnectAccount(ctx context.Context, params domain.AccountParams) (*domain.RemoteAccount, error) {
	if err := m.record("ConnectAccount"); err != nil {
		return nil, err
	}
	return m.connectResult, nil
}

func (m *mockGateway) SetTradingStatus(ctx context.Context, accountID, status string) error {
	return m.record("SetTradingStatus")
}

func (m *mockGateway) ApplyStrategy(ctx context.Context, accountID, strategyID string) error {
	return m.record("ApplyStrategy")
}

func (m *mockGateway) ListOpenPositions(ctx context.Context, filter domain.PositionFilter) ([]domain.RemotePosition, error) {
	if err := m.record("ListOpenPositions"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (m *mockGateway) ListClosedPositions(ctx context.Context, filter domain.PositionFilter) ([]domain.RemotePosition, error) {
	if err := m.record("ListClosedPositions"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (m *mockGateway) GetSettings(ctx context.Context, filter domain.SettingsFilter) ([]domain.CopySettings, error) {
	if err := m.record("GetSettings"); err != nil {
		return nil, err
	}
	return m.settings, nil
}

func (m *mockGateway) SetSettings(ctx context.Context, params domain.SetSettingsParams) error {
	return m.record("SetSettings")
}

func (m *mockGateway) GetReporting(ctx context.Context, filter domain.ReportFilter) ([]domain.RemoteReportRow, error) {
	if err := m.record("GetReporting"); err != nil {
		return nil, err
	}
	if len(filter.AccountIDs) == 0 {
		return m.reportRows, nil
	}
	var rows []domain.RemoteReportRow
	for _, row := range m.reportRows {
		for _, id := range filter.AccountIDs {
			if row.AccountKey() == id {
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

// ============ In-Memory Repositories ============

// memAccountRepo mirrors the store's upsert contract: keyed by account_id,
// with the owner reference preserved when the incoming row carries none.
type memAccountRepo struct {
	mu        sync.Mutex
	accounts  map[string]*domain.Account
	upsertErr error
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *memAccountRepo) Upsert(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.upsertErr != nil {
		return r.upsertErr
	}

	stored := *account
	if existing, ok := r.accounts[account.AccountID]; ok {
		stored.ID = existing.ID
		if stored.UserID == uuid.Nil {
			stored.UserID = existing.UserID
		}
	}
	r.accounts[account.AccountID] = &stored
	return nil
}

func (r *memAccountRepo) GetByAccountID(ctx context.Context, accountID string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, domain.ErrNotFound)
	}
	copied := *account
	return &copied, nil
}

func (r *memAccountRepo) Delete(ctx context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, accountID)
	return nil
}

func (r *memAccountRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*domain.Account
	for _, account := range r.accounts {
		if account.UserID == userID {
			copied := *account
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memAccountRepo) ListAll(ctx context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*domain.Account
	for _, account := range r.accounts {
		copied := *account
		result = append(result, &copied)
	}
	return result, nil
}

// memSettingsRepo keys rows by the (id_master, id_slave, id_group) composite;
// last write wins.
type memSettingsRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.CopySettings
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{rows: make(map[string]*domain.CopySettings)}
}

func settingsKey(idMaster, idSlave, idGroup string) string {
	return idMaster + "|" + idSlave + "|" + idGroup
}

func (r *memSettingsRepo) Upsert(ctx context.Context, settings *domain.CopySettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *settings
	r.rows[settingsKey(settings.Key())] = &copied
	return nil
}

func (r *memSettingsRepo) Get(ctx context.Context, idMaster, idSlave, idGroup string) (*domain.CopySettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[settingsKey(idMaster, idSlave, idGroup)]
	if !ok {
		return nil, fmt.Errorf("settings (%s,%s,%s): %w", idMaster, idSlave, idGroup, domain.ErrNotFound)
	}
	copied := *row
	return &copied, nil
}

func (r *memSettingsRepo) List(ctx context.Context) ([]*domain.CopySettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*domain.CopySettings
	for _, row := range r.rows {
		copied := *row
		result = append(result, &copied)
	}
	return result, nil
}

// memReportRepo is append-only, like the real store.
type memReportRepo struct {
	mu        sync.Mutex
	reports   []*domain.Report
	insertErr map[string]error
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{insertErr: make(map[string]error)}
}

func (r *memReportRepo) Insert(ctx context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.insertErr[report.AccountID]; err != nil {
		return err
	}

	copied := *report
	r.reports = append(r.reports, &copied)
	return nil
}

func (r *memReportRepo) ListByAccount(ctx context.Context, accountID string) ([]*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*domain.Report
	for _, report := range r.reports {
		if report.AccountID == accountID {
			copied := *report
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memReportRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

// memActivityRepo collects audit entries.
type memActivityRepo struct {
	mu      sync.Mutex
	entries []*domain.ActivityLog
}

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{}
}

func (r *memActivityRepo) Insert(ctx context.Context, entry *domain.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *entry
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *memActivityRepo) List(ctx context.Context, limit int) ([]*domain.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*domain.ActivityLog, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0 && len(result) < limit; i-- {
		copied := *r.entries[i]
		result = append(result, &copied)
	}
	return result, nil
}

// ============ Fixture ============

type fixture struct {
	gateway      *mockGateway
	accountRepo  *memAccountRepo
	settingsRepo *memSettingsRepo
	reportRepo   *memReportRepo
	activityRepo *memActivityRepo
	service      *SyncService
}

func newFixture() *fixture {
	f := &fixture{
		gateway:      newMockGateway(),
		accountRepo:  newMemAccountRepo(),
		settingsRepo: newMemSettingsRepo(),
		reportRepo:   newMemReportRepo(),
		activityRepo: newMemActivityRepo(),
	}
	f.service = NewSyncService(f.gateway, f.accountRepo, f.settingsRepo, f.reportRepo, f.activityRepo)
	return f
}

func (f *fixture) seedAccount(accountID string, owner uuid.UUID) {
	f.accountRepo.accounts[accountID] = &domain.Account{
		ID:        uuid.New(),
		AccountID: accountID,
		Login:     "login-" + accountID,
		UserID:    owner,
	}
}
