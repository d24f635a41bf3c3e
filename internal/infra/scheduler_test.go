package infra

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copiersync/internal/domain"
	"copiersync/internal/usecase"
)

// stubGateway serves reporting rows per requested account and fails for one
// designated account, so batch isolation can be observed.
type stubGateway struct {
	failAccount string
}

func (g *stubGateway) GetReporting(ctx context.Context, filter domain.ReportFilter) ([]domain.RemoteReportRow, error) {
	var rows []domain.RemoteReportRow
	for _, id := range filter.AccountIDs {
		if id == g.failAccount {
			return nil, fmt.Errorf("%w: reporting/getReporting.php: boom", domain.ErrRemoteRejected)
		}
		rows = append(rows, domain.RemoteReportRow{AccountID: id, PnL: 1})
	}
	return rows, nil
}

func (g *stubGateway) AddAccount(ctx context.Context, params domain.AccountParams) (*domain.RemoteAccount, error) {
	return nil, nil
}
func (g *stubGateway) UpdateAccount(ctx context.Context, accountID string, params domain.AccountParams) (*domain.RemoteAccount, error) {
	return nil, nil
}
func (g *stubGateway) DeleteAccount(ctx context.Context, accountID string) error { return nil }
func (g *stubGateway) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.RemoteAccount, error) {
	return nil, nil
}
func (g *stubGateway) ConnectAccount(ctx context.Context, params domain.AccountParams) (*domain.RemoteAccount, error) {
	return nil, nil
}
func (g *stubGateway) SetTradingStatus(ctx context.Context, accountID, status string) error {
	return nil
}
func (g *stubGateway) ApplyStrategy(ctx context.Context, accountID, strategyID string) error {
	return nil
}
func (g *stubGateway) ListOpenPositions(ctx context.Context, filter domain.PositionFilter) ([]domain.RemotePosition, error) {
	return nil, nil
}
func (g *stubGateway) ListClosedPositions(ctx context.Context, filter domain.PositionFilter) ([]domain.RemotePosition, error) {
	return nil, nil
}
func (g *stubGateway) GetSettings(ctx context.Context, filter domain.SettingsFilter) ([]domain.CopySettings, error) {
	return nil, nil
}
func (g *stubGateway) SetSettings(ctx context.Context, params domain.SetSettingsParams) error {
	return nil
}

type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) Upsert(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *account
	r.accounts[account.AccountID] = &copied
	return nil
}

func (r *stubAccountRepo) GetByAccountID(ctx context.Context, accountID string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, domain.ErrNotFound)
	}
	copied := *account
	return &copied, nil
}

func (r *stubAccountRepo) Delete(ctx context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, accountID)
	return nil
}

func (r *stubAccountRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	return nil, nil
}

func (r *stubAccountRepo) ListAll(ctx context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Account
	for _, account := range r.accounts {
		copied := *account
		result = append(result, &copied)
	}
	return result, nil
}

type stubSettingsRepo struct{}

func (stubSettingsRepo) Upsert(ctx context.Context, settings *domain.CopySettings) error { return nil }
func (stubSettingsRepo) Get(ctx context.Context, idMaster, idSlave, idGroup string) (*domain.CopySettings, error) {
	return nil, domain.ErrNotFound
}
func (stubSettingsRepo) List(ctx context.Context) ([]*domain.CopySettings, error) { return nil, nil }

type stubReportRepo struct {
	mu      sync.Mutex
	reports []*domain.Report
}

func (r *stubReportRepo) Insert(ctx context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *report
	r.reports = append(r.reports, &copied)
	return nil
}

func (r *stubReportRepo) ListByAccount(ctx context.Context, accountID string) ([]*domain.Report, error) {
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

func (r *stubReportRepo) accountIDs() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, report := range r.reports {
		counts[report.AccountID]++
	}
	return counts
}

type stubActivityRepo struct{}

func (stubActivityRepo) Insert(ctx context.Context, entry *domain.ActivityLog) error { return nil }
func (stubActivityRepo) List(ctx context.Context, limit int) ([]*domain.ActivityLog, error) {
	return nil, nil
}

func newTestScheduler(failAccount string, accountIDs []string, owners map[string]uuid.UUID) (*Scheduler, *stubReportRepo) {
	accountRepo := newStubAccountRepo()
	for _, id := range accountIDs {
		accountRepo.accounts[id] = &domain.Account{
			ID:        uuid.New(),
			AccountID: id,
			UserID:    owners[id],
		}
	}

	reportRepo := &stubReportRepo{}
	service := usecase.NewSyncService(
		&stubGateway{failAccount: failAccount},
		accountRepo,
		stubSettingsRepo{},
		reportRepo,
		stubActivityRepo{},
	)

	return NewScheduler(service), reportRepo
}

// One failing account must not prevent the rest of the batch from getting
// its reports.
func TestScheduler_DailyBatchIsolation(t *testing.T) {
	accounts := []string{"A1", "A2", "A3", "A4", "A5"}
	scheduler, reportRepo := newTestScheduler("A3", accounts, nil)

	err := scheduler.RunDailyReports(context.Background())
	require.NoError(t, err)

	counts := reportRepo.accountIDs()
	assert.Len(t, counts, 4)
	for _, id := range []string{"A1", "A2", "A4", "A5"} {
		assert.Equal(t, 1, counts[id], "account %s should have one report", id)
	}
	assert.Zero(t, counts["A3"])

	// System-actor attribution on every scheduled report.
	reports, err := reportRepo.ListByAccount(context.Background(), "A1")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, domain.SystemActor, reports[0].GeneratedBy)
}

func TestScheduler_MonthlyBatchIsolation(t *testing.T) {
	accounts := []string{"A1", "A2"}
	scheduler, reportRepo := newTestScheduler("A1", accounts, nil)

	err := scheduler.RunMonthlyReports(context.Background())
	require.NoError(t, err)

	counts := reportRepo.accountIDs()
	assert.Equal(t, 1, counts["A2"])
	assert.Zero(t, counts["A1"])
}

func TestScheduler_ScheduleAccountReport(t *testing.T) {
	owner := uuid.New()

	t.Run("rejects a malformed interval expression", func(t *testing.T) {
		scheduler, _ := newTestScheduler("", []string{"A1"}, map[string]uuid.UUID{"A1": owner})

		_, err := scheduler.ScheduleAccountReport(owner, "A1", "not a cron expr")
		assert.ErrorIs(t, err, domain.ErrScheduling)
		assert.Empty(t, scheduler.ListSchedules(domain.Identity{UserID: owner, Role: domain.RoleAdmin}))
	})

	t.Run("registers and lists a valid schedule", func(t *testing.T) {
		scheduler, _ := newTestScheduler("", []string{"A1"}, map[string]uuid.UUID{"A1": owner})

		schedule, err := scheduler.ScheduleAccountReport(owner, "A1", "0 6 * * *")
		require.NoError(t, err)
		assert.Equal(t, "A1", schedule.AccountID)

		schedules := scheduler.ListSchedules(domain.Identity{UserID: owner, Role: domain.RoleUser})
		require.Len(t, schedules, 1)
		assert.Equal(t, schedule.ID, schedules[0].ID)

		// Another user sees nothing.
		assert.Empty(t, scheduler.ListSchedules(domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}))
	})

	t.Run("remove enforces ownership", func(t *testing.T) {
		scheduler, _ := newTestScheduler("", []string{"A1"}, map[string]uuid.UUID{"A1": owner})

		schedule, err := scheduler.ScheduleAccountReport(owner, "A1", "0 6 * * *")
		require.NoError(t, err)

		err = scheduler.RemoveSchedule(domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}, schedule.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		err = scheduler.RemoveSchedule(domain.Identity{UserID: owner, Role: domain.RoleUser}, schedule.ID)
		require.NoError(t, err)
		assert.Empty(t, scheduler.ListSchedules(domain.Identity{UserID: owner, Role: domain.RoleUser}))
	})
}

// A firing whose ownership check no longer passes generates nothing and
// raises no error.
func TestScheduler_FiringSkipsOnLostOwnership(t *testing.T) {
	owner := uuid.New()
	scheduler, reportRepo := newTestScheduler("", []string{"A1"}, map[string]uuid.UUID{"A1": owner})

	// Owned: the firing produces a report.
	scheduler.runAccountReport(owner, "A1")
	assert.Equal(t, 1, reportRepo.accountIDs()["A1"])

	// Reassigned since scheduling: the firing is skipped.
	scheduler.runAccountReport(uuid.New(), "A1")
	assert.Equal(t, 1, reportRepo.accountIDs()["A1"])

	// Deleted since scheduling: also skipped.
	scheduler.runAccountReport(owner, "gone")
	assert.Equal(t, 1, len(reportRepo.accountIDs()))
}
