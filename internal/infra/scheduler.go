package infra

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"copiersync/internal/domain"
	"copiersync/internal/usecase"
)

// Cron expressions for the unattended reconciliation jobs.
const (
	dailyReportSpec   = "0 0 * * *" // midnight, every day
	monthlyReportSpec = "0 0 1 * *" // midnight on the first calendar day
)

// ReportSchedule describes one user-requested recurring report job. Held in
// the registry so schedules can be listed and removed, and so shutdown can
// stop every timer in one place.
type ReportSchedule struct {
	ID        cron.EntryID `json:"id"`
	AccountID string       `json:"account_id"`
	UserID    uuid.UUID    `json:"user_id"`
	Spec      string       `json:"spec"`
	CreatedAt time.Time    `json:"created_at"`
}

// Scheduler is the process-scoped job registry. It owns the recurring
// daily/monthly reconciliation jobs plus any per-account schedules users
// request at runtime. Jobs share the store's connection pool with in-flight
// requests and never assume exclusive access.
type Scheduler struct {
	cron        *cron.Cron
	syncService *usecase.SyncService

	mu        sync.Mutex
	schedules map[cron.EntryID]ReportSchedule
}

// NewScheduler creates a new Scheduler
func NewScheduler(syncService *usecase.SyncService) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		syncService: syncService,
		schedules:   make(map[cron.EntryID]ReportSchedule),
	}
}

// Start registers the daily and monthly reconciliation jobs and starts the
// cron runner.
func (s *Scheduler) Start() error {
	log.Println("Starting report scheduler...")

	_, err := s.cron.AddFunc(dailyReportSpec, func() {
		if err := s.RunDailyReports(context.Background()); err != nil {
			log.Printf("ERROR: Daily report batch failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register daily report job: %w", err)
	}

	_, err = s.cron.AddFunc(monthlyReportSpec, func() {
		if err := s.RunMonthlyReports(context.Background()); err != nil {
			log.Printf("ERROR: Monthly report batch failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register monthly report job: %w", err)
	}

	s.cron.Start()
	log.Println("[OK] Report scheduler started (daily + monthly jobs registered)")
	return nil
}

// Stop stops the scheduler gracefully, including user-requested schedules.
func (s *Scheduler) Stop() {
	log.Println("Stopping report scheduler...")
	s.cron.Stop()
	log.Println("[OK] Report scheduler stopped")
}

// RunDailyReports generates a trailing-24h report for every stored account,
// tagged with the system actor. Best-effort per account: one account's
// failure is logged and the rest of the batch continues.
func (s *Scheduler) RunDailyReports(ctx context.Context) error {
	log.Println("=== Daily report batch ===")

	accounts, err := s.syncService.AllAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts for daily batch: %w", err)
	}

	now := time.Now().UTC()
	filter := domain.ReportFilter{
		StartDate:  now.Add(-24 * time.Hour).Format(time.RFC3339),
		EndDate:    now.Format(time.RFC3339),
		ReportType: "admin_daily",
	}

	generated, failed := 0, 0
	for _, account := range accounts {
		accountFilter := filter
		accountFilter.AccountIDs = []string{account.AccountID}

		reports, err := s.syncService.GenerateReport(ctx, domain.SystemActor, accountFilter)
		if err != nil {
			failed++
			log.Printf("ERROR: Daily report failed for account %s: %v", account.AccountID, err)
			continue
		}
		generated += len(reports)
	}

	s.syncService.LogActivity(ctx, domain.SystemActor,
		fmt.Sprintf("daily report batch: %d report(s) generated, %d account(s) failed", generated, failed))
	log.Printf("[OK] Daily batch complete: %d report(s), %d failure(s)", generated, failed)
	return nil
}

// RunMonthlyReports generates the prior calendar month's report for every
// stored account, with the same per-account failure isolation.
func (s *Scheduler) RunMonthlyReports(ctx context.Context) error {
	log.Println("=== Monthly report batch ===")

	accounts, err := s.syncService.AllAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts for monthly batch: %w", err)
	}

	prev := time.Now().UTC().AddDate(0, -1, 0)
	month := int(prev.Month())
	year := prev.Year()

	generated, failed := 0, 0
	for _, account := range accounts {
		filter := domain.ReportFilter{
			Month:      &month,
			Year:       &year,
			AccountIDs: []string{account.AccountID},
		}

		reports, err := s.syncService.GenerateReport(ctx, domain.SystemActor, filter)
		if err != nil {
			failed++
			log.Printf("ERROR: Monthly report failed for account %s: %v", account.AccountID, err)
			continue
		}
		generated += len(reports)
	}

	s.syncService.LogActivity(ctx, domain.SystemActor,
		fmt.Sprintf("monthly report batch: %d report(s) generated, %d account(s) failed", generated, failed))
	log.Printf("[OK] Monthly batch complete: %d report(s), %d failure(s)", generated, failed)
	return nil
}

// ScheduleAccountReport registers a recurring report job for one account on
// behalf of its owner. The interval expression is validated up front; a bad
// expression fails with ErrScheduling and registers nothing. Ownership is
// re-validated on every firing, because the account may have been deleted
// or reassigned since scheduling; a firing that fails the check is skipped
// silently.
func (s *Scheduler) ScheduleAccountReport(userID uuid.UUID, accountID, spec string) (*ReportSchedule, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrScheduling, spec, err)
	}

	entryID, err := s.cron.AddFunc(spec, func() {
		s.runAccountReport(userID, accountID)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrScheduling, spec, err)
	}

	schedule := ReportSchedule{
		ID:        entryID,
		AccountID: accountID,
		UserID:    userID,
		Spec:      spec,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.schedules[entryID] = schedule
	s.mu.Unlock()

	log.Printf("[OK] Report schedule %d registered for account %s (%s)", entryID, accountID, spec)
	return &schedule, nil
}

// RemoveSchedule removes a user-requested schedule. Only the owner or an
// admin may remove it.
func (s *Scheduler) RemoveSchedule(caller domain.Identity, id cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule, ok := s.schedules[id]
	if !ok {
		return fmt.Errorf("schedule %d: %w", id, domain.ErrNotFound)
	}
	if !caller.IsAdmin() && schedule.UserID != caller.UserID {
		return fmt.Errorf("%w: schedule %d is not owned by the caller", domain.ErrForbidden, id)
	}

	s.cron.Remove(id)
	delete(s.schedules, id)
	log.Printf("[OK] Report schedule %d removed", id)
	return nil
}

// ListSchedules returns the caller's schedules, or all of them for admins.
func (s *Scheduler) ListSchedules(caller domain.Identity) []ReportSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]ReportSchedule, 0, len(s.schedules))
	for _, schedule := range s.schedules {
		if caller.IsAdmin() || schedule.UserID == caller.UserID {
			result = append(result, schedule)
		}
	}
	return result
}

// runAccountReport is one firing of a per-account schedule.
func (s *Scheduler) runAccountReport(userID uuid.UUID, accountID string) {
	ctx := context.Background()

	owns, err := s.syncService.OwnsAccount(ctx, userID, accountID)
	if err != nil || !owns {
		// Ownership no longer holds (account deleted or reassigned); the
		// firing is skipped without generating anything.
		log.Printf("Skipping scheduled report for account %s: ownership check failed", accountID)
		return
	}

	now := time.Now().UTC()
	filter := domain.ReportFilter{
		StartDate:  now.Add(-24 * time.Hour).Format(time.RFC3339),
		EndDate:    now.Format(time.RFC3339),
		AccountIDs: []string{accountID},
	}

	if _, err := s.syncService.GenerateReport(ctx, userID.String(), filter); err != nil {
		log.Printf("ERROR: Scheduled report failed for account %s: %v", accountID, err)
	}
}
