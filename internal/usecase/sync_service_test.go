package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copiersync/internal/domain"
)

func TestSyncService_CreateAccount(t *testing.T) {
	owner := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}

	t.Run("mirrors remote result with caller as owner", func(t *testing.T) {
		f := newFixture()
		f.gateway.addResult = &domain.RemoteAccount{
			AccountID:   "A1",
			Login:       "L1",
			Balance:     100,
			Currency:    "USD",
			Environment: "Demo",
		}

		account, err := f.service.CreateAccount(context.Background(), owner, domain.AccountParams{
			Broker: "MT4", Login: "L1", Server: "Broker-Demo", Password: "secret",
		})
		require.NoError(t, err)

		assert.Equal(t, "A1", account.AccountID)
		assert.Equal(t, owner.UserID, account.UserID)
		assert.Equal(t, "USD", account.Currency)

		stored, err := f.accountRepo.GetByAccountID(context.Background(), "A1")
		require.NoError(t, err)
		assert.Equal(t, owner.UserID, stored.UserID)
		assert.Equal(t, 100.0, stored.Balance)

		logs, _ := f.activityRepo.List(context.Background(), 10)
		require.Len(t, logs, 1)
		assert.Equal(t, owner.UserID.String(), logs[0].Actor)
	})

	t.Run("rejects missing mandatory fields before any remote call", func(t *testing.T) {
		f := newFixture()

		_, err := f.service.CreateAccount(context.Background(), owner, domain.AccountParams{
			Login: "L1",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Zero(t, f.gateway.callCount("AddAccount"))
	})

	t.Run("remote rejection leaves no local state", func(t *testing.T) {
		f := newFixture()
		f.gateway.failWith("AddAccount", domain.ErrRemoteRejected)

		_, err := f.service.CreateAccount(context.Background(), owner, domain.AccountParams{
			Broker: "MT4", Login: "L1", Server: "S1",
		})
		assert.ErrorIs(t, err, domain.ErrRemoteRejected)
		assert.Empty(t, f.accountRepo.accounts)
	})
}

func TestSyncService_OwnershipGate(t *testing.T) {
	userA := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}
	userB := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}
	admin := domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}

	t.Run("non-owner mutation is rejected before the remote call", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("A1", userA.UserID)

		_, err := f.service.UpdateAccount(context.Background(), userB, "A1", domain.AccountParams{Name: "renamed"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Zero(t, f.gateway.callCount("UpdateAccount"))

		err = f.service.DeleteAccount(context.Background(), userB, "A1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Zero(t, f.gateway.callCount("DeleteAccount"))

		err = f.service.SetTradingStatus(context.Background(), userB, "A1", domain.TradingStatusStart)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Zero(t, f.gateway.callCount("SetTradingStatus"))
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("A1", userA.UserID)
		f.gateway.updateResult = &domain.RemoteAccount{AccountID: "A1", Name: "renamed"}

		account, err := f.service.UpdateAccount(context.Background(), admin, "A1", domain.AccountParams{Name: "renamed"})
		require.NoError(t, err)

		// The owner reference survives an admin edit.
		assert.Equal(t, userA.UserID, account.UserID)
	})

	t.Run("unknown account reports not found", func(t *testing.T) {
		f := newFixture()

		_, err := f.service.GetAccount(context.Background(), userA, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSyncService_ListAccounts(t *testing.T) {
	userA := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}
	userB := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}
	admin := domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}

	f := newFixture()
	f.seedAccount("A1", userA.UserID)
	f.seedAccount("A2", userA.UserID)
	f.seedAccount("B1", userB.UserID)

	accountsA, err := f.service.ListAccounts(context.Background(), userA)
	require.NoError(t, err)
	assert.Len(t, accountsA, 2)
	for _, account := range accountsA {
		assert.Equal(t, userA.UserID, account.UserID)
	}

	accountsAdmin, err := f.service.ListAccounts(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, accountsAdmin, 3)
}

func TestSyncService_DeleteAccount(t *testing.T) {
	owner := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}

	t.Run("remote failure keeps the local mirror", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("A1", owner.UserID)
		f.gateway.failWith("DeleteAccount", domain.ErrRemoteUnreachable)

		err := f.service.DeleteAccount(context.Background(), owner, "A1")
		assert.ErrorIs(t, err, domain.ErrRemoteUnreachable)

		_, err = f.accountRepo.GetByAccountID(context.Background(), "A1")
		assert.NoError(t, err)
	})

	t.Run("remote success drops the local mirror", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("A1", owner.UserID)

		require.NoError(t, f.service.DeleteAccount(context.Background(), owner, "A1"))

		_, err := f.accountRepo.GetByAccountID(context.Background(), "A1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSyncService_SetTradingStatus(t *testing.T) {
	owner := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}

	f := newFixture()
	f.seedAccount("A1", owner.UserID)

	err := f.service.SetTradingStatus(context.Background(), owner, "A1", "pause")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, f.gateway.callCount("SetTradingStatus"))

	require.NoError(t, f.service.SetTradingStatus(context.Background(), owner, "A1", domain.TradingStatusStart))
	assert.Equal(t, 1, f.gateway.callCount("SetTradingStatus"))
}

func TestSyncService_SyncAccounts(t *testing.T) {
	user := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}
	admin := domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}

	t.Run("requires the admin role", func(t *testing.T) {
		f := newFixture()

		_, err := f.service.SyncAccounts(context.Background(), user, domain.AccountFilter{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Zero(t, f.gateway.callCount("ListAccounts"))
	})

	t.Run("upserts every remote row and skips unkeyed ones", func(t *testing.T) {
		f := newFixture()
		f.gateway.listResult = []domain.RemoteAccount{
			{AccountID: "A1", Login: "L1", Balance: 50},
			{Login: "orphan-login"}, // no account_id, cannot be keyed
			{AccountID: "A2", Login: "L2", Balance: 75},
		}

		synced, err := f.service.SyncAccounts(context.Background(), admin, domain.AccountFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, synced)
		assert.Len(t, f.accountRepo.accounts, 2)
	})

	t.Run("reconciliation preserves existing ownership", func(t *testing.T) {
		f := newFixture()
		ownerID := uuid.New()
		f.seedAccount("A1", ownerID)
		f.gateway.listResult = []domain.RemoteAccount{
			{AccountID: "A1", Login: "L1", Balance: 500},
		}

		_, err := f.service.SyncAccounts(context.Background(), admin, domain.AccountFilter{})
		require.NoError(t, err)

		stored, err := f.accountRepo.GetByAccountID(context.Background(), "A1")
		require.NoError(t, err)
		assert.Equal(t, ownerID, stored.UserID)
		assert.Equal(t, 500.0, stored.Balance)
	})
}

func TestSyncService_PullSettings(t *testing.T) {
	f := newFixture()
	f.gateway.settings = []domain.CopySettings{
		{IDMaster: "M1", IDSlave: "S1", RiskFactorValue: 1.5},
		{IDMaster: "M1", IDSlave: "S2", RiskFactorValue: 0.5},
	}

	// Applying the same snapshot twice must not duplicate rows.
	for i := 0; i < 2; i++ {
		settings, err := f.service.PullSettings(context.Background(), domain.SettingsFilter{})
		require.NoError(t, err)
		assert.Len(t, settings, 2)
	}

	rows, err := f.settingsRepo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSyncService_PushSettings(t *testing.T) {
	caller := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}

	t.Run("requires the composite key", func(t *testing.T) {
		f := newFixture()

		err := f.service.PushSettings(context.Background(), caller, domain.SetSettingsParams{IDMaster: "M1"})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Zero(t, f.gateway.callCount("SetSettings"))
	})

	t.Run("mirrors the read-back, not the request", func(t *testing.T) {
		f := newFixture()
		// The remote normalizes the written value; the mirror must reflect
		// that normalization.
		f.gateway.settings = []domain.CopySettings{
			{IDMaster: "M1", IDSlave: "S1", RiskFactorValue: 2.0},
		}

		risk := 1.999
		err := f.service.PushSettings(context.Background(), caller, domain.SetSettingsParams{
			IDMaster: "M1", IDSlave: "S1", RiskFactorValue: &risk,
		})
		require.NoError(t, err)

		stored, err := f.settingsRepo.Get(context.Background(), "M1", "S1", "")
		require.NoError(t, err)
		assert.Equal(t, 2.0, stored.RiskFactorValue)
	})

	t.Run("remote rejection writes nothing locally", func(t *testing.T) {
		f := newFixture()
		f.gateway.failWith("SetSettings", domain.ErrRemoteRejected)

		err := f.service.PushSettings(context.Background(), caller, domain.SetSettingsParams{
			IDMaster: "M1", IDSlave: "S1",
		})
		assert.ErrorIs(t, err, domain.ErrRemoteRejected)

		rows, _ := f.settingsRepo.List(context.Background())
		assert.Empty(t, rows)
	})

	t.Run("failed read-back is not an operation failure", func(t *testing.T) {
		f := newFixture()
		f.gateway.failWith("GetSettings", domain.ErrRemoteUnreachable)

		err := f.service.PushSettings(context.Background(), caller, domain.SetSettingsParams{
			IDMaster: "M1", IDSlave: "S1",
		})
		assert.NoError(t, err)
	})
}

func TestSyncService_GenerateReport(t *testing.T) {
	f := newFixture()
	f.gateway.reportRows = []domain.RemoteReportRow{
		{AccountID: "A1", Month: 8, Year: 2025, PnL: 30},
	}

	filter := domain.ReportFilter{AccountIDs: []string{"A1"}}

	first, err := f.service.GenerateReport(context.Background(), domain.SystemActor, filter)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, domain.SystemActor, first[0].GeneratedBy)

	// Reports are append-only: regenerating the same window adds documents
	// instead of replacing them.
	second, err := f.service.GenerateReport(context.Background(), "someone", filter)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID)

	history, err := f.reportRepo.ListByAccount(context.Background(), "A1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSyncService_ListReports(t *testing.T) {
	owner := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}
	stranger := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}

	f := newFixture()
	f.seedAccount("A1", owner.UserID)
	f.gateway.reportRows = []domain.RemoteReportRow{{AccountID: "A1", PnL: 10}}

	_, err := f.service.GenerateReport(context.Background(), owner.UserID.String(), domain.ReportFilter{AccountIDs: []string{"A1"}})
	require.NoError(t, err)

	reports, err := f.service.ListReports(context.Background(), owner, "A1")
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	_, err = f.service.ListReports(context.Background(), stranger, "A1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSyncService_OwnsAccount(t *testing.T) {
	ownerID := uuid.New()

	f := newFixture()
	f.seedAccount("A1", ownerID)

	owns, err := f.service.OwnsAccount(context.Background(), ownerID, "A1")
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = f.service.OwnsAccount(context.Background(), uuid.New(), "A1")
	require.NoError(t, err)
	assert.False(t, owns)

	_, err = f.service.OwnsAccount(context.Background(), ownerID, "gone")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
