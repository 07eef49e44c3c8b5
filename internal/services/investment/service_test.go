package investment

import (
	"context"
	"testing"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     Service
	wallets *repotest.FakeWalletRepo
	invs    *repotest.FakeInvestmentRepo
	plans   *repotest.FakePlanRepo
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	wallets := repotest.NewFakeWalletRepo()
	invs := repotest.NewFakeInvestmentRepo(wallets)
	plans := repotest.NewFakePlanRepo()

	svc := NewService(invs, plans, repotest.FakeCache{}, nil, nil, nil)

	f := &fixture{
		svc:     svc,
		wallets: wallets,
		invs:    invs,
		plans:   plans,
		now:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	svc.(*service).now = func() time.Time { return f.now }
	return f
}

func (f *fixture) seedPlan(t *testing.T, plan models.InvestmentPlan) *models.InvestmentPlan {
	t.Helper()
	require.NoError(t, f.plans.Create(&plan))
	return &plan
}

func fixedPlan() models.InvestmentPlan {
	return models.InvestmentPlan{
		Name:       "Growth",
		MinAmount:  100,
		MaxAmount:  10000,
		Duration:   90,
		ReturnRate: 18,
		Type:       models.PlanTypeFixed,
		IsActive:   true,
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("debits wallet once and snapshots plan terms", func(t *testing.T) {
		f := newFixture(t)
		plan := f.seedPlan(t, fixedPlan())
		f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 5000, Currency: "USD"})

		inv, err := f.svc.Create(ctx, 1, plan.ID, 1000)
		require.NoError(t, err)

		assert.Equal(t, plan.ID, inv.PlanID)
		assert.Equal(t, "Growth", inv.PlanName)
		assert.Equal(t, float64(18), inv.ReturnRate)
		assert.Equal(t, 90, inv.Duration)
		assert.Equal(t, models.InvestmentStatusActive, inv.Status)
		assert.Equal(t, float64(1000), inv.CurrentValue)
		require.NotNil(t, inv.EndDate)
		assert.Equal(t, f.now.AddDate(0, 0, 90), *inv.EndDate)

		w := f.wallets.Wallet(1)
		assert.Equal(t, float64(4000), w.Balance)

		txs := f.wallets.Transactions()
		require.Len(t, txs, 1)
		assert.Equal(t, models.TransactionTypeInvestment, txs[0].Type)
		assert.Equal(t, models.TransactionStatusCompleted, txs[0].Status)
		assert.Equal(t, float64(1000), txs[0].Amount)
	})

	t.Run("later plan edits do not reach the position", func(t *testing.T) {
		f := newFixture(t)
		plan := f.seedPlan(t, fixedPlan())
		f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 5000})

		inv, err := f.svc.Create(ctx, 1, plan.ID, 1000)
		require.NoError(t, err)

		plan.ReturnRate = 99
		plan.Name = "Renamed"
		require.NoError(t, f.plans.Update(plan))

		stored := f.invs.Investment(inv.ID)
		assert.Equal(t, "Growth", stored.PlanName)
		assert.Equal(t, float64(18), stored.ReturnRate)
	})

	t.Run("rejects inactive plan", func(t *testing.T) {
		f := newFixture(t)
		p := fixedPlan()
		p.IsActive = false
		plan := f.seedPlan(t, p)
		f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 5000})

		_, err := f.svc.Create(ctx, 1, plan.ID, 1000)
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("rejects amount outside plan bounds", func(t *testing.T) {
		f := newFixture(t)
		plan := f.seedPlan(t, fixedPlan())
		f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 50000})

		_, err := f.svc.Create(ctx, 1, plan.ID, 50)
		assert.ErrorIs(t, err, ErrAmountOutOfRange)

		_, err = f.svc.Create(ctx, 1, plan.ID, 20000)
		assert.ErrorIs(t, err, ErrAmountOutOfRange)

		assert.Equal(t, float64(50000), f.wallets.Wallet(1).Balance)
	})

	t.Run("respects pending withdrawal reservations", func(t *testing.T) {
		f := newFixture(t)
		plan := f.seedPlan(t, fixedPlan())
		f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 1000, PendingWithdrawals: 500})

		_, err := f.svc.Create(ctx, 1, plan.ID, 800)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Equal(t, float64(1000), f.wallets.Wallet(1).Balance)
		assert.Empty(t, f.wallets.Transactions())
	})

	t.Run("flexible plan has no end date", func(t *testing.T) {
		f := newFixture(t)
		p := fixedPlan()
		p.Duration = 0
		p.Type = models.PlanTypeFlexible
		plan := f.seedPlan(t, p)
		f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 5000})

		inv, err := f.svc.Create(ctx, 1, plan.ID, 1000)
		require.NoError(t, err)
		assert.Nil(t, inv.EndDate)
	})
}

func TestMatureDue(t *testing.T) {
	ctx := context.Background()

	t.Run("credits principal plus profit exactly once", func(t *testing.T) {
		f := newFixture(t)
		plan := f.seedPlan(t, fixedPlan())
		f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 5000, Currency: "USD"})

		inv, err := f.svc.Create(ctx, 1, plan.ID, 1000)
		require.NoError(t, err)

		// Not due yet.
		matured, err := f.svc.MatureDue(ctx, 100)
		require.NoError(t, err)
		assert.Zero(t, matured)

		f.now = f.now.AddDate(0, 0, 91)

		matured, err = f.svc.MatureDue(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, 1, matured)

		stored := f.invs.Investment(inv.ID)
		assert.Equal(t, models.InvestmentStatusCompleted, stored.Status)
		assert.Equal(t, float64(180), stored.Profit)
		assert.Equal(t, float64(1180), stored.CurrentValue)

		w := f.wallets.Wallet(1)
		assert.Equal(t, float64(5180), w.Balance, "4000 remaining + 1180 payout")

		txs := f.wallets.Transactions()
		require.Len(t, txs, 2)
		payout := txs[1]
		assert.Equal(t, models.TransactionTypeProfit, payout.Type)
		assert.Equal(t, models.TransactionStatusCompleted, payout.Status)
		assert.Equal(t, float64(1180), payout.Amount)

		// A second sweep must be a no-op.
		matured, err = f.svc.MatureDue(ctx, 100)
		require.NoError(t, err)
		assert.Zero(t, matured)
		assert.Equal(t, float64(5180), f.wallets.Wallet(1).Balance)
		assert.Len(t, f.wallets.Transactions(), 2)
	})

	t.Run("flexible positions never mature", func(t *testing.T) {
		f := newFixture(t)
		p := fixedPlan()
		p.Duration = 0
		plan := f.seedPlan(t, p)
		f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 5000})

		_, err := f.svc.Create(ctx, 1, plan.ID, 1000)
		require.NoError(t, err)

		f.now = f.now.AddDate(10, 0, 0)
		matured, err := f.svc.MatureDue(ctx, 100)
		require.NoError(t, err)
		assert.Zero(t, matured)
	})
}

func TestListForUser_LazyMaturation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.seedPlan(t, fixedPlan())
	f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 5000})

	_, err := f.svc.Create(ctx, 1, plan.ID, 1000)
	require.NoError(t, err)

	views, err := f.svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 0, views[0].Progress)
	assert.Equal(t, models.InvestmentStatusActive, views[0].Status)

	f.now = f.now.AddDate(0, 0, 45)
	views, err = f.svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, views[0].Progress)

	// Past the end date a plain read settles the position.
	f.now = f.now.AddDate(0, 0, 50)
	views, err = f.svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.InvestmentStatusCompleted, views[0].Status)
	assert.Equal(t, 100, views[0].Progress)
	assert.Equal(t, float64(5180), f.wallets.Wallet(1).Balance)
}

func TestDeletePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("refused while open positions exist", func(t *testing.T) {
		f := newFixture(t)
		plan := f.seedPlan(t, fixedPlan())
		f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 5000})

		_, err := f.svc.Create(ctx, 1, plan.ID, 1000)
		require.NoError(t, err)

		err = f.svc.DeletePlan(ctx, plan.ID)
		assert.ErrorIs(t, err, ErrPlanHasOpenPositions)

		_, err = f.plans.GetByID(plan.ID)
		assert.NoError(t, err)
	})

	t.Run("allowed once positions are closed", func(t *testing.T) {
		f := newFixture(t)
		plan := f.seedPlan(t, fixedPlan())
		f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 5000})

		_, err := f.svc.Create(ctx, 1, plan.ID, 1000)
		require.NoError(t, err)

		f.now = f.now.AddDate(0, 0, 91)
		_, err = f.svc.MatureDue(ctx, 100)
		require.NoError(t, err)

		assert.NoError(t, f.svc.DeletePlan(ctx, plan.ID))
	})
}

func TestAdminCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("bypasses bounds and overrides terms", func(t *testing.T) {
		f := newFixture(t)
		p := fixedPlan()
		p.IsActive = false // admin path ignores activity
		plan := f.seedPlan(t, p)
		f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 100})

		inv, err := f.svc.AdminCreate(ctx, 99, AdminCreateRequest{
			UserID:           1,
			PlanID:           plan.ID,
			Amount:           50, // below plan minimum
			CustomProfit:     10,
			CustomDuration:   7,
			DeductFromWallet: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 7, inv.Duration)
		assert.Equal(t, float64(10), inv.Profit)
		assert.Equal(t, float64(60), inv.CurrentValue)
		assert.Equal(t, float64(50), f.wallets.Wallet(1).Balance)

		txs := f.wallets.Transactions()
		require.Len(t, txs, 1)
		require.NotNil(t, txs[0].ProcessedBy)
		assert.Equal(t, uint(99), *txs[0].ProcessedBy)
	})

	t.Run("without deduction the wallet is untouched", func(t *testing.T) {
		f := newFixture(t)
		plan := f.seedPlan(t, fixedPlan())
		f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 100})

		_, err := f.svc.AdminCreate(ctx, 99, AdminCreateRequest{
			UserID: 1, PlanID: plan.ID, Amount: 5000,
		})
		require.NoError(t, err)
		assert.Equal(t, float64(100), f.wallets.Wallet(1).Balance)
		assert.Empty(t, f.wallets.Transactions())
	})

	t.Run("deduction still checks available balance", func(t *testing.T) {
		f := newFixture(t)
		plan := f.seedPlan(t, fixedPlan())
		f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 100})

		_, err := f.svc.AdminCreate(ctx, 99, AdminCreateRequest{
			UserID: 1, PlanID: plan.ID, Amount: 500, DeductFromWallet: true,
		})
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})
}

func TestAdminUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.seedPlan(t, fixedPlan())
	f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 5000})

	inv, err := f.svc.Create(ctx, 1, plan.ID, 1000)
	require.NoError(t, err)

	profit := 250.0
	status := models.InvestmentStatusCancelled
	updated, err := f.svc.AdminUpdate(ctx, 99, inv.ID, AdminUpdateRequest{
		Profit: &profit,
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(250), updated.Profit)
	assert.Equal(t, float64(1250), updated.CurrentValue, "current value tracks amount + profit")
	assert.Equal(t, models.InvestmentStatusCancelled, updated.Status)

	_, err = f.svc.AdminUpdate(ctx, 99, 4242, AdminUpdateRequest{Profit: &profit})
	assert.ErrorIs(t, err, ErrInvestmentNotFound)
}

func TestAdminDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.seedPlan(t, fixedPlan())
	f.wallets.SeedWallet(models.Wallet{UserID: 1, Balance: 5000})

	inv, err := f.svc.Create(ctx, 1, plan.ID, 1000)
	require.NoError(t, err)

	require.NoError(t, f.svc.AdminDelete(ctx, 99, inv.ID))
	_, err = f.svc.Get(ctx, 1, inv.ID)
	assert.ErrorIs(t, err, ErrInvestmentNotFound)

	assert.ErrorIs(t, f.svc.AdminDelete(ctx, 99, inv.ID), ErrInvestmentNotFound)
}

func TestValidatePlan(t *testing.T) {
	good := fixedPlan()
	assert.NoError(t, validatePlan(&good))

	bad := fixedPlan()
	bad.Name = ""
	assert.ErrorIs(t, validatePlan(&bad), ErrInvalidPlan)

	bad = fixedPlan()
	bad.MaxAmount = 10
	assert.ErrorIs(t, validatePlan(&bad), ErrInvalidPlan)

	bad = fixedPlan()
	bad.ReturnRate = -1
	assert.ErrorIs(t, validatePlan(&bad), ErrInvalidPlan)
}
