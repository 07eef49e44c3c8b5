package wallet

import (
	"context"
	"testing"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(repo *repotest.FakeWalletRepo) Service {
	return NewService(repo, repotest.FakeCache{}, Config{}, nil, nil)
}

func TestGetOrCreateWallet(t *testing.T) {
	repo := repotest.NewFakeWalletRepo()
	svc := newTestService(repo)

	w, err := svc.GetOrCreateWallet(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), w.UserID)
	assert.Equal(t, DefaultCurrency, w.Currency)
	assert.Zero(t, w.Balance)

	// Second call returns the same wallet, not a new one.
	again, err := svc.GetOrCreateWallet(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, w.ID, again.ID)
}

func TestRequestDeposit(t *testing.T) {
	t.Run("below minimum leaves no trace", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		svc := newTestService(repo)

		_, err := svc.RequestDeposit(context.Background(), 1, DefaultMinDeposit-1, models.MethodCard, nil)
		assert.ErrorIs(t, err, ErrDepositBelowMinimum)
		assert.Empty(t, repo.Transactions())
	})

	t.Run("creates pending entry without touching balance", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		repo.SeedWallet(models.Wallet{UserID: 1, Balance: 500, Currency: "USD"})
		svc := newTestService(repo)

		tx, err := svc.RequestDeposit(context.Background(), 1, 100, models.MethodBankTransfer, nil)
		require.NoError(t, err)

		assert.Equal(t, models.TransactionTypeDeposit, tx.Type)
		assert.Equal(t, models.TransactionStatusPending, tx.Status)
		assert.Equal(t, float64(100), tx.Amount)
		assert.NotEmpty(t, tx.Reference)
		assert.NotEmpty(t, tx.TransactionID)

		w := repo.Wallet(1)
		assert.Equal(t, float64(500), w.Balance)
		assert.Zero(t, w.TotalDeposited)
	})
}

func TestRequestWithdrawal(t *testing.T) {
	t.Run("below minimum", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		repo.SeedWallet(models.Wallet{UserID: 1, Balance: 1000})
		svc := newTestService(repo)

		_, err := svc.RequestWithdrawal(context.Background(), 1, DefaultMinWithdrawal-1, nil)
		assert.ErrorIs(t, err, ErrWithdrawalBelowMinimum)
		assert.Empty(t, repo.Transactions())
	})

	t.Run("reserves funds and records pending entry", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		repo.SeedWallet(models.Wallet{UserID: 1, Balance: 1000, Currency: "USD"})
		svc := newTestService(repo)

		tx, err := svc.RequestWithdrawal(context.Background(), 1, 800, nil)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusPending, tx.Status)
		assert.Equal(t, DefaultWithdrawalFee, tx.Fee)

		w := repo.Wallet(1)
		assert.Equal(t, float64(1000), w.Balance, "balance moves only on approval")
		assert.Equal(t, float64(800), w.PendingWithdrawals)
		assert.Equal(t, float64(200), w.AvailableBalance())
	})

	t.Run("pending reservation blocks a second withdrawal", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		repo.SeedWallet(models.Wallet{UserID: 1, Balance: 1000})
		svc := newTestService(repo)

		_, err := svc.RequestWithdrawal(context.Background(), 1, 800, nil)
		require.NoError(t, err)

		_, err = svc.RequestWithdrawal(context.Background(), 1, 300, nil)
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		w := repo.Wallet(1)
		assert.Equal(t, float64(800), w.PendingWithdrawals)
		assert.Len(t, repo.Transactions(), 1)
	})

	t.Run("missing wallet", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		svc := newTestService(repo)

		_, err := svc.RequestWithdrawal(context.Background(), 9, 100, nil)
		assert.ErrorIs(t, err, ErrWalletNotFound)
	})
}

func TestAdminAdjust(t *testing.T) {
	ctx := context.Background()

	t.Run("add credits and counts as deposit", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		repo.SeedWallet(models.Wallet{UserID: 1, Balance: 100})
		svc := newTestService(repo)

		w, tx, err := svc.AdminAdjust(ctx, 7, 1, AdjustmentRequest{Action: AdjustActionAdd, Amount: 50})
		require.NoError(t, err)
		assert.Equal(t, float64(150), w.Balance)
		assert.Equal(t, float64(50), w.TotalDeposited)

		require.NotNil(t, tx)
		assert.Equal(t, models.TransactionTypeBonus, tx.Type)
		assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
		require.NotNil(t, tx.ProcessedBy)
		assert.Equal(t, uint(7), *tx.ProcessedBy)
	})

	t.Run("subtract clamps at zero", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		repo.SeedWallet(models.Wallet{UserID: 1, Balance: 30})
		svc := newTestService(repo)

		w, tx, err := svc.AdminAdjust(ctx, 7, 1, AdjustmentRequest{Action: AdjustActionSubtract, Amount: 100})
		require.NoError(t, err)
		assert.Zero(t, w.Balance)

		require.NotNil(t, tx)
		assert.Equal(t, models.TransactionTypeRefund, tx.Type)
		assert.Equal(t, float64(30), tx.Amount, "entry records the actual delta")
	})

	t.Run("set records the delta as bonus", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		repo.SeedWallet(models.Wallet{UserID: 1, Balance: 300})
		svc := newTestService(repo)

		w, tx, err := svc.AdminAdjust(ctx, 7, 1, AdjustmentRequest{Action: AdjustActionSet, Balance: 500})
		require.NoError(t, err)
		assert.Equal(t, float64(500), w.Balance)

		require.NotNil(t, tx)
		assert.Equal(t, models.TransactionTypeBonus, tx.Type)
		assert.Equal(t, float64(200), tx.Amount)
	})

	t.Run("set to current balance writes no entry", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		repo.SeedWallet(models.Wallet{UserID: 1, Balance: 300})
		svc := newTestService(repo)

		_, tx, err := svc.AdminAdjust(ctx, 7, 1, AdjustmentRequest{Action: AdjustActionSet, Balance: 300})
		require.NoError(t, err)
		assert.Nil(t, tx)
		assert.Empty(t, repo.Transactions())
	})

	t.Run("set clamps pending reservations to new balance", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		repo.SeedWallet(models.Wallet{UserID: 1, Balance: 1000, PendingWithdrawals: 800})
		svc := newTestService(repo)

		w, _, err := svc.AdminAdjust(ctx, 7, 1, AdjustmentRequest{Action: AdjustActionSet, Balance: 100})
		require.NoError(t, err)
		assert.Equal(t, float64(100), w.Balance)
		assert.Equal(t, float64(100), w.PendingWithdrawals)
	})

	t.Run("creates the wallet when missing", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		svc := newTestService(repo)

		w, _, err := svc.AdminAdjust(ctx, 7, 5, AdjustmentRequest{Action: AdjustActionAdd, Amount: 25})
		require.NoError(t, err)
		assert.Equal(t, uint(5), w.UserID)
		assert.Equal(t, float64(25), w.Balance)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		svc := newTestService(repo)

		_, _, err := svc.AdminAdjust(ctx, 7, 1, AdjustmentRequest{Action: "double", Amount: 10})
		assert.ErrorIs(t, err, ErrInvalidAdjustment)

		_, _, err = svc.AdminAdjust(ctx, 7, 1, AdjustmentRequest{Action: AdjustActionAdd, Amount: -5})
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, _, err = svc.AdminAdjust(ctx, 7, 1, AdjustmentRequest{Action: AdjustActionSet, Balance: -1})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestAdminCreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown type", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		svc := newTestService(repo)

		_, err := svc.AdminCreateTransaction(ctx, 7, ManualTransactionRequest{UserID: 1, Type: "investment", Amount: 10})
		assert.ErrorIs(t, err, ErrInvalidTransactionType)
	})

	t.Run("entry only when wallet replay is off", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		repo.SeedWallet(models.Wallet{UserID: 1, Balance: 100})
		svc := newTestService(repo)

		tx, err := svc.AdminCreateTransaction(ctx, 7, ManualTransactionRequest{
			UserID: 1, Type: models.TransactionTypeDeposit, Amount: 40,
		})
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
		assert.Equal(t, float64(100), repo.Wallet(1).Balance)
	})

	t.Run("deposit replay credits the wallet", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		repo.SeedWallet(models.Wallet{UserID: 1, Balance: 100})
		svc := newTestService(repo)

		_, err := svc.AdminCreateTransaction(ctx, 7, ManualTransactionRequest{
			UserID: 1, Type: models.TransactionTypeDeposit, Amount: 40, UpdateWallet: true,
		})
		require.NoError(t, err)

		w := repo.Wallet(1)
		assert.Equal(t, float64(140), w.Balance)
		assert.Equal(t, float64(40), w.TotalDeposited)
	})

	t.Run("withdrawal replay clamps at zero", func(t *testing.T) {
		repo := repotest.NewFakeWalletRepo()
		repo.SeedWallet(models.Wallet{UserID: 1, Balance: 25})
		svc := newTestService(repo)

		_, err := svc.AdminCreateTransaction(ctx, 7, ManualTransactionRequest{
			UserID: 1, Type: models.TransactionTypeWithdrawal, Amount: 60, UpdateWallet: true,
		})
		require.NoError(t, err)

		w := repo.Wallet(1)
		assert.Zero(t, w.Balance)
		assert.Equal(t, float64(60), w.TotalWithdrawn)
	})
}
