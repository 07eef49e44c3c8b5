package review

import (
	"context"
	"testing"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID = uint(99)

func seedPending(repo *repotest.FakeWalletRepo, txType string, amount float64) uint {
	return repo.SeedTransaction(models.Transaction{
		UserID: 1,
		Type:   txType,
		Amount: amount,
		Status: models.TransactionStatusPending,
	})
}

func TestReview_ApproveDeposit(t *testing.T) {
	repo := repotest.NewFakeWalletRepo()
	repo.SeedWallet(models.Wallet{UserID: 1, Balance: 50, TotalDeposited: 50})
	id := seedPending(repo, models.TransactionTypeDeposit, 100)
	svc := NewService(repo, repotest.FakeCache{}, nil, nil)

	tx, err := svc.Review(context.Background(), adminID, id, models.TransactionStatusCompleted, "verified")
	require.NoError(t, err)

	assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	require.NotNil(t, tx.ProcessedAt)
	require.NotNil(t, tx.ProcessedBy)
	assert.Equal(t, adminID, *tx.ProcessedBy)
	assert.Contains(t, tx.Description, "verified")

	w := repo.Wallet(1)
	assert.Equal(t, float64(150), w.Balance)
	assert.Equal(t, float64(150), w.TotalDeposited)
}

func TestReview_RejectDeposit(t *testing.T) {
	repo := repotest.NewFakeWalletRepo()
	repo.SeedWallet(models.Wallet{UserID: 1, Balance: 50})
	id := seedPending(repo, models.TransactionTypeDeposit, 100)
	svc := NewService(repo, repotest.FakeCache{}, nil, nil)

	tx, err := svc.Review(context.Background(), adminID, id, models.TransactionStatusFailed, "")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, tx.Status)

	// A deposit never touched the balance, so rejection changes nothing.
	assert.Equal(t, float64(50), repo.Wallet(1).Balance)
}

func TestReview_ApproveWithdrawal(t *testing.T) {
	repo := repotest.NewFakeWalletRepo()
	repo.SeedWallet(models.Wallet{UserID: 1, Balance: 1000, PendingWithdrawals: 300})
	id := seedPending(repo, models.TransactionTypeWithdrawal, 300)
	svc := NewService(repo, repotest.FakeCache{}, nil, nil)

	_, err := svc.Review(context.Background(), adminID, id, models.TransactionStatusCompleted, "")
	require.NoError(t, err)

	w := repo.Wallet(1)
	assert.Equal(t, float64(700), w.Balance)
	assert.Zero(t, w.PendingWithdrawals)
	assert.Equal(t, float64(300), w.TotalWithdrawn)
}

func TestReview_RejectWithdrawalReleasesReservation(t *testing.T) {
	repo := repotest.NewFakeWalletRepo()
	repo.SeedWallet(models.Wallet{UserID: 1, Balance: 1000, PendingWithdrawals: 300})
	id := seedPending(repo, models.TransactionTypeWithdrawal, 300)
	svc := NewService(repo, repotest.FakeCache{}, nil, nil)

	_, err := svc.Review(context.Background(), adminID, id, models.TransactionStatusFailed, "bank rejected")
	require.NoError(t, err)

	w := repo.Wallet(1)
	assert.Equal(t, float64(1000), w.Balance, "failed withdrawal must not move the balance")
	assert.Zero(t, w.PendingWithdrawals)
	assert.Zero(t, w.TotalWithdrawn)
}

func TestReview_TerminalIsImmutable(t *testing.T) {
	repo := repotest.NewFakeWalletRepo()
	repo.SeedWallet(models.Wallet{UserID: 1, Balance: 50})
	id := seedPending(repo, models.TransactionTypeDeposit, 100)
	svc := NewService(repo, repotest.FakeCache{}, nil, nil)

	_, err := svc.Review(context.Background(), adminID, id, models.TransactionStatusCompleted, "")
	require.NoError(t, err)
	assert.Equal(t, float64(150), repo.Wallet(1).Balance)

	// A second approval must fail and must not credit again.
	_, err = svc.Review(context.Background(), adminID, id, models.TransactionStatusCompleted, "")
	assert.ErrorIs(t, err, ErrAlreadyFinal)
	assert.Equal(t, float64(150), repo.Wallet(1).Balance)

	// Neither may a late rejection.
	_, err = svc.Review(context.Background(), adminID, id, models.TransactionStatusFailed, "")
	assert.ErrorIs(t, err, ErrAlreadyFinal)
	assert.Equal(t, float64(150), repo.Wallet(1).Balance)
}

func TestReview_ProcessingThenCompleted(t *testing.T) {
	repo := repotest.NewFakeWalletRepo()
	repo.SeedWallet(models.Wallet{UserID: 1, Balance: 0})
	id := seedPending(repo, models.TransactionTypeDeposit, 100)
	svc := NewService(repo, repotest.FakeCache{}, nil, nil)

	tx, err := svc.Review(context.Background(), adminID, id, models.TransactionStatusProcessing, "")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusProcessing, tx.Status)
	assert.Zero(t, repo.Wallet(1).Balance, "processing is not terminal")

	tx, err = svc.Review(context.Background(), adminID, id, models.TransactionStatusCompleted, "")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	assert.Equal(t, float64(100), repo.Wallet(1).Balance)
}

func TestReview_InvalidInput(t *testing.T) {
	repo := repotest.NewFakeWalletRepo()
	svc := NewService(repo, repotest.FakeCache{}, nil, nil)

	_, err := svc.Review(context.Background(), adminID, 1, "approved", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Review(context.Background(), adminID, 42, models.TransactionStatusCompleted, "")
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	// pending is not a review target
	id := seedPending(repo, models.TransactionTypeDeposit, 100)
	_, err = svc.Review(context.Background(), adminID, id, models.TransactionStatusPending, "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestReview_CancelWithdrawal(t *testing.T) {
	repo := repotest.NewFakeWalletRepo()
	repo.SeedWallet(models.Wallet{UserID: 1, Balance: 500, PendingWithdrawals: 200})
	id := seedPending(repo, models.TransactionTypeWithdrawal, 200)
	svc := NewService(repo, repotest.FakeCache{}, nil, nil)

	tx, err := svc.Review(context.Background(), adminID, id, models.TransactionStatusCancelled, "")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCancelled, tx.Status)

	w := repo.Wallet(1)
	assert.Equal(t, float64(500), w.Balance)
	assert.Zero(t, w.PendingWithdrawals)
}
