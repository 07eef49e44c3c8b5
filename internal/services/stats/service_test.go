package stats

import (
	"context"
	"testing"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	users := repotest.NewFakeUserRepo()
	wallets := repotest.NewFakeWalletRepo()
	invs := repotest.NewFakeInvestmentRepo(wallets)
	svc := NewService(users, wallets, invs, nil)

	require.NoError(t, users.Create(&models.User{Email: "a@example.com", Password: "x", Status: models.UserStatusActive}))
	require.NoError(t, users.Create(&models.User{Email: "b@example.com", Password: "x", Status: models.UserStatusActive}))
	require.NoError(t, users.Create(&models.User{Email: "c@example.com", Password: "x", Status: models.UserStatusPending}))

	wallets.SeedTransaction(models.Transaction{UserID: 1, Type: models.TransactionTypeDeposit, Amount: 500, Status: models.TransactionStatusCompleted})
	wallets.SeedTransaction(models.Transaction{UserID: 2, Type: models.TransactionTypeDeposit, Amount: 300, Status: models.TransactionStatusCompleted})
	wallets.SeedTransaction(models.Transaction{UserID: 1, Type: models.TransactionTypeDeposit, Amount: 999, Status: models.TransactionStatusPending})
	wallets.SeedTransaction(models.Transaction{UserID: 1, Type: models.TransactionTypeWithdrawal, Amount: 100, Status: models.TransactionStatusCompleted})
	wallets.SeedTransaction(models.Transaction{UserID: 2, Type: models.TransactionTypeWithdrawal, Amount: 70, Status: models.TransactionStatusPending})

	require.NoError(t, invs.Create(&models.Investment{UserID: 1, PlanID: 1, Amount: 400, Status: models.InvestmentStatusActive}))
	require.NoError(t, invs.Create(&models.Investment{UserID: 2, PlanID: 1, Amount: 100, Status: models.InvestmentStatusCompleted}))

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), d.TotalUsers)
	assert.Equal(t, int64(2), d.ActiveUsers)
	assert.Equal(t, int64(1), d.PendingUsers)
	assert.Equal(t, float64(800), d.TotalDeposits, "pending deposits do not count")
	assert.Equal(t, float64(100), d.TotalWithdrawals)
	assert.Equal(t, float64(70), d.PendingWithdrawals)
	assert.Equal(t, int64(1), d.ActiveInvestments)
	assert.Equal(t, float64(400), d.InvestedAmount)
}

func TestFullUser(t *testing.T) {
	users := repotest.NewFakeUserRepo()
	wallets := repotest.NewFakeWalletRepo()
	invs := repotest.NewFakeInvestmentRepo(wallets)
	svc := NewService(users, wallets, invs, nil)

	user := &models.User{Email: "a@example.com", Password: "hash"}
	require.NoError(t, users.Create(user))
	wallets.SeedWallet(models.Wallet{UserID: user.ID, Balance: 900})

	start := time.Now().AddDate(0, 0, -10)
	require.NoError(t, invs.Create(&models.Investment{
		UserID: user.ID, PlanID: 1, Amount: 500, CurrentValue: 500,
		Status: models.InvestmentStatusActive, StartDate: start,
	}))
	require.NoError(t, invs.Create(&models.Investment{
		UserID: user.ID, PlanID: 1, Amount: 200, CurrentValue: 236, Profit: 36,
		Status: models.InvestmentStatusCompleted, StartDate: start,
	}))
	wallets.SeedTransaction(models.Transaction{UserID: user.ID, Type: models.TransactionTypeDeposit, Amount: 900, Status: models.TransactionStatusCompleted})

	full, err := svc.FullUser(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Empty(t, full.User.Password, "hash must not leak")
	require.NotNil(t, full.Wallet)
	assert.Equal(t, float64(900), full.Wallet.Balance)
	assert.Len(t, full.Investments, 2)
	assert.Len(t, full.Transactions, 1)
	assert.Equal(t, float64(500), full.TotalInvested, "only active positions")
	assert.Equal(t, float64(500), full.PortfolioValue)
	assert.Equal(t, float64(36), full.TotalProfit)
}

func TestFullUser_NotFound(t *testing.T) {
	users := repotest.NewFakeUserRepo()
	wallets := repotest.NewFakeWalletRepo()
	invs := repotest.NewFakeInvestmentRepo(wallets)
	svc := NewService(users, wallets, invs, nil)

	_, err := svc.FullUser(context.Background(), 42)
	assert.Error(t, err)
}

func TestListUsers_StripsPasswords(t *testing.T) {
	users := repotest.NewFakeUserRepo()
	wallets := repotest.NewFakeWalletRepo()
	invs := repotest.NewFakeInvestmentRepo(wallets)
	svc := NewService(users, wallets, invs, nil)

	require.NoError(t, users.Create(&models.User{Email: "a@example.com", Password: "hash"}))
	require.NoError(t, users.Create(&models.User{Email: "b@example.com", Password: "hash"}))

	list, total, err := svc.ListUsers(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	for _, u := range list {
		assert.Empty(t, u.Password)
	}
}
