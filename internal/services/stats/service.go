package stats

import (
	"context"
	"fmt"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories"

	"go.uber.org/zap"
)

// Dashboard aggregates the numbers the back office landing page shows.
type Dashboard struct {
	TotalUsers         int64   `json:"total_users"`
	ActiveUsers        int64   `json:"active_users"`
	PendingUsers       int64   `json:"pending_users"`
	TotalDeposits      float64 `json:"total_deposits"`
	TotalWithdrawals   float64 `json:"total_withdrawals"`
	PendingWithdrawals float64 `json:"pending_withdrawals"`
	ActiveInvestments  int64   `json:"active_investments"`
	InvestedAmount     float64 `json:"invested_amount"`
}

// FullUser is the admin view of one account: the user row plus wallet,
// positions and recent ledger activity.
type FullUser struct {
	User           models.User          `json:"user"`
	Wallet         *models.Wallet       `json:"wallet,omitempty"`
	Investments    []models.Investment  `json:"investments"`
	Transactions   []models.Transaction `json:"transactions"`
	TotalInvested  float64              `json:"total_invested"`
	TotalProfit    float64              `json:"total_profit"`
	PortfolioValue float64              `json:"portfolio_value"`
}

// Service computes admin aggregates. Reads only; nothing here mutates.
type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	FullUser(ctx context.Context, userID uint) (*FullUser, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error)
}

type service struct {
	users       repositories.UserRepository
	wallets     repositories.WalletRepository
	investments repositories.InvestmentRepository
	logger      *zap.Logger
}

// NewService creates a new stats service.
func NewService(
	users repositories.UserRepository,
	wallets repositories.WalletRepository,
	investments repositories.InvestmentRepository,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{users: users, wallets: wallets, investments: investments, logger: logger}
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	var err error

	if d.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if d.ActiveUsers, err = s.users.CountByStatus(ctx, models.UserStatusActive); err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}
	if d.PendingUsers, err = s.users.CountByStatus(ctx, models.UserStatusPending); err != nil {
		return nil, fmt.Errorf("failed to count pending users: %w", err)
	}

	if d.TotalDeposits, err = s.wallets.SumTransactions(ctx, models.TransactionTypeDeposit, models.TransactionStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to sum deposits: %w", err)
	}
	if d.TotalWithdrawals, err = s.wallets.SumTransactions(ctx, models.TransactionTypeWithdrawal, models.TransactionStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to sum withdrawals: %w", err)
	}
	if d.PendingWithdrawals, err = s.wallets.SumTransactions(ctx, models.TransactionTypeWithdrawal, models.TransactionStatusPending); err != nil {
		return nil, fmt.Errorf("failed to sum pending withdrawals: %w", err)
	}

	if d.ActiveInvestments, err = s.investments.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("failed to count investments: %w", err)
	}
	if d.InvestedAmount, err = s.investments.SumActiveAmount(ctx); err != nil {
		return nil, fmt.Errorf("failed to sum investments: %w", err)
	}

	return d, nil
}

func (s *service) FullUser(ctx context.Context, userID uint) (*FullUser, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, repositories.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.Password = ""

	full := &FullUser{User: *user}

	if w, err := s.wallets.GetByUserID(userID); err == nil {
		full.Wallet = w
	} else if err != repositories.ErrWalletNotFound {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	invs, err := s.investments.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	full.Investments = invs
	for _, inv := range invs {
		if inv.Status == models.InvestmentStatusActive {
			full.TotalInvested += inv.Amount
			full.PortfolioValue += inv.CurrentValue
		}
		full.TotalProfit += inv.Profit
	}

	txs, err := s.wallets.GetTransactionsByUser(ctx, userID, 20, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	full.Transactions = txs

	return full, nil
}

func (s *service) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	users, total, err := s.users.GetUsersPaginated(ctx, limit, offset)
	if err != nil {
		s.logger.Error("user listing failed", zap.Error(err))
		return nil, 0, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, total, nil
}
