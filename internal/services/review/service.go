package review

import (
	"context"
	"fmt"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories"
	"github.com/gallahphu-bit/atlasyield/internal/services/wallet"

	"go.uber.org/zap"
)

// Service is the admin review surface over pending ledger entries. It
// owns the status transitions of deposits and withdrawals; the wallet
// effect of each transition commits atomically with the status change
// under a row lock on the wallet.
//
// Allowed transitions: pending → processing | completed | failed |
// cancelled, processing → completed | failed | cancelled. Terminal
// statuses never change, so a repeated approval is rejected without
// touching the wallet a second time.
type Service interface {
	Review(ctx context.Context, adminID, transactionID uint, newStatus, note string) (*models.Transaction, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error)
}

// Cache invalidates cached wallets after a review changes a balance.
type Cache interface {
	InvalidateWallet(ctx context.Context, userID uint) error
}

type service struct {
	repo    repositories.WalletRepository
	cache   Cache
	metrics wallet.MetricsCollector
	logger  *zap.Logger
}

// NewService creates a new review service.
func NewService(repo repositories.WalletRepository, cache Cache, metrics wallet.MetricsCollector, logger *zap.Logger) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if metrics == nil {
		metrics = wallet.NoopMetricsCollector{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, cache: cache, metrics: metrics, logger: logger}
}

func (s *service) Review(ctx context.Context, adminID, transactionID uint, newStatus, note string) (*models.Transaction, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("review_transaction", time.Since(start)) }()

	switch newStatus {
	case models.TransactionStatusProcessing, models.TransactionStatusCompleted,
		models.TransactionStatusFailed, models.TransactionStatusCancelled:
	default:
		return nil, ErrInvalidStatus
	}

	var (
		reviewed     *models.Transaction
		balanceMoved bool
	)

	err := s.repo.ExecuteInTransaction(func(repo repositories.WalletRepository) error {
		tx, err := repo.GetTransactionByIDForUpdate(transactionID)
		if err != nil {
			if err == repositories.ErrTransactionNotFound {
				return ErrTransactionNotFound
			}
			return err
		}

		if models.IsTerminalStatus(tx.Status) {
			return ErrAlreadyFinal
		}
		if tx.Status == models.TransactionStatusProcessing && newStatus == models.TransactionStatusProcessing {
			reviewed = tx
			return nil
		}

		if models.IsTerminalStatus(newStatus) {
			if err := s.applyEffect(repo, tx, newStatus); err != nil {
				return err
			}
			balanceMoved = tx.Type == models.TransactionTypeDeposit || tx.Type == models.TransactionTypeWithdrawal
		}

		now := time.Now()
		tx.Status = newStatus
		tx.ProcessedAt = &now
		tx.ProcessedBy = &adminID
		if note != "" {
			tx.Description = fmt.Sprintf("%s | %s", tx.Description, note)
		}
		if err := repo.UpdateTransaction(tx); err != nil {
			return err
		}
		reviewed = tx
		return nil
	})
	if err != nil {
		switch err {
		case ErrTransactionNotFound, ErrAlreadyFinal:
			return nil, err
		}
		s.metrics.RecordError("review_transaction", "storage")
		s.logger.Error("transaction review failed",
			zap.Uint("admin_id", adminID),
			zap.Uint("transaction_id", transactionID),
			zap.String("status", newStatus),
			zap.Error(err))
		return nil, ErrLedgerFailed
	}

	if balanceMoved {
		s.cache.InvalidateWallet(ctx, reviewed.UserID)
	}
	s.logger.Info("transaction reviewed",
		zap.Uint("admin_id", adminID),
		zap.Uint("transaction_id", transactionID),
		zap.String("type", reviewed.Type),
		zap.String("status", reviewed.Status))
	return reviewed, nil
}

// applyEffect replays the transaction onto its wallet for a terminal
// transition. Non-reviewable types (investment, profit, bonus, refund)
// were already settled when they were written, so only the status moves.
func (s *service) applyEffect(repo repositories.WalletRepository, tx *models.Transaction, newStatus string) error {
	switch tx.Type {
	case models.TransactionTypeDeposit:
		if newStatus != models.TransactionStatusCompleted {
			return nil
		}
		w, err := repo.GetByUserIDForUpdate(tx.UserID)
		if err != nil {
			return err
		}
		w.Balance += tx.Amount
		w.TotalDeposited += tx.Amount
		return repo.Update(w)

	case models.TransactionTypeWithdrawal:
		w, err := repo.GetByUserIDForUpdate(tx.UserID)
		if err != nil {
			return err
		}
		// Release the reservation either way; only a completed
		// withdrawal actually moves the balance.
		w.PendingWithdrawals -= tx.Amount
		if w.PendingWithdrawals < 0 {
			w.PendingWithdrawals = 0
		}
		if newStatus == models.TransactionStatusCompleted {
			w.Balance -= tx.Amount
			if w.Balance < 0 {
				w.Balance = 0
			}
			w.TotalWithdrawn += tx.Amount
		}
		return repo.Update(w)
	}
	return nil
}

func (s *service) ListAll(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error) {
	txs, total, err := s.repo.GetTransactionsPaginated(ctx, limit, offset)
	if err != nil {
		s.logger.Error("transaction listing failed", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}
