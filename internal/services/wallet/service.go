package wallet

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories"
	"github.com/gallahphu-bit/atlasyield/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the mutation surface over the wallet ledger. Every balance
// change is paired with exactly one ledger entry inside a single
// database transaction, with the wallet row locked for the duration.
type Service interface {
	GetOrCreateWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	RequestDeposit(ctx context.Context, userID uint, amount float64, method string, metadata models.JSON) (*models.Transaction, error)
	RequestWithdrawal(ctx context.Context, userID uint, amount float64, bankDetails models.JSON) (*models.Transaction, error)
	AdminAdjust(ctx context.Context, adminID, userID uint, req AdjustmentRequest) (*models.Wallet, *models.Transaction, error)
	AdminCreateTransaction(ctx context.Context, adminID uint, req ManualTransactionRequest) (*models.Transaction, error)
	GetTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)
}

type service struct {
	repo    repositories.WalletRepository
	cache   Cache
	config  Config
	metrics MetricsCollector
	logger  *zap.Logger
}

// NewService creates a new wallet service.
func NewService(repo repositories.WalletRepository, cache Cache, config Config, metrics MetricsCollector, logger *zap.Logger) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultCurrency
	}
	if config.MinDeposit == 0 {
		config.MinDeposit = DefaultMinDeposit
	}
	if config.MinWithdrawal == 0 {
		config.MinWithdrawal = DefaultMinWithdrawal
	}
	if config.WithdrawalFee == 0 {
		config.WithdrawalFee = DefaultWithdrawalFee
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		repo:    repo,
		cache:   cache,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *service) GetOrCreateWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if w, found, _ := s.cache.GetWallet(ctx, userID); found {
		return w, nil
	}

	w, err := s.repo.GetByUserID(userID)
	if err == nil {
		s.cache.CacheWallet(ctx, w)
		return w, nil
	}
	if err != repositories.ErrWalletNotFound {
		s.logger.Error("wallet lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	w = &models.Wallet{
		UserID:   userID,
		Currency: s.config.DefaultCurrency,
	}
	if err := s.repo.Create(w); err != nil {
		// Lost a create race; the row exists now.
		if existing, getErr := s.repo.GetByUserID(userID); getErr == nil {
			return existing, nil
		}
		s.logger.Error("wallet create failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	s.cache.CacheWallet(ctx, w)
	return w, nil
}

// RequestDeposit records a pending deposit. The balance is untouched
// until an admin review completes the transaction.
func (s *service) RequestDeposit(ctx context.Context, userID uint, amount float64, method string, metadata models.JSON) (*models.Transaction, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("request_deposit", time.Since(start)) }()

	if amount < s.config.MinDeposit {
		s.metrics.RecordError("request_deposit", "below_minimum")
		return nil, fmt.Errorf("%w: minimum deposit is %.2f", ErrDepositBelowMinimum, s.config.MinDeposit)
	}

	if _, err := s.GetOrCreateWallet(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.newLedgerEntry(userID, models.TransactionTypeDeposit, amount, 0, method, "Deposit request", metadata)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(tx); err != nil {
		s.metrics.RecordError("request_deposit", "storage")
		s.logger.Error("deposit request failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, ErrLedgerFailed
	}

	s.metrics.RecordTransaction(models.TransactionTypeDeposit, amount)
	return tx, nil
}

// RequestWithdrawal reserves funds by bumping pending withdrawals and
// records a pending withdrawal entry. Reservation and record commit
// together.
func (s *service) RequestWithdrawal(ctx context.Context, userID uint, amount float64, bankDetails models.JSON) (*models.Transaction, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("request_withdrawal", time.Since(start)) }()

	if amount < s.config.MinWithdrawal {
		s.metrics.RecordError("request_withdrawal", "below_minimum")
		return nil, fmt.Errorf("%w: minimum withdrawal is %.2f", ErrWithdrawalBelowMinimum, s.config.MinWithdrawal)
	}

	tx, err := s.newLedgerEntry(userID, models.TransactionTypeWithdrawal, amount, s.config.WithdrawalFee, models.MethodBankTransfer, "Withdrawal request", bankDetails)
	if err != nil {
		return nil, err
	}

	err = s.repo.ExecuteInTransaction(func(repo repositories.WalletRepository) error {
		w, err := repo.GetByUserIDForUpdate(userID)
		if err != nil {
			if err == repositories.ErrWalletNotFound {
				return ErrWalletNotFound
			}
			return err
		}

		if w.AvailableBalance() < amount {
			return ErrInsufficientBalance
		}

		w.PendingWithdrawals += amount
		if err := repo.Update(w); err != nil {
			return err
		}
		return repo.CreateTransaction(tx)
	})
	if err != nil {
		switch err {
		case ErrInsufficientBalance, ErrWalletNotFound:
			s.metrics.RecordError("request_withdrawal", "insufficient_funds")
			return nil, err
		}
		s.metrics.RecordError("request_withdrawal", "storage")
		s.logger.Error("withdrawal request failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, ErrLedgerFailed
	}

	s.cache.InvalidateWallet(ctx, userID)
	s.metrics.RecordTransaction(models.TransactionTypeWithdrawal, amount)
	return tx, nil
}

// AdminAdjust applies a manual balance adjustment and records the net
// effect as a completed ledger entry. A set to the current balance is a
// no-op and produces no entry.
func (s *service) AdminAdjust(ctx context.Context, adminID, userID uint, req AdjustmentRequest) (*models.Wallet, *models.Transaction, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("admin_adjust", time.Since(start)) }()

	switch req.Action {
	case AdjustActionAdd, AdjustActionSubtract:
		if req.Amount <= 0 {
			return nil, nil, ErrInvalidAmount
		}
	case AdjustActionSet:
		if req.Balance < 0 {
			return nil, nil, ErrInvalidAmount
		}
	default:
		return nil, nil, ErrInvalidAdjustment
	}

	var (
		wallet *models.Wallet
		entry  *models.Transaction
	)

	err := s.repo.ExecuteInTransaction(func(repo repositories.WalletRepository) error {
		w, err := repo.GetByUserIDForUpdate(userID)
		if err != nil {
			if err == repositories.ErrWalletNotFound {
				w = &models.Wallet{UserID: userID, Currency: s.config.DefaultCurrency}
				if err := repo.Create(w); err != nil {
					return err
				}
			} else {
				return err
			}
		}

		oldBalance := w.Balance
		txType := models.TransactionTypeBonus
		var delta float64

		switch req.Action {
		case AdjustActionAdd:
			delta = req.Amount
			w.Balance += req.Amount
			w.TotalDeposited += req.Amount
		case AdjustActionSubtract:
			delta = -req.Amount
			w.Balance -= req.Amount
			if w.Balance < 0 {
				delta = -oldBalance
				w.Balance = 0
			}
			txType = models.TransactionTypeRefund
		case AdjustActionSet:
			delta = req.Balance - w.Balance
			w.Balance = req.Balance
			if delta > 0 {
				w.TotalDeposited += delta
			}
		}

		if w.PendingWithdrawals > w.Balance {
			w.PendingWithdrawals = w.Balance
		}

		if err := repo.Update(w); err != nil {
			return err
		}
		wallet = w
		s.metrics.RecordBalanceChange(userID, oldBalance, w.Balance)

		if delta == 0 {
			return nil
		}

		description := req.Description
		if description == "" {
			description = fmt.Sprintf("Admin %s - %s", req.Action, txType)
		}

		now := time.Now()
		tx, err := s.newLedgerEntry(userID, txType, math.Abs(delta), 0, models.MethodInternal, description, nil)
		if err != nil {
			return err
		}
		tx.Status = models.TransactionStatusCompleted
		tx.ProcessedAt = &now
		tx.ProcessedBy = &adminID
		if err := repo.CreateTransaction(tx); err != nil {
			return err
		}
		entry = tx
		return nil
	})
	if err != nil {
		s.metrics.RecordError("admin_adjust", "storage")
		s.logger.Error("admin adjustment failed",
			zap.Uint("admin_id", adminID),
			zap.Uint("user_id", userID),
			zap.String("action", req.Action),
			zap.Error(err))
		return nil, nil, ErrLedgerFailed
	}

	s.cache.InvalidateWallet(ctx, userID)
	if entry != nil {
		s.metrics.RecordTransaction(entry.Type, entry.Amount)
	}
	s.logger.Info("admin wallet adjustment",
		zap.Uint("admin_id", adminID),
		zap.Uint("user_id", userID),
		zap.String("action", req.Action),
		zap.Float64("balance", wallet.Balance))
	return wallet, entry, nil
}

// AdminCreateTransaction writes a completed manual ledger entry and,
// when requested, replays its effect on the wallet. Debits clamp at
// zero, matching the adjustment semantics.
func (s *service) AdminCreateTransaction(ctx context.Context, adminID uint, req ManualTransactionRequest) (*models.Transaction, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	switch req.Type {
	case models.TransactionTypeDeposit, models.TransactionTypeWithdrawal,
		models.TransactionTypeProfit, models.TransactionTypeBonus, models.TransactionTypeRefund:
	default:
		return nil, ErrInvalidTransactionType
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Admin %s", req.Type)
	}

	now := time.Now()
	tx, err := s.newLedgerEntry(req.UserID, req.Type, req.Amount, 0, models.MethodInternal, description, nil)
	if err != nil {
		return nil, err
	}
	tx.Status = models.TransactionStatusCompleted
	tx.ProcessedAt = &now
	tx.ProcessedBy = &adminID

	err = s.repo.ExecuteInTransaction(func(repo repositories.WalletRepository) error {
		if err := repo.CreateTransaction(tx); err != nil {
			return err
		}
		if !req.UpdateWallet {
			return nil
		}

		w, err := repo.GetByUserIDForUpdate(req.UserID)
		if err != nil {
			return err
		}

		switch req.Type {
		case models.TransactionTypeDeposit:
			w.Balance += req.Amount
			w.TotalDeposited += req.Amount
		case models.TransactionTypeBonus, models.TransactionTypeProfit:
			w.Balance += req.Amount
		case models.TransactionTypeWithdrawal:
			w.Balance -= req.Amount
			if w.Balance < 0 {
				w.Balance = 0
			}
			w.TotalWithdrawn += req.Amount
		case models.TransactionTypeRefund:
			w.Balance -= req.Amount
			if w.Balance < 0 {
				w.Balance = 0
			}
		}
		if w.PendingWithdrawals > w.Balance {
			w.PendingWithdrawals = w.Balance
		}
		return repo.Update(w)
	})
	if err != nil {
		s.metrics.RecordError("admin_create_transaction", "storage")
		s.logger.Error("manual transaction failed",
			zap.Uint("admin_id", adminID),
			zap.Uint("user_id", req.UserID),
			zap.Error(err))
		return nil, ErrLedgerFailed
	}

	s.cache.InvalidateWallet(ctx, req.UserID)
	s.metrics.RecordTransaction(req.Type, req.Amount)
	return tx, nil
}

func (s *service) GetTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error) {
	txs, err := s.repo.GetTransactionsByUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("transaction history fetch failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return txs, nil
}

func (s *service) newLedgerEntry(userID uint, txType string, amount, fee float64, method, description string, metadata models.JSON) (*models.Transaction, error) {
	ref, err := utils.GenerateReference(txType, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate reference: %w", err)
	}
	return &models.Transaction{
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		Fee:           fee,
		Status:        models.TransactionStatusPending,
		Method:        method,
		Reference:     ref,
		TransactionID: uuid.NewString(),
		Description:   description,
		Currency:      s.config.DefaultCurrency,
		Metadata:      metadata,
	}, nil
}
