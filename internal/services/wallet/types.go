package wallet

import (
	"context"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/models"
)

// Config holds the business rules for wallet operations.
type Config struct {
	DefaultCurrency string
	MinDeposit      float64
	MinWithdrawal   float64
	WithdrawalFee   float64
}

// AdjustmentRequest is an admin ledger adjustment. Amount is used by
// add/subtract; Balance is the target for set.
type AdjustmentRequest struct {
	Action      string
	Amount      float64
	Balance     float64
	Description string
}

// ManualTransactionRequest is an admin-authored ledger entry, optionally
// replayed onto the wallet balance.
type ManualTransactionRequest struct {
	UserID       uint
	Type         string
	Amount       float64
	Description  string
	UpdateWallet bool
}

// Cache is the subset of the cache service the wallet service needs.
type Cache interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, bool, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}

// MetricsCollector records wallet operation metrics.
type MetricsCollector interface {
	RecordOperationDuration(operation string, d time.Duration)
	RecordTransaction(txType string, amount float64)
	RecordError(operation, errType string)
	RecordBalanceChange(userID uint, oldBalance, newBalance float64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (NoopMetricsCollector) RecordTransaction(string, float64)             {}
func (NoopMetricsCollector) RecordError(string, string)                    {}
func (NoopMetricsCollector) RecordBalanceChange(uint, float64, float64)    {}
