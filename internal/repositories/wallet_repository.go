package repositories

import (
	"context"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/models"
)

// WalletRepository is the persistence surface for wallets and their
// ledger entries. GetByUserIDForUpdate takes a row lock and is only
// meaningful inside ExecuteInTransaction; every balance mutation is
// expected to go through that pair so the balance change and its ledger
// entry commit or roll back together.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByUserID(userID uint) (*models.Wallet, error)
	GetByUserIDForUpdate(userID uint) (*models.Wallet, error)
	Update(wallet *models.Wallet) error

	CreateTransaction(tx *models.Transaction) error
	GetTransactionByID(id uint) (*models.Transaction, error)
	GetTransactionByIDForUpdate(id uint) (*models.Transaction, error)
	UpdateTransaction(tx *models.Transaction) error
	GetTransactionsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)
	GetTransactionsPaginated(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error)
	SumTransactions(ctx context.Context, txType, status string) (float64, error)
	GetTransactionStats(start, end time.Time) (*TransactionStats, error)

	ExecuteInTransaction(fn func(WalletRepository) error) error
}

// TransactionStats represents aggregated ledger statistics.
type TransactionStats struct {
	TotalTransactions int64
	TotalVolume       float64
	AvgAmount         float64
	MaxAmount         float64
	MinAmount         float64
	SuccessRate       float64
}
