package models

import (
	"time"
)

// Wallet is the per-user custodial balance record. Balance never goes
// negative; PendingWithdrawals tracks funds reserved by withdrawal
// requests that have not been reviewed yet.
type Wallet struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	UserID             uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance            float64   `gorm:"default:0" json:"balance"`
	Currency           string    `gorm:"default:'USD'" json:"currency"`
	TotalDeposited     float64   `gorm:"default:0" json:"total_deposited"`
	TotalWithdrawn     float64   `gorm:"default:0" json:"total_withdrawn"`
	PendingWithdrawals float64   `gorm:"default:0" json:"pending_withdrawals"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AvailableBalance is the spendable part of the balance, derived and
// never persisted.
func (w *Wallet) AvailableBalance() float64 {
	return w.Balance - w.PendingWithdrawals
}
