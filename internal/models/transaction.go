package models

import (
	"time"
)

// Transaction types
const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeInvestment = "investment"
	TransactionTypeProfit     = "profit"
	TransactionTypeBonus      = "bonus"
	TransactionTypeRefund     = "refund"
)

// Transaction statuses
const (
	TransactionStatusPending    = "pending"
	TransactionStatusProcessing = "processing"
	TransactionStatusCompleted  = "completed"
	TransactionStatusFailed     = "failed"
	TransactionStatusCancelled  = "cancelled"
)

// Payment methods
const (
	MethodBankTransfer = "bank_transfer"
	MethodCard         = "card"
	MethodCrypto       = "crypto"
	MethodInternal     = "internal"
)

// Transaction is an append-only ledger entry. After creation only the
// status and the review stamps may change.
type Transaction struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	Type          string     `gorm:"not null" json:"type"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Fee           float64    `gorm:"default:0" json:"fee"`
	Status        string     `gorm:"not null;default:'pending'" json:"status"`
	Method        string     `json:"method"`
	Reference     string     `gorm:"uniqueIndex;not null" json:"reference"`
	TransactionID string     `json:"transaction_id"` // external UUID
	Description   string     `json:"description"`
	Currency      string     `gorm:"default:'USD'" json:"currency"`
	Metadata      JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	ProcessedBy   *uint      `json:"processed_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsTerminalStatus reports whether a transaction status permits no
// further transitions.
func IsTerminalStatus(status string) bool {
	switch status {
	case TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusCancelled:
		return true
	}
	return false
}
