package wallet

import "errors"

// Service errors
var (
	ErrWalletNotFound         = errors.New("wallet not found")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrDepositBelowMinimum    = errors.New("deposit below minimum")
	ErrWithdrawalBelowMinimum = errors.New("withdrawal below minimum")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInvalidAdjustment      = errors.New("invalid adjustment action")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrLedgerFailed           = errors.New("ledger operation failed")
)
