package review

import "errors"

// Service errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidStatus       = errors.New("invalid review status")
	ErrAlreadyFinal        = errors.New("transaction already in a terminal status")
	ErrNotReviewable       = errors.New("transaction type is not reviewable")
	ErrLedgerFailed        = errors.New("ledger operation failed")
)
