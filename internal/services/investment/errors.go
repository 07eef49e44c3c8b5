package investment

import "errors"

// Service errors
var (
	ErrPlanNotFound         = errors.New("investment plan not found")
	ErrPlanInactive         = errors.New("investment plan is not active")
	ErrPlanHasOpenPositions = errors.New("plan has open investments")
	ErrAmountOutOfRange     = errors.New("amount outside plan limits")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInvestmentNotFound   = errors.New("investment not found")
	ErrInvalidPlan          = errors.New("invalid plan definition")
	ErrLedgerFailed         = errors.New("ledger operation failed")
)
