package repositories

import "errors"

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrPlanNotFound        = errors.New("investment plan not found")
	ErrInvestmentNotFound  = errors.New("investment not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateWallet     = errors.New("wallet already exists")
	ErrDuplicateEmail      = errors.New("email already registered")
)
