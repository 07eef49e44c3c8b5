package wallet

// Default business rules, overridable through Config.
const (
	DefaultCurrency      = "USD"
	DefaultMinDeposit    = 10.0
	DefaultMinWithdrawal = 50.0
	DefaultWithdrawalFee = 5.0
)

// Admin adjustment actions
const (
	AdjustActionAdd      = "add"
	AdjustActionSubtract = "subtract"
	AdjustActionSet      = "set"
)
