package investment

import (
	"context"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/models"
)

// InvestmentView is an investment annotated with its derived progress.
type InvestmentView struct {
	models.Investment
	Progress int `json:"progress"`
}

// AdminCreateRequest creates a position on behalf of a user. Plan
// min/max bounds are not enforced on this path.
type AdminCreateRequest struct {
	UserID           uint
	PlanID           uint
	Amount           float64
	CustomProfit     float64
	CustomDuration   int // days; 0 keeps the plan duration
	DeductFromWallet bool
}

// AdminUpdateRequest overwrites any non-nil subset of fields with no
// transition validation. Progress is derived and cannot be set.
type AdminUpdateRequest struct {
	Amount       *float64
	Profit       *float64
	Status       *string
	MaturityDate *time.Time
}

// PlanCache caches the active plan catalog.
type PlanCache interface {
	GetActivePlans(ctx context.Context) ([]models.InvestmentPlan, bool, error)
	CacheActivePlans(ctx context.Context, plans []models.InvestmentPlan) error
	InvalidateActivePlans(ctx context.Context) error
	InvalidateWallet(ctx context.Context, userID uint) error
}
