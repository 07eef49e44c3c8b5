package models

import (
	"time"

	"github.com/lib/pq"
)

// Plan risk levels
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Plan types. Fixed plans mature after Duration days; Flexible plans
// (Duration 0) have no term and never mature on their own.
const (
	PlanTypeFixed    = "Fixed"
	PlanTypeFlexible = "Flexible"
)

// InvestmentPlan is an admin-managed catalog entry describing the terms
// investors can buy into.
type InvestmentPlan struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"not null" json:"description"`
	MinAmount   float64        `gorm:"not null" json:"min_amount"`
	MaxAmount   float64        `gorm:"not null" json:"max_amount"`
	Duration    int            `gorm:"not null" json:"duration"`    // days, 0 = flexible
	ReturnRate  float64        `gorm:"not null" json:"return_rate"` // percent over the term
	RiskLevel   string         `gorm:"default:'Medium'" json:"risk_level"`
	Type        string         `gorm:"default:'Fixed'" json:"type"`
	Features    pq.StringArray `gorm:"type:text[]" json:"features"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	Popular     bool           `gorm:"default:false" json:"popular"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// IsFlexible reports whether the plan has no fixed term.
func (p *InvestmentPlan) IsFlexible() bool {
	return p.Type == PlanTypeFlexible || p.Duration == 0
}
