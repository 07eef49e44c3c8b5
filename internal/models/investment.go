package models

import (
	"math"
	"time"
)

// Investment statuses
const (
	InvestmentStatusActive    = "active"
	InvestmentStatusCompleted = "completed"
	InvestmentStatusCancelled = "cancelled"
)

// Investment is a user's position in a plan. The plan terms in effect at
// purchase time (name, rate, duration) are snapshotted onto the position
// so later plan edits or deletion cannot change it retroactively.
type Investment struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	PlanID       uint       `gorm:"index;not null" json:"plan_id"`
	PlanName     string     `gorm:"not null" json:"plan_name"`
	ReturnRate   float64    `gorm:"not null" json:"return_rate"`
	Duration     int        `gorm:"not null" json:"duration"`  // days, 0 = flexible
	Amount       float64    `gorm:"not null" json:"amount"`
	Status       string     `gorm:"default:'active'" json:"status"`
	StartDate    time.Time  `gorm:"not null" json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`        // nil for flexible positions
	CurrentValue float64    `json:"current_value"`
	Profit       float64    `gorm:"default:0" json:"profit"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ProgressAt returns the elapsed share of the term as a percentage in
// [0, 100], rounded to the nearest integer. Flexible positions have no
// term and always report 0. Derived on every read, never stored.
func (i *Investment) ProgressAt(now time.Time) int {
	if i.EndDate == nil {
		return 0
	}
	total := i.EndDate.Sub(i.StartDate)
	if total <= 0 {
		return 0
	}
	elapsed := now.Sub(i.StartDate)
	pct := math.Round(float64(elapsed) / float64(total) * 100)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// IsDueAt reports whether a fixed-term position has reached its end date
// and should mature.
func (i *Investment) IsDueAt(now time.Time) bool {
	return i.Status == InvestmentStatusActive && i.EndDate != nil && !now.Before(*i.EndDate)
}
