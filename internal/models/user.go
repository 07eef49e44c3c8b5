package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleSupport = "support"
)

// User account statuses
const (
	UserStatusPending   = "pending"
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// KYC statuses
const (
	KYCStatusPending   = "pending"
	KYCStatusSubmitted = "submitted"
	KYCStatusVerified  = "verified"
	KYCStatusRejected  = "rejected"
)

type User struct {
	gorm.Model
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	Password         string    `gorm:"not null" json:"-"`
	FirstName        string    `gorm:"not null" json:"first_name"`
	LastName         string    `gorm:"not null" json:"last_name"`
	Phone            string    `json:"phone"`
	Country          string    `json:"country"`
	Role             string    `gorm:"default:'user'" json:"role"`
	Status           string    `gorm:"default:'pending'" json:"status"`
	IsVerified       bool      `gorm:"default:false" json:"is_verified"`
	TwoFactorEnabled bool      `gorm:"default:false" json:"two_factor_enabled"`
	KYCStatus        string    `gorm:"default:'pending'" json:"kyc_status"`
	ReferralCode     string    `json:"referral_code"`
	WalletID         *uint     `gorm:"unique;default:null" json:"wallet_id"`
	Wallet           *Wallet   `gorm:"foreignKey:WalletID" json:"wallet,omitempty"`
	TokenVersion     int       `gorm:"default:1" json:"-"`
	LastLoginAt      time.Time `json:"last_login_at"`
	LastLoginIP      string    `json:"-"`
}

// CreateUserInput is the registration payload.
type CreateUserInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
}
