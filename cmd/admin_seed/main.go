// Command admin_seed creates the initial admin account and the default
// plan catalog. Safe to run repeatedly; existing rows are left alone.
package main

import (
	"log"
	"os"

	"github.com/gallahphu-bit/atlasyield/internal/config"
	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			sqlDB.Close()
		}
		if repositories.CacheService != nil {
			repositories.CacheService.Close()
		}
	}()

	seedAdmin(adminEmail, adminPassword)
	seedPlans()
}

func seedAdmin(email, password string) {
	var existing models.User
	if err := repositories.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		Email:        email,
		Password:     string(hashed),
		FirstName:    "Platform",
		LastName:     "Admin",
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
		IsVerified:   true,
		TokenVersion: 1,
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}
	log.Println("Admin account created")
}

func seedPlans() {
	var count int64
	if err := repositories.DB.Model(&models.InvestmentPlan{}).Count(&count).Error; err != nil {
		log.Fatal("Failed to count plans:", err)
	}
	if count > 0 {
		log.Println("Plan catalog already seeded")
		return
	}

	plans := []models.InvestmentPlan{
		{
			Name:        "Starter",
			Description: "Short-term entry plan for new investors",
			MinAmount:   100,
			MaxAmount:   999,
			Duration:    30,
			ReturnRate:  5,
			RiskLevel:   models.RiskLow,
			Type:        models.PlanTypeFixed,
			Features:    pq.StringArray{"30 day term", "5% return", "Low risk"},
			IsActive:    true,
		},
		{
			Name:        "Growth",
			Description: "Balanced mid-term plan",
			MinAmount:   1000,
			MaxAmount:   9999,
			Duration:    90,
			ReturnRate:  18,
			RiskLevel:   models.RiskMedium,
			Type:        models.PlanTypeFixed,
			Features:    pq.StringArray{"90 day term", "18% return", "Priority support"},
			IsActive:    true,
			Popular:     true,
		},
		{
			Name:        "Premium",
			Description: "Long-term plan for larger portfolios",
			MinAmount:   10000,
			MaxAmount:   100000,
			Duration:    180,
			ReturnRate:  40,
			RiskLevel:   models.RiskHigh,
			Type:        models.PlanTypeFixed,
			Features:    pq.StringArray{"180 day term", "40% return", "Dedicated manager"},
			IsActive:    true,
		},
		{
			Name:        "Flex Savings",
			Description: "No fixed term; funds stay invested until withdrawn",
			MinAmount:   50,
			MaxAmount:   50000,
			Duration:    0,
			ReturnRate:  0,
			RiskLevel:   models.RiskLow,
			Type:        models.PlanTypeFlexible,
			Features:    pq.StringArray{"No lock-in", "Withdraw anytime"},
			IsActive:    true,
		},
	}

	if err := repositories.DB.Create(&plans).Error; err != nil {
		log.Fatal("Failed to seed plans:", err)
	}
	log.Printf("Seeded %d plans", len(plans))
}
