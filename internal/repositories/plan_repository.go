package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/gallahphu-bit/atlasyield/internal/models"

	"gorm.io/gorm"
)

// PlanRepository manages the investment plan catalog.
type PlanRepository interface {
	Create(plan *models.InvestmentPlan) error
	GetByID(id uint) (*models.InvestmentPlan, error)
	Update(plan *models.InvestmentPlan) error
	Delete(id uint) error
	GetAll(ctx context.Context) ([]models.InvestmentPlan, error)
	GetActive(ctx context.Context) ([]models.InvestmentPlan, error)
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(plan *models.InvestmentPlan) error {
	if err := r.db.Create(plan).Error; err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *planRepository) GetByID(id uint) (*models.InvestmentPlan, error) {
	var plan models.InvestmentPlan
	if err := r.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &plan, nil
}

func (r *planRepository) Update(plan *models.InvestmentPlan) error {
	if err := r.db.Save(plan).Error; err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return nil
}

func (r *planRepository) Delete(id uint) error {
	result := r.db.Delete(&models.InvestmentPlan{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *planRepository) GetAll(ctx context.Context) ([]models.InvestmentPlan, error) {
	var plans []models.InvestmentPlan
	if err := r.db.WithContext(ctx).Order("min_amount ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (r *planRepository) GetActive(ctx context.Context) ([]models.InvestmentPlan, error) {
	var plans []models.InvestmentPlan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("min_amount ASC").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}
	return plans, nil
}
