package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvestmentRepository manages investor positions.
type InvestmentRepository interface {
	Create(inv *models.Investment) error
	GetByID(id uint) (*models.Investment, error)
	GetByIDForUpdate(id uint) (*models.Investment, error)
	GetByIDForUser(id, userID uint) (*models.Investment, error)
	Update(inv *models.Investment) error
	Delete(id uint) error
	GetByUserID(ctx context.Context, userID uint) ([]models.Investment, error)
	GetDueForMaturity(ctx context.Context, now time.Time, limit int) ([]models.Investment, error)
	CountOpenByPlan(planID uint) (int64, error)
	SumActiveAmount(ctx context.Context) (float64, error)
	CountActive(ctx context.Context) (int64, error)

	// ExecuteInTransaction runs fn with investment and wallet repositories
	// bound to one database transaction, so position changes and their
	// ledger effects commit together.
	ExecuteInTransaction(fn func(InvestmentRepository, WalletRepository) error) error
}

type investmentRepository struct {
	db *gorm.DB
}

func NewInvestmentRepository(db *gorm.DB) InvestmentRepository {
	return &investmentRepository{db: db}
}

func (r *investmentRepository) Create(inv *models.Investment) error {
	if err := r.db.Create(inv).Error; err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	return nil
}

func (r *investmentRepository) GetByID(id uint) (*models.Investment, error) {
	var inv models.Investment
	if err := r.db.First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}
	return &inv, nil
}

func (r *investmentRepository) GetByIDForUpdate(id uint) (*models.Investment, error) {
	var inv models.Investment
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&inv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("failed to lock investment: %w", err)
	}
	return &inv, nil
}

func (r *investmentRepository) GetByIDForUser(id, userID uint) (*models.Investment, error) {
	var inv models.Investment
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}
	return &inv, nil
}

func (r *investmentRepository) Update(inv *models.Investment) error {
	if err := r.db.Save(inv).Error; err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}
	return nil
}

func (r *investmentRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Investment{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete investment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInvestmentNotFound
	}
	return nil
}

func (r *investmentRepository) GetByUserID(ctx context.Context, userID uint) ([]models.Investment, error) {
	var invs []models.Investment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&invs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	return invs, nil
}

// GetDueForMaturity returns active fixed-term positions whose end date
// has passed. Flexible positions have a NULL end date and never match.
func (r *investmentRepository) GetDueForMaturity(ctx context.Context, now time.Time, limit int) ([]models.Investment, error) {
	var invs []models.Investment
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_date IS NOT NULL AND end_date <= ?", models.InvestmentStatusActive, now).
		Order("end_date ASC").
		Limit(limit).
		Find(&invs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due investments: %w", err)
	}
	return invs, nil
}

func (r *investmentRepository) ExecuteInTransaction(fn func(InvestmentRepository, WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&investmentRepository{db: tx}, &walletRepository{db: tx})
	})
}

func (r *investmentRepository) CountOpenByPlan(planID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Investment{}).
		Where("plan_id = ? AND status = ?", planID, models.InvestmentStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count open investments: %w", err)
	}
	return count, nil
}

func (r *investmentRepository) SumActiveAmount(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Investment{}).
		Where("status = ?", models.InvestmentStatusActive).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum active investments: %w", err)
	}
	return total, nil
}

func (r *investmentRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Investment{}).
		Where("status = ?", models.InvestmentStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active investments: %w", err)
	}
	return count, nil
}
