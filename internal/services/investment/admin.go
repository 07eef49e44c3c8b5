package investment

import (
	"context"
	"fmt"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories"
	"github.com/gallahphu-bit/atlasyield/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminCreate opens a position for a user from the back office. Plan
// bounds are not enforced here and the plan may be inactive; the admin
// can override the snapshotted profit and duration.
func (s *service) AdminCreate(ctx context.Context, adminID uint, req AdminCreateRequest) (*models.Investment, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidPlan
	}

	plan, err := s.plans.GetByID(req.PlanID)
	if err != nil {
		if err == repositories.ErrPlanNotFound {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	duration := plan.Duration
	if req.CustomDuration > 0 {
		duration = req.CustomDuration
	}
	inv := s.newPosition(req.UserID, plan, req.Amount, duration, req.CustomProfit)

	err = s.investments.ExecuteInTransaction(func(invRepo repositories.InvestmentRepository, walletRepo repositories.WalletRepository) error {
		if req.DeductFromWallet {
			w, err := walletRepo.GetByUserIDForUpdate(req.UserID)
			if err != nil {
				return err
			}
			if w.AvailableBalance() < req.Amount {
				return ErrInsufficientBalance
			}
			w.Balance -= req.Amount
			if err := walletRepo.Update(w); err != nil {
				return err
			}

			now := s.now()
			ref, err := utils.GenerateReference(models.TransactionTypeInvestment, now)
			if err != nil {
				return err
			}
			if err := walletRepo.CreateTransaction(&models.Transaction{
				UserID:        req.UserID,
				Type:          models.TransactionTypeInvestment,
				Amount:        req.Amount,
				Status:        models.TransactionStatusCompleted,
				Method:        models.MethodInternal,
				Reference:     ref,
				TransactionID: uuid.NewString(),
				Description:   fmt.Sprintf("Investment in %s", plan.Name),
				Currency:      w.Currency,
				ProcessedAt:   &now,
				ProcessedBy:   &adminID,
				Metadata:      models.NewJSON(map[string]interface{}{"plan_id": plan.ID}),
			}); err != nil {
				return err
			}
		}
		return invRepo.Create(inv)
	})
	if err != nil {
		if err == ErrInsufficientBalance || err == repositories.ErrWalletNotFound {
			return nil, ErrInsufficientBalance
		}
		s.logger.Error("admin investment create failed",
			zap.Uint("admin_id", adminID),
			zap.Uint("user_id", req.UserID),
			zap.Error(err))
		return nil, ErrLedgerFailed
	}

	if req.DeductFromWallet {
		s.cache.InvalidateWallet(ctx, req.UserID)
	}
	s.logger.Info("admin created investment",
		zap.Uint("admin_id", adminID),
		zap.Uint("user_id", req.UserID),
		zap.Uint("plan_id", req.PlanID),
		zap.Float64("amount", req.Amount))
	return inv, nil
}

// AdminUpdate overwrites the requested fields without transition checks.
// CurrentValue is recomputed so amount and profit stay consistent;
// progress is derived from the dates and cannot be set directly.
func (s *service) AdminUpdate(ctx context.Context, adminID, id uint, req AdminUpdateRequest) (*models.Investment, error) {
	var result *models.Investment

	err := s.investments.ExecuteInTransaction(func(invRepo repositories.InvestmentRepository, _ repositories.WalletRepository) error {
		inv, err := invRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}

		if req.Amount != nil {
			inv.Amount = *req.Amount
		}
		if req.Profit != nil {
			inv.Profit = *req.Profit
		}
		if req.Status != nil {
			inv.Status = *req.Status
		}
		if req.MaturityDate != nil {
			inv.EndDate = req.MaturityDate
		}
		inv.CurrentValue = inv.Amount + inv.Profit

		if err := invRepo.Update(inv); err != nil {
			return err
		}
		result = inv
		return nil
	})
	if err != nil {
		if err == repositories.ErrInvestmentNotFound {
			return nil, ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("failed to update investment: %w", err)
	}

	s.logger.Info("admin updated investment",
		zap.Uint("admin_id", adminID),
		zap.Uint("investment_id", id))
	return result, nil
}

// AdminDelete removes a position outright. No wallet compensation is
// made; use AdminAdjust on the wallet service to refund if needed.
func (s *service) AdminDelete(ctx context.Context, adminID, id uint) error {
	if err := s.investments.Delete(id); err != nil {
		if err == repositories.ErrInvestmentNotFound {
			return ErrInvestmentNotFound
		}
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	s.logger.Warn("admin deleted investment",
		zap.Uint("admin_id", adminID),
		zap.Uint("investment_id", id))
	return nil
}
