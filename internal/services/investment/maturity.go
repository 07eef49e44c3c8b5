package investment

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories"
	"github.com/gallahphu-bit/atlasyield/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatureDue completes fixed-term positions whose end date has passed and
// returns how many matured. Called by the background sweep; the same
// transition also runs lazily on reads, guarded by the position status
// under a row lock, so running both is safe.
func (s *service) MatureDue(ctx context.Context, batchSize int) (int, error) {
	due, err := s.investments.GetDueForMaturity(ctx, s.now(), batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list due investments: %w", err)
	}

	if s.pool == nil {
		matured := 0
		for _, inv := range due {
			if _, err := s.matureOne(ctx, inv.ID); err != nil {
				s.logger.Error("maturation failed", zap.Uint("investment_id", inv.ID), zap.Error(err))
				continue
			}
			matured++
		}
		return matured, nil
	}

	var (
		wg      sync.WaitGroup
		matured atomic.Int64
	)
	for _, inv := range due {
		id := inv.ID
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()
			if _, err := s.matureOne(ctx, id); err != nil {
				s.logger.Error("maturation failed", zap.Uint("investment_id", id), zap.Error(err))
				return
			}
			matured.Add(1)
		})
	}
	wg.Wait()
	return int(matured.Load()), nil
}

// matureOne moves a due position active → completed, computes the final
// profit from the snapshotted return rate and credits principal plus
// profit back to the wallet with one completed profit entry. Re-checking
// the due condition under the row lock makes the transition idempotent.
func (s *service) matureOne(ctx context.Context, id uint) (*models.Investment, error) {
	var result *models.Investment

	err := s.investments.ExecuteInTransaction(func(invRepo repositories.InvestmentRepository, walletRepo repositories.WalletRepository) error {
		inv, err := invRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if !inv.IsDueAt(s.now()) {
			result = inv
			return nil
		}

		profit := roundCents(inv.Amount * inv.ReturnRate / 100)
		inv.Profit = profit
		inv.CurrentValue = inv.Amount + profit
		inv.Status = models.InvestmentStatusCompleted
		if err := invRepo.Update(inv); err != nil {
			return err
		}

		w, err := walletRepo.GetByUserIDForUpdate(inv.UserID)
		if err != nil {
			return err
		}
		w.Balance += inv.CurrentValue
		if err := walletRepo.Update(w); err != nil {
			return err
		}

		now := s.now()
		ref, err := utils.GenerateReference(models.TransactionTypeProfit, now)
		if err != nil {
			return err
		}
		if err := walletRepo.CreateTransaction(&models.Transaction{
			UserID:        inv.UserID,
			Type:          models.TransactionTypeProfit,
			Amount:        inv.CurrentValue,
			Status:        models.TransactionStatusCompleted,
			Method:        models.MethodInternal,
			Reference:     ref,
			TransactionID: uuid.NewString(),
			Description:   fmt.Sprintf("Matured investment in %s", inv.PlanName),
			Currency:      w.Currency,
			ProcessedAt:   &now,
			Metadata: models.NewJSON(map[string]interface{}{
				"investment_id": inv.ID,
				"principal":     inv.Amount,
				"profit":        profit,
			}),
		}); err != nil {
			return err
		}

		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result != nil && result.Status == models.InvestmentStatusCompleted {
		s.cache.InvalidateWallet(ctx, result.UserID)
		s.metrics.RecordTransaction(models.TransactionTypeProfit, result.CurrentValue)
		s.logger.Info("investment matured",
			zap.Uint("investment_id", result.ID),
			zap.Uint("user_id", result.UserID),
			zap.Float64("profit", result.Profit))
	}
	return result, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Sweeper runs MatureDue on a fixed interval until the context is
// cancelled. Wired from main next to the other background loops.
func Sweeper(ctx context.Context, svc Service, interval time.Duration, batchSize int, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			matured, err := svc.MatureDue(ctx, batchSize)
			if err != nil {
				logger.Error("maturation sweep failed", zap.Error(err))
				continue
			}
			if matured > 0 {
				logger.Info("maturation sweep", zap.Int("matured", matured))
			}
		}
	}
}
