package investment

import (
	"context"
	"fmt"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories"
	"github.com/gallahphu-bit/atlasyield/internal/services/wallet"
	"github.com/gallahphu-bit/atlasyield/internal/utils"
	"github.com/gallahphu-bit/atlasyield/internal/worker"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages the plan catalog and investor positions. Position
// creation and maturation pair the wallet mutation with exactly one
// ledger entry inside a single database transaction.
type Service interface {
	// Catalog
	ListActivePlans(ctx context.Context) ([]models.InvestmentPlan, error)
	ListAllPlans(ctx context.Context) ([]models.InvestmentPlan, error)
	GetPlan(ctx context.Context, id uint) (*models.InvestmentPlan, error)
	CreatePlan(ctx context.Context, plan *models.InvestmentPlan) error
	UpdatePlan(ctx context.Context, plan *models.InvestmentPlan) error
	DeletePlan(ctx context.Context, id uint) error

	// Positions
	Create(ctx context.Context, userID, planID uint, amount float64) (*models.Investment, error)
	ListForUser(ctx context.Context, userID uint) ([]InvestmentView, error)
	Get(ctx context.Context, userID, id uint) (*InvestmentView, error)
	MatureDue(ctx context.Context, batchSize int) (int, error)

	// Admin overrides
	AdminCreate(ctx context.Context, adminID uint, req AdminCreateRequest) (*models.Investment, error)
	AdminUpdate(ctx context.Context, adminID, id uint, req AdminUpdateRequest) (*models.Investment, error)
	AdminDelete(ctx context.Context, adminID, id uint) error
}

type service struct {
	investments repositories.InvestmentRepository
	plans       repositories.PlanRepository
	cache       PlanCache
	metrics     wallet.MetricsCollector
	pool        *worker.Pool
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new investment service. The pool runs maturation
// sweeps concurrently; pass nil to mature sequentially.
func NewService(
	investments repositories.InvestmentRepository,
	plans repositories.PlanRepository,
	cache PlanCache,
	metrics wallet.MetricsCollector,
	pool *worker.Pool,
	logger *zap.Logger,
) Service {
	if investments == nil {
		panic("investment repo is required")
	}
	if plans == nil {
		panic("plan repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if metrics == nil {
		metrics = wallet.NoopMetricsCollector{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		investments: investments,
		plans:       plans,
		cache:       cache,
		metrics:     metrics,
		pool:        pool,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *service) ListActivePlans(ctx context.Context) ([]models.InvestmentPlan, error) {
	if plans, found, _ := s.cache.GetActivePlans(ctx); found {
		return plans, nil
	}

	plans, err := s.plans.GetActive(ctx)
	if err != nil {
		s.logger.Error("active plan listing failed", zap.Error(err))
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	s.cache.CacheActivePlans(ctx, plans)
	return plans, nil
}

func (s *service) ListAllPlans(ctx context.Context) ([]models.InvestmentPlan, error) {
	return s.plans.GetAll(ctx)
}

func (s *service) GetPlan(ctx context.Context, id uint) (*models.InvestmentPlan, error) {
	plan, err := s.plans.GetByID(id)
	if err != nil {
		if err == repositories.ErrPlanNotFound {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return plan, nil
}

func (s *service) CreatePlan(ctx context.Context, plan *models.InvestmentPlan) error {
	if err := validatePlan(plan); err != nil {
		return err
	}
	if err := s.plans.Create(plan); err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	s.cache.InvalidateActivePlans(ctx)
	return nil
}

func (s *service) UpdatePlan(ctx context.Context, plan *models.InvestmentPlan) error {
	if err := validatePlan(plan); err != nil {
		return err
	}
	if err := s.plans.Update(plan); err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	s.cache.InvalidateActivePlans(ctx)
	return nil
}

// DeletePlan refuses to remove a plan that open positions still
// reference. Closed positions keep their snapshotted terms either way.
func (s *service) DeletePlan(ctx context.Context, id uint) error {
	open, err := s.investments.CountOpenByPlan(id)
	if err != nil {
		return fmt.Errorf("failed to check open positions: %w", err)
	}
	if open > 0 {
		return ErrPlanHasOpenPositions
	}
	if err := s.plans.Delete(id); err != nil {
		if err == repositories.ErrPlanNotFound {
			return ErrPlanNotFound
		}
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	s.cache.InvalidateActivePlans(ctx)
	return nil
}

// Create opens a position: debits the wallet, snapshots the plan terms
// and appends a completed investment entry, all in one transaction.
func (s *service) Create(ctx context.Context, userID, planID uint, amount float64) (*models.Investment, error) {
	start := s.now()
	defer func() { s.metrics.RecordOperationDuration("create_investment", time.Since(start)) }()

	plan, err := s.plans.GetByID(planID)
	if err != nil {
		if err == repositories.ErrPlanNotFound {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if !plan.IsActive {
		return nil, ErrPlanNotFound
	}
	if amount < plan.MinAmount || amount > plan.MaxAmount {
		return nil, fmt.Errorf("%w: allowed range is %.2f - %.2f", ErrAmountOutOfRange, plan.MinAmount, plan.MaxAmount)
	}

	inv := s.newPosition(userID, plan, amount, plan.Duration, 0)

	ref, err := utils.GenerateReference(models.TransactionTypeInvestment, start)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reference: %w", err)
	}

	err = s.investments.ExecuteInTransaction(func(invRepo repositories.InvestmentRepository, walletRepo repositories.WalletRepository) error {
		w, err := walletRepo.GetByUserIDForUpdate(userID)
		if err != nil {
			return err
		}
		if w.AvailableBalance() < amount {
			return ErrInsufficientBalance
		}

		w.Balance -= amount
		if err := walletRepo.Update(w); err != nil {
			return err
		}
		if err := invRepo.Create(inv); err != nil {
			return err
		}

		now := s.now()
		return walletRepo.CreateTransaction(&models.Transaction{
			UserID:        userID,
			Type:          models.TransactionTypeInvestment,
			Amount:        amount,
			Status:        models.TransactionStatusCompleted,
			Method:        models.MethodInternal,
			Reference:     ref,
			TransactionID: uuid.NewString(),
			Description:   fmt.Sprintf("Investment in %s", plan.Name),
			Currency:      w.Currency,
			ProcessedAt:   &now,
			Metadata:      models.NewJSON(map[string]interface{}{"plan_id": plan.ID}),
		})
	})
	if err != nil {
		if err == ErrInsufficientBalance {
			s.metrics.RecordError("create_investment", "insufficient_funds")
			return nil, err
		}
		if err == repositories.ErrWalletNotFound {
			return nil, ErrInsufficientBalance
		}
		s.metrics.RecordError("create_investment", "storage")
		s.logger.Error("investment create failed",
			zap.Uint("user_id", userID),
			zap.Uint("plan_id", planID),
			zap.Error(err))
		return nil, ErrLedgerFailed
	}

	s.cache.InvalidateWallet(ctx, userID)
	s.metrics.RecordTransaction(models.TransactionTypeInvestment, amount)
	return inv, nil
}

// ListForUser returns the user's positions with derived progress. Due
// fixed-term positions are matured lazily before being returned.
func (s *service) ListForUser(ctx context.Context, userID uint) ([]InvestmentView, error) {
	invs, err := s.investments.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}

	now := s.now()
	views := make([]InvestmentView, 0, len(invs))
	for i := range invs {
		inv := invs[i]
		if inv.IsDueAt(now) {
			if matured, err := s.matureOne(ctx, inv.ID); err == nil && matured != nil {
				inv = *matured
			}
		}
		views = append(views, InvestmentView{Investment: inv, Progress: inv.ProgressAt(now)})
	}
	return views, nil
}

func (s *service) Get(ctx context.Context, userID, id uint) (*InvestmentView, error) {
	inv, err := s.investments.GetByIDForUser(id, userID)
	if err != nil {
		if err == repositories.ErrInvestmentNotFound {
			return nil, ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}

	now := s.now()
	if inv.IsDueAt(now) {
		if matured, err := s.matureOne(ctx, inv.ID); err == nil && matured != nil {
			inv = matured
		}
	}
	return &InvestmentView{Investment: *inv, Progress: inv.ProgressAt(now)}, nil
}

func (s *service) newPosition(userID uint, plan *models.InvestmentPlan, amount float64, duration int, profit float64) *models.Investment {
	start := s.now()
	inv := &models.Investment{
		UserID:       userID,
		PlanID:       plan.ID,
		PlanName:     plan.Name,
		ReturnRate:   plan.ReturnRate,
		Duration:     duration,
		Amount:       amount,
		Status:       models.InvestmentStatusActive,
		StartDate:    start,
		CurrentValue: amount + profit,
		Profit:       profit,
	}
	if duration > 0 {
		end := start.AddDate(0, 0, duration)
		inv.EndDate = &end
	}
	return inv
}

func validatePlan(plan *models.InvestmentPlan) error {
	if plan.Name == "" || plan.MinAmount < 0 || plan.MaxAmount < plan.MinAmount {
		return ErrInvalidPlan
	}
	if plan.Duration < 0 || plan.ReturnRate < 0 {
		return ErrInvalidPlan
	}
	return nil
}
