// Package repotest provides in-memory repository implementations for
// service tests. The fakes hand out copies so a caller mutating a
// returned row without calling Update cannot leak state, and they run
// transactional closures directly against the same store.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories"
)

// FakeWalletRepo is an in-memory WalletRepository.
type FakeWalletRepo struct {
	mu           sync.Mutex
	wallets      map[uint]*models.Wallet // keyed by user id
	transactions map[uint]*models.Transaction
	nextWalletID uint
	nextTxID     uint
}

func NewFakeWalletRepo() *FakeWalletRepo {
	return &FakeWalletRepo{
		wallets:      make(map[uint]*models.Wallet),
		transactions: make(map[uint]*models.Transaction),
	}
}

// SeedWallet installs a wallet directly, bypassing Create.
func (r *FakeWalletRepo) SeedWallet(w models.Wallet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == 0 {
		r.nextWalletID++
		w.ID = r.nextWalletID
	}
	r.wallets[w.UserID] = &w
}

// SeedTransaction installs a ledger entry directly and returns its id.
func (r *FakeWalletRepo) SeedTransaction(tx models.Transaction) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.ID == 0 {
		r.nextTxID++
		tx.ID = r.nextTxID
	}
	r.transactions[tx.ID] = &tx
	return tx.ID
}

// Wallet returns a copy of the stored wallet for assertions.
func (r *FakeWalletRepo) Wallet(userID uint) models.Wallet {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.wallets[userID]; ok {
		return *w
	}
	return models.Wallet{}
}

// Transactions returns copies of all stored ledger entries.
func (r *FakeWalletRepo) Transactions() []models.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Transaction, 0, len(r.transactions))
	for _, tx := range r.transactions {
		out = append(out, *tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *FakeWalletRepo) Create(wallet *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.wallets[wallet.UserID]; exists {
		return repositories.ErrDuplicateWallet
	}
	r.nextWalletID++
	wallet.ID = r.nextWalletID
	stored := *wallet
	r.wallets[wallet.UserID] = &stored
	return nil
}

func (r *FakeWalletRepo) GetByUserID(userID uint) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *FakeWalletRepo) GetByUserIDForUpdate(userID uint) (*models.Wallet, error) {
	return r.GetByUserID(userID)
}

func (r *FakeWalletRepo) Update(wallet *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *wallet
	r.wallets[wallet.UserID] = &stored
	return nil
}

func (r *FakeWalletRepo) CreateTransaction(tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextTxID++
	tx.ID = r.nextTxID
	tx.CreatedAt = time.Now()
	stored := *tx
	r.transactions[tx.ID] = &stored
	return nil
}

func (r *FakeWalletRepo) GetTransactionByID(id uint) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *FakeWalletRepo) GetTransactionByIDForUpdate(id uint) (*models.Transaction, error) {
	return r.GetTransactionByID(id)
}

func (r *FakeWalletRepo) UpdateTransaction(tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[tx.ID]; !ok {
		return repositories.ErrTransactionNotFound
	}
	stored := *tx
	r.transactions[tx.ID] = &stored
	return nil
}

func (r *FakeWalletRepo) GetTransactionsByUser(_ context.Context, userID uint, limit, offset int) ([]models.Transaction, error) {
	all := r.Transactions()
	var out []models.Transaction
	for _, tx := range all {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *FakeWalletRepo) GetTransactionsPaginated(_ context.Context, limit, offset int) ([]models.Transaction, int64, error) {
	all := r.Transactions()
	return paginate(all, limit, offset), int64(len(all)), nil
}

func (r *FakeWalletRepo) SumTransactions(_ context.Context, txType, status string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, tx := range r.transactions {
		if tx.Type == txType && tx.Status == status {
			total += tx.Amount
		}
	}
	return total, nil
}

func (r *FakeWalletRepo) GetTransactionStats(start, end time.Time) (*repositories.TransactionStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &repositories.TransactionStats{}
	for _, tx := range r.transactions {
		if tx.CreatedAt.Before(start) || tx.CreatedAt.After(end) {
			continue
		}
		stats.TotalTransactions++
		stats.TotalVolume += tx.Amount
	}
	if stats.TotalTransactions > 0 {
		stats.AvgAmount = stats.TotalVolume / float64(stats.TotalTransactions)
	}
	return stats, nil
}

func (r *FakeWalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	return fn(r)
}

func paginate(txs []models.Transaction, limit, offset int) []models.Transaction {
	if offset >= len(txs) {
		return nil
	}
	txs = txs[offset:]
	if limit > 0 && limit < len(txs) {
		txs = txs[:limit]
	}
	return txs
}

// FakePlanRepo is an in-memory PlanRepository.
type FakePlanRepo struct {
	mu     sync.Mutex
	plans  map[uint]*models.InvestmentPlan
	nextID uint
}

func NewFakePlanRepo() *FakePlanRepo {
	return &FakePlanRepo{plans: make(map[uint]*models.InvestmentPlan)}
}

func (r *FakePlanRepo) Create(plan *models.InvestmentPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	plan.ID = r.nextID
	stored := *plan
	r.plans[plan.ID] = &stored
	return nil
}

func (r *FakePlanRepo) GetByID(id uint) (*models.InvestmentPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, repositories.ErrPlanNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *FakePlanRepo) Update(plan *models.InvestmentPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[plan.ID]; !ok {
		return repositories.ErrPlanNotFound
	}
	stored := *plan
	r.plans[plan.ID] = &stored
	return nil
}

func (r *FakePlanRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return repositories.ErrPlanNotFound
	}
	delete(r.plans, id)
	return nil
}

func (r *FakePlanRepo) GetAll(_ context.Context) ([]models.InvestmentPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.InvestmentPlan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinAmount < out[j].MinAmount })
	return out, nil
}

func (r *FakePlanRepo) GetActive(ctx context.Context) ([]models.InvestmentPlan, error) {
	all, _ := r.GetAll(ctx)
	var out []models.InvestmentPlan
	for _, p := range all {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

// FakeInvestmentRepo is an in-memory InvestmentRepository sharing its
// transactional scope with a FakeWalletRepo.
type FakeInvestmentRepo struct {
	mu      sync.Mutex
	rows    map[uint]*models.Investment
	nextID  uint
	Wallets *FakeWalletRepo
}

func NewFakeInvestmentRepo(wallets *FakeWalletRepo) *FakeInvestmentRepo {
	return &FakeInvestmentRepo{
		rows:    make(map[uint]*models.Investment),
		Wallets: wallets,
	}
}

// Investment returns a copy of a stored position for assertions.
func (r *FakeInvestmentRepo) Investment(id uint) models.Investment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.rows[id]; ok {
		return *inv
	}
	return models.Investment{}
}

func (r *FakeInvestmentRepo) Create(inv *models.Investment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	inv.ID = r.nextID
	inv.CreatedAt = time.Now()
	stored := *inv
	r.rows[inv.ID] = &stored
	return nil
}

func (r *FakeInvestmentRepo) GetByID(id uint) (*models.Investment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrInvestmentNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *FakeInvestmentRepo) GetByIDForUpdate(id uint) (*models.Investment, error) {
	return r.GetByID(id)
}

func (r *FakeInvestmentRepo) GetByIDForUser(id, userID uint) (*models.Investment, error) {
	inv, err := r.GetByID(id)
	if err != nil || inv.UserID != userID {
		return nil, repositories.ErrInvestmentNotFound
	}
	return inv, nil
}

func (r *FakeInvestmentRepo) Update(inv *models.Investment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[inv.ID]; !ok {
		return repositories.ErrInvestmentNotFound
	}
	stored := *inv
	r.rows[inv.ID] = &stored
	return nil
}

func (r *FakeInvestmentRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repositories.ErrInvestmentNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *FakeInvestmentRepo) GetByUserID(_ context.Context, userID uint) ([]models.Investment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Investment
	for _, inv := range r.rows {
		if inv.UserID == userID {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FakeInvestmentRepo) GetDueForMaturity(_ context.Context, now time.Time, limit int) ([]models.Investment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Investment
	for _, inv := range r.rows {
		if inv.IsDueAt(now) {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *FakeInvestmentRepo) CountOpenByPlan(planID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, inv := range r.rows {
		if inv.PlanID == planID && inv.Status == models.InvestmentStatusActive {
			count++
		}
	}
	return count, nil
}

func (r *FakeInvestmentRepo) SumActiveAmount(_ context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, inv := range r.rows {
		if inv.Status == models.InvestmentStatusActive {
			total += inv.Amount
		}
	}
	return total, nil
}

func (r *FakeInvestmentRepo) CountActive(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, inv := range r.rows {
		if inv.Status == models.InvestmentStatusActive {
			count++
		}
	}
	return count, nil
}

func (r *FakeInvestmentRepo) ExecuteInTransaction(fn func(repositories.InvestmentRepository, repositories.WalletRepository) error) error {
	return fn(r, r.Wallets)
}

// FakeCache is a no-op cache satisfying the wallet, investment and
// review cache interfaces.
type FakeCache struct{}

func (FakeCache) GetWallet(context.Context, uint) (*models.Wallet, bool, error) {
	return nil, false, nil
}
func (FakeCache) CacheWallet(context.Context, *models.Wallet) error { return nil }
func (FakeCache) InvalidateWallet(context.Context, uint) error      { return nil }
func (FakeCache) GetActivePlans(context.Context) ([]models.InvestmentPlan, bool, error) {
	return nil, false, nil
}
func (FakeCache) CacheActivePlans(context.Context, []models.InvestmentPlan) error { return nil }
func (FakeCache) InvalidateActivePlans(context.Context) error                     { return nil }
