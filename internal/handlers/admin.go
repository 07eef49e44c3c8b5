package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories"
	"github.com/gallahphu-bit/atlasyield/internal/services/investment"
	"github.com/gallahphu-bit/atlasyield/internal/services/review"
	"github.com/gallahphu-bit/atlasyield/internal/services/stats"
	"github.com/gallahphu-bit/atlasyield/internal/services/wallet"
	"github.com/gallahphu-bit/atlasyield/internal/utils"
	"github.com/gallahphu-bit/atlasyield/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler is the back office surface: transaction review, wallet
// adjustments, user management and dashboard aggregates.
type AdminHandler struct {
	walletService     wallet.Service
	reviewService     review.Service
	investmentService investment.Service
	statsService      stats.Service
	users             repositories.UserRepository
}

func NewAdminHandler(
	walletService wallet.Service,
	reviewService review.Service,
	investmentService investment.Service,
	statsService stats.Service,
	users repositories.UserRepository,
) *AdminHandler {
	return &AdminHandler{
		walletService:     walletService,
		reviewService:     reviewService,
		investmentService: investmentService,
		statsService:      statsService,
		users:             users,
	}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.statsService.Dashboard(c.Context())
	if err != nil {
		return utils.InternalError(c, "Failed to compute dashboard")
	}
	return utils.Success(c, d)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	users, total, err := h.statsService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list users")
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, users))
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	full, err := h.statsService.FullUser(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c, "Failed to get user")
	}
	return utils.Success(c, full)
}

// UpdateUserStatus activates or suspends an account.
func (h *AdminHandler) UpdateUserStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	switch input.Status {
	case models.UserStatusPending, models.UserStatusActive, models.UserStatusSuspended:
	default:
		return utils.BadRequest(c, "Invalid status")
	}

	user, err := h.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c, "Failed to get user")
	}

	user.Status = input.Status
	if input.Status == models.UserStatusActive {
		user.IsVerified = true
	}
	if err := h.users.Update(user); err != nil {
		return utils.InternalError(c, "Failed to update user")
	}

	// Suspension revokes all outstanding sessions.
	if input.Status == models.UserStatusSuspended {
		if err := h.users.IncrementTokenVersion(id); err != nil {
			return utils.InternalError(c, "Failed to revoke sessions")
		}
	}
	return utils.Success(c, fiber.Map{"user": user})
}

// UpdateUserAccount overwrites account-level fields: role, status,
// verification and KYC state.
func (h *AdminHandler) UpdateUserAccount(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	var input struct {
		Role       *string `json:"role"`
		Status     *string `json:"status"`
		IsVerified *bool   `json:"is_verified"`
		KYCStatus  *string `json:"kyc_status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.Role != nil {
		switch *input.Role {
		case models.RoleUser, models.RoleAdmin, models.RoleSupport:
		default:
			return utils.BadRequest(c, "Invalid role")
		}
	}
	if input.Status != nil {
		switch *input.Status {
		case models.UserStatusPending, models.UserStatusActive, models.UserStatusSuspended:
		default:
			return utils.BadRequest(c, "Invalid status")
		}
	}
	if input.KYCStatus != nil {
		switch *input.KYCStatus {
		case models.KYCStatusPending, models.KYCStatusSubmitted, models.KYCStatusVerified, models.KYCStatusRejected:
		default:
			return utils.BadRequest(c, "Invalid kyc status")
		}
	}

	user, err := h.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c, "Failed to get user")
	}

	roleChanged := input.Role != nil && *input.Role != user.Role
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.IsVerified != nil {
		user.IsVerified = *input.IsVerified
	}
	if input.KYCStatus != nil {
		user.KYCStatus = *input.KYCStatus
	}
	if err := h.users.Update(user); err != nil {
		return utils.InternalError(c, "Failed to update user")
	}

	// A role change or suspension revokes outstanding sessions; the next
	// login issues tokens with the new permission set.
	if roleChanged || (input.Status != nil && *input.Status == models.UserStatusSuspended) {
		if err := h.users.IncrementTokenVersion(id); err != nil {
			return utils.InternalError(c, "Failed to revoke sessions")
		}
	}
	return utils.Success(c, fiber.Map{"user": user})
}

// UpdateUserProfile overwrites contact fields on behalf of the user.
func (h *AdminHandler) UpdateUserProfile(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	var input struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Phone     *string `json:"phone"`
		Country   *string `json:"country"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	user, err := h.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c, "Failed to get user")
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Country != nil {
		user.Country = *input.Country
	}
	if err := h.users.Update(user); err != nil {
		return utils.InternalError(c, "Failed to update user")
	}
	return utils.Success(c, fiber.Map{"user": user})
}

func (h *AdminHandler) ListTransactions(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	txs, total, err := h.reviewService.ListAll(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list transactions")
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, txs))
}

// ReviewTransaction moves a pending or processing transaction to a new
// status and applies its wallet effect.
func (h *AdminHandler) ReviewTransaction(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid transaction id")
	}

	var input struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	tx, err := h.reviewService.Review(c.Context(), claims.UserID, id, input.Status, input.Note)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrTransactionNotFound):
			return utils.NotFound(c, "Transaction not found")
		case errors.Is(err, review.ErrInvalidStatus):
			return utils.BadRequest(c, "Invalid review status")
		case errors.Is(err, review.ErrAlreadyFinal):
			return utils.Error(c, fiber.StatusConflict, "Transaction already finalized")
		}
		return utils.InternalError(c, "Failed to review transaction")
	}
	return utils.Success(c, fiber.Map{"transaction": tx})
}

// AdjustWallet applies a manual balance adjustment.
func (h *AdminHandler) AdjustWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	userID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	var input struct {
		Action      string  `json:"action"`
		Amount      float64 `json:"amount"`
		Balance     float64 `json:"balance"`
		Description string  `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	w, tx, err := h.walletService.AdminAdjust(c.Context(), claims.UserID, userID, wallet.AdjustmentRequest{
		Action:      input.Action,
		Amount:      input.Amount,
		Balance:     input.Balance,
		Description: input.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidAdjustment), errors.Is(err, wallet.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to adjust wallet")
	}
	return utils.Success(c, fiber.Map{"wallet": w, "transaction": tx})
}

// CreateTransaction writes a completed manual ledger entry.
func (h *AdminHandler) CreateTransaction(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		UserID       uint    `json:"user_id"`
		Type         string  `json:"type"`
		Amount       float64 `json:"amount"`
		Description  string  `json:"description"`
		UpdateWallet bool    `json:"update_wallet"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	tx, err := h.walletService.AdminCreateTransaction(c.Context(), claims.UserID, wallet.ManualTransactionRequest{
		UserID:       input.UserID,
		Type:         input.Type,
		Amount:       input.Amount,
		Description:  input.Description,
		UpdateWallet: input.UpdateWallet,
	})
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidAmount), errors.Is(err, wallet.ErrInvalidTransactionType):
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to create transaction")
	}
	return utils.Created(c, fiber.Map{"transaction": tx})
}

// CreateInvestment opens a position on behalf of a user, bypassing plan
// bounds.
func (h *AdminHandler) CreateInvestment(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		UserID           uint    `json:"user_id"`
		PlanID           uint    `json:"plan_id"`
		Amount           float64 `json:"amount"`
		CustomProfit     float64 `json:"custom_profit"`
		CustomDuration   int     `json:"custom_duration"`
		DeductFromWallet *bool   `json:"deduct_from_wallet"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	deduct := true
	if input.DeductFromWallet != nil {
		deduct = *input.DeductFromWallet
	}

	inv, err := h.investmentService.AdminCreate(c.Context(), claims.UserID, investment.AdminCreateRequest{
		UserID:           input.UserID,
		PlanID:           input.PlanID,
		Amount:           input.Amount,
		CustomProfit:     input.CustomProfit,
		CustomDuration:   input.CustomDuration,
		DeductFromWallet: deduct,
	})
	if err != nil {
		switch {
		case errors.Is(err, investment.ErrPlanNotFound):
			return utils.NotFound(c, "Plan not found")
		case errors.Is(err, investment.ErrInsufficientBalance):
			return utils.BadRequest(c, "Insufficient available balance")
		case errors.Is(err, investment.ErrInvalidPlan):
			return utils.BadRequest(c, "Amount must be greater than 0")
		}
		return utils.InternalError(c, "Failed to create investment")
	}
	return utils.Created(c, fiber.Map{"investment": inv})
}

// UpdateInvestment overwrites position fields without transition checks.
func (h *AdminHandler) UpdateInvestment(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid investment id")
	}

	var input struct {
		Amount       *float64   `json:"amount"`
		Profit       *float64   `json:"profit"`
		Status       *string    `json:"status"`
		MaturityDate *time.Time `json:"maturity_date"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	inv, err := h.investmentService.AdminUpdate(c.Context(), claims.UserID, id, investment.AdminUpdateRequest{
		Amount:       input.Amount,
		Profit:       input.Profit,
		Status:       input.Status,
		MaturityDate: input.MaturityDate,
	})
	if err != nil {
		if errors.Is(err, investment.ErrInvestmentNotFound) {
			return utils.NotFound(c, "Investment not found")
		}
		return utils.InternalError(c, "Failed to update investment")
	}
	return utils.Success(c, fiber.Map{"investment": inv})
}

func (h *AdminHandler) DeleteInvestment(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid investment id")
	}

	if err := h.investmentService.AdminDelete(c.Context(), claims.UserID, id); err != nil {
		if errors.Is(err, investment.ErrInvestmentNotFound) {
			return utils.NotFound(c, "Investment not found")
		}
		return utils.InternalError(c, "Failed to delete investment")
	}
	return utils.Success(c, fiber.Map{"message": "Investment deleted"})
}
