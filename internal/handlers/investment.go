package handlers

import (
	"errors"
	"strconv"

	"github.com/gallahphu-bit/atlasyield/internal/services/investment"
	"github.com/gallahphu-bit/atlasyield/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type InvestmentHandler struct {
	investmentService investment.Service
}

func NewInvestmentHandler(investmentService investment.Service) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// ListPlans returns the active plan catalog. Public endpoint.
func (h *InvestmentHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.investmentService.ListActivePlans(c.Context())
	if err != nil {
		return utils.InternalError(c, "Failed to list plans")
	}
	return utils.Success(c, fiber.Map{"plans": plans})
}

func (h *InvestmentHandler) Create(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		PlanID uint    `json:"plan_id"`
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.Amount <= 0 {
		return utils.BadRequest(c, "Amount must be greater than 0")
	}

	inv, err := h.investmentService.Create(c.Context(), claims.UserID, input.PlanID, input.Amount)
	if err != nil {
		switch {
		case errors.Is(err, investment.ErrPlanNotFound):
			return utils.NotFound(c, "Plan not found")
		case errors.Is(err, investment.ErrAmountOutOfRange):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, investment.ErrInsufficientBalance):
			return utils.BadRequest(c, "Insufficient available balance")
		}
		return utils.InternalError(c, "Failed to create investment")
	}

	return utils.Created(c, fiber.Map{"investment": inv})
}

func (h *InvestmentHandler) List(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	views, err := h.investmentService.ListForUser(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list investments")
	}
	return utils.Success(c, fiber.Map{"investments": views})
}

func (h *InvestmentHandler) Get(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid investment id")
	}

	view, err := h.investmentService.Get(c.Context(), claims.UserID, uint(id))
	if err != nil {
		if errors.Is(err, investment.ErrInvestmentNotFound) {
			return utils.NotFound(c, "Investment not found")
		}
		return utils.InternalError(c, "Failed to get investment")
	}
	return utils.Success(c, fiber.Map{"investment": view})
}
