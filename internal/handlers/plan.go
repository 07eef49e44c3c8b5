package handlers

import (
	"errors"
	"strconv"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/services/investment"
	"github.com/gallahphu-bit/atlasyield/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
)

// PlanHandler is the admin surface over the plan catalog.
type PlanHandler struct {
	investmentService investment.Service
}

func NewPlanHandler(investmentService investment.Service) *PlanHandler {
	return &PlanHandler{investmentService: investmentService}
}

type planInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MinAmount   float64  `json:"min_amount"`
	MaxAmount   float64  `json:"max_amount"`
	Duration    int      `json:"duration"`
	ReturnRate  float64  `json:"return_rate"`
	RiskLevel   string   `json:"risk_level"`
	Type        string   `json:"type"`
	Features    []string `json:"features"`
	IsActive    *bool    `json:"is_active"`
	Popular     bool     `json:"popular"`
}

func (in *planInput) apply(plan *models.InvestmentPlan) {
	plan.Name = in.Name
	plan.Description = in.Description
	plan.MinAmount = in.MinAmount
	plan.MaxAmount = in.MaxAmount
	plan.Duration = in.Duration
	plan.ReturnRate = in.ReturnRate
	plan.Features = pq.StringArray(in.Features)
	plan.Popular = in.Popular
	if in.RiskLevel != "" {
		plan.RiskLevel = in.RiskLevel
	}
	if in.Type != "" {
		plan.Type = in.Type
	} else if in.Duration == 0 {
		plan.Type = models.PlanTypeFlexible
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}
}

func (h *PlanHandler) List(c *fiber.Ctx) error {
	plans, err := h.investmentService.ListAllPlans(c.Context())
	if err != nil {
		return utils.InternalError(c, "Failed to list plans")
	}
	return utils.Success(c, fiber.Map{"plans": plans})
}

func (h *PlanHandler) Create(c *fiber.Ctx) error {
	var input planInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	plan := &models.InvestmentPlan{IsActive: true, RiskLevel: models.RiskMedium, Type: models.PlanTypeFixed}
	input.apply(plan)

	if err := h.investmentService.CreatePlan(c.Context(), plan); err != nil {
		if errors.Is(err, investment.ErrInvalidPlan) {
			return utils.BadRequest(c, "Invalid plan definition")
		}
		return utils.InternalError(c, "Failed to create plan")
	}
	return utils.Created(c, fiber.Map{"plan": plan})
}

func (h *PlanHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid plan id")
	}

	plan, err := h.investmentService.GetPlan(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, investment.ErrPlanNotFound) {
			return utils.NotFound(c, "Plan not found")
		}
		return utils.InternalError(c, "Failed to get plan")
	}

	var input planInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	input.apply(plan)

	if err := h.investmentService.UpdatePlan(c.Context(), plan); err != nil {
		if errors.Is(err, investment.ErrInvalidPlan) {
			return utils.BadRequest(c, "Invalid plan definition")
		}
		return utils.InternalError(c, "Failed to update plan")
	}
	return utils.Success(c, fiber.Map{"plan": plan})
}

// Delete removes a plan. Refused while open positions still reference
// it; deactivate the plan instead to stop new investments.
func (h *PlanHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid plan id")
	}

	if err := h.investmentService.DeletePlan(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, investment.ErrPlanNotFound):
			return utils.NotFound(c, "Plan not found")
		case errors.Is(err, investment.ErrPlanHasOpenPositions):
			return utils.Error(c, fiber.StatusConflict, "Plan has open investments; deactivate it instead")
		}
		return utils.InternalError(c, "Failed to delete plan")
	}
	return utils.Success(c, fiber.Map{"message": "Plan deleted"})
}
