package handlers

import (
	"errors"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/services/wallet"
	"github.com/gallahphu-bit/atlasyield/internal/utils"
	"github.com/gallahphu-bit/atlasyield/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.GetOrCreateWallet(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to get wallet")
	}

	return utils.Success(c, fiber.Map{
		"wallet":            w,
		"available_balance": w.AvailableBalance(),
	})
}

func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount   float64     `json:"amount"`
		Method   string      `json:"method"`
		Metadata models.JSON `json:"metadata"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.Amount <= 0 {
		return utils.BadRequest(c, "Amount must be greater than 0")
	}
	if input.Method == "" {
		input.Method = models.MethodBankTransfer
	}

	tx, err := h.walletService.RequestDeposit(c.Context(), claims.UserID, input.Amount, input.Method, input.Metadata)
	if err != nil {
		if errors.Is(err, wallet.ErrDepositBelowMinimum) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to create deposit request")
	}

	return utils.Created(c, fiber.Map{
		"message":     "Deposit request created. It will be reviewed shortly.",
		"transaction": tx,
	})
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount      float64     `json:"amount"`
		BankDetails models.JSON `json:"bank_details"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.Amount <= 0 {
		return utils.BadRequest(c, "Amount must be greater than 0")
	}

	tx, err := h.walletService.RequestWithdrawal(c.Context(), claims.UserID, input.Amount, input.BankDetails)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrWithdrawalBelowMinimum):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, wallet.ErrInsufficientBalance), errors.Is(err, wallet.ErrWalletNotFound):
			return utils.BadRequest(c, "Insufficient available balance")
		}
		return utils.InternalError(c, "Failed to create withdrawal request")
	}

	return utils.Created(c, fiber.Map{
		"message":     "Withdrawal request created. It will be reviewed shortly.",
		"transaction": tx,
	})
}

func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := pagination.ParseFromRequest(c)
	txs, err := h.walletService.GetTransactions(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to get transactions")
	}

	return utils.Success(c, fiber.Map{"transactions": txs})
}
