package handlers

import (
	"errors"

	"github.com/Rhymond/go-money"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Shreyakannapla/stocks-dashboard/internal/account"
	"github.com/Shreyakannapla/stocks-dashboard/internal/models"
)

// TransactionView is one history row with formatted money columns for the
// profile table.
type TransactionView struct {
	models.TransactionRecord
	UnitPriceDisplay string `json:"unit_price_display"`
	TotalDisplay     string `json:"total_display"`
	BalanceDisplay   string `json:"balance_display"`
}

// ProfileResponse is the full profile view: identity, balance, holdings
// and transaction history.
type ProfileResponse struct {
	User               models.User       `json:"user"`
	CashBalance        decimal.Decimal   `json:"cash_balance"`
	CashBalanceDisplay string            `json:"cash_balance_display"`
	Holdings           map[string]int64  `json:"holdings"`
	Transactions       []TransactionView `json:"transactions"`
}

// DepositRequest defines the expected JSON body for adding funds.
type DepositRequest struct {
	Amount float64 `json:"amount"`
}

// Profile renders the authenticated user's account from a snapshot, so the
// view never aliases live account state.
func (h *Handler) Profile(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing session: please log in"})
	}

	snap := acct.Snapshot()

	views := make([]TransactionView, 0, len(snap.Transactions))
	for _, rec := range snap.Transactions {
		views = append(views, TransactionView{
			TransactionRecord: rec,
			UnitPriceDisplay:  displayUSD(rec.UnitPrice),
			TotalDisplay:      displayUSD(rec.Total),
			BalanceDisplay:    displayUSD(rec.Balance),
		})
	}

	return c.JSON(ProfileResponse{
		User: models.User{
			ID:        acct.ID,
			Name:      acct.Name,
			Email:     acct.Email,
			CreatedAt: acct.CreatedAt,
		},
		CashBalance:        snap.CashBalance,
		CashBalanceDisplay: displayUSD(snap.CashBalance),
		Holdings:           snap.Holdings,
		Transactions:       views,
	})
}

// Deposit adds funds to the authenticated account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing session: please log in"})
	}

	req := new(DepositRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}

	amount := decimal.NewFromFloat(req.Amount)
	if err := acct.Deposit(amount); err != nil {
		if errors.Is(err, account.ErrInvalidAmount) {
			return badRequest(c, "Amount to add must be positive")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deposit"})
	}

	balance := acct.CashBalance()
	return c.JSON(fiber.Map{
		"message":              "Added " + displayUSD(amount) + " to your bank balance.",
		"cash_balance":         balance,
		"cash_balance_display": displayUSD(balance),
	})
}

// displayUSD renders a decimal amount as a currency string, e.g. "$1,000.00".
func displayUSD(d decimal.Decimal) string {
	return money.New(d.Shift(2).Round(0).IntPart(), money.USD).Display()
}
