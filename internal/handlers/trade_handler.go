package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Shreyakannapla/stocks-dashboard/internal/account"
)

// TradeRequest defines the expected JSON body for a buy or sell. The unit
// price is never client-supplied: it is fetched from the market data
// provider at execution time.
type TradeRequest struct {
	Ticker   string `json:"ticker"`
	Quantity int64  `json:"quantity"`
}

// TradeResponse reports an executed trade and the resulting balance.
type TradeResponse struct {
	Message            string          `json:"message"`
	Ticker             string          `json:"ticker"`
	Quantity           int64           `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	Total              decimal.Decimal `json:"total"`
	CashBalance        decimal.Decimal `json:"cash_balance"`
	CashBalanceDisplay string          `json:"cash_balance_display"`
}

// Buy executes a simulated purchase at the latest traded price. No trade
// executes without a price: a failed fetch aborts with a warning and no
// state change.
func (h *Handler) Buy(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing session: please log in"})
	}

	req, err := parseTradeRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	quote, err := h.market.LatestPrice(c.Context(), req.Ticker)
	if err != nil {
		log.Printf("Buy %s for %s: price fetch failed: %v", req.Ticker, acct.Email, err)
		return marketDataError(c, req.Ticker, err)
	}

	if err := acct.Buy(quote.Ticker, req.Quantity, quote.Price); err != nil {
		if errors.Is(err, account.ErrInsufficientFunds) {
			return badRequest(c, "Insufficient funds.")
		}
		return badRequest(c, err.Error())
	}

	total := quote.Price.Mul(decimal.NewFromInt(req.Quantity))
	balance := acct.CashBalance()
	return c.JSON(TradeResponse{
		Message:            fmt.Sprintf("Bought %d shares of %s at %s", req.Quantity, quote.Ticker, displayUSD(quote.Price)),
		Ticker:             quote.Ticker,
		Quantity:           req.Quantity,
		UnitPrice:          quote.Price,
		Total:              total,
		CashBalance:        balance,
		CashBalanceDisplay: displayUSD(balance),
	})
}

// Sell executes a simulated sale at the latest traded price. The quantity
// is capped at the owned share count here at the boundary; the account
// rejects an oversell regardless.
func (h *Handler) Sell(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing session: please log in"})
	}

	req, err := parseTradeRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	owned, ok := acct.Holding(req.Ticker)
	if !ok || req.Quantity > owned {
		return badRequest(c, fmt.Sprintf("You own %d shares of %s", owned, req.Ticker))
	}

	quote, err := h.market.LatestPrice(c.Context(), req.Ticker)
	if err != nil {
		log.Printf("Sell %s for %s: price fetch failed: %v", req.Ticker, acct.Email, err)
		return marketDataError(c, req.Ticker, err)
	}

	if err := acct.Sell(quote.Ticker, req.Quantity, quote.Price); err != nil {
		if errors.Is(err, account.ErrInsufficientHoldings) {
			return badRequest(c, fmt.Sprintf("You own %d shares of %s", owned, req.Ticker))
		}
		return badRequest(c, err.Error())
	}

	total := quote.Price.Mul(decimal.NewFromInt(req.Quantity))
	balance := acct.CashBalance()
	return c.JSON(TradeResponse{
		Message:            fmt.Sprintf("Sold %d shares of %s at %s", req.Quantity, quote.Ticker, displayUSD(quote.Price)),
		Ticker:             quote.Ticker,
		Quantity:           req.Quantity,
		UnitPrice:          quote.Price,
		Total:              total,
		CashBalance:        balance,
		CashBalanceDisplay: displayUSD(balance),
	})
}

func parseTradeRequest(c *fiber.Ctx) (*TradeRequest, error) {
	req := new(TradeRequest)
	if err := c.BodyParser(req); err != nil {
		return nil, errors.New("Cannot parse request body")
	}

	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	if req.Ticker == "" {
		return nil, errors.New("Ticker is required")
	}
	if req.Quantity <= 0 {
		return nil, errors.New("Quantity must be positive")
	}
	return req, nil
}
