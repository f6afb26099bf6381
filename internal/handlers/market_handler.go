package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Quote returns the latest traded price for a ticker.
func (h *Handler) Quote(c *fiber.Ctx) error {
	ticker := tickerParam(c)
	if ticker == "" {
		return badRequest(c, "Ticker is required")
	}

	quote, err := h.market.LatestPrice(c.Context(), ticker)
	if err != nil {
		return marketDataError(c, ticker, err)
	}
	return c.JSON(quote)
}

// Candles returns the intraday OHLC series for a ticker. The type query
// selects stock or futures data; futures data is served from the same
// series.
func (h *Handler) Candles(c *fiber.Ctx) error {
	ticker := tickerParam(c)
	if ticker == "" {
		return badRequest(c, "Ticker is required")
	}

	dataType := c.Query("type", "stock")
	switch dataType {
	case "stock", "futures":
	default:
		return badRequest(c, "Data type must be \"stock\" or \"futures\"")
	}

	candles, err := h.market.Candles(c.Context(), ticker)
	if err != nil {
		return marketDataError(c, ticker, err)
	}
	return c.JSON(fiber.Map{
		"ticker":  ticker,
		"type":    dataType,
		"candles": candles,
	})
}

// Options returns the listed option chain for a ticker, grouped by expiry.
func (h *Handler) Options(c *fiber.Ctx) error {
	ticker := tickerParam(c)
	if ticker == "" {
		return badRequest(c, "Ticker is required")
	}

	chain, err := h.market.OptionChain(c.Context(), ticker)
	if err != nil {
		return marketDataError(c, ticker, err)
	}
	return c.JSON(chain)
}

func tickerParam(c *fiber.Ctx) string {
	return strings.ToUpper(strings.TrimSpace(c.Params("ticker")))
}
