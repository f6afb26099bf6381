// Package handlers is the presentation boundary: it maps HTTP requests to
// session, account and market data operations and maps their errors to
// user-visible messages. Every error is recovered here; none is fatal to
// the process.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Shreyakannapla/stocks-dashboard/internal/account"
	"github.com/Shreyakannapla/stocks-dashboard/internal/marketdata"
	"github.com/Shreyakannapla/stocks-dashboard/internal/middleware"
	"github.com/Shreyakannapla/stocks-dashboard/internal/session"
	"github.com/Shreyakannapla/stocks-dashboard/internal/web"
)

// Handler carries the collaborators every route needs.
type Handler struct {
	sessions *session.Manager
	market   marketdata.Provider
}

// New creates a Handler over a session registry and a market data provider.
func New(sessions *session.Manager, market marketdata.Provider) *Handler {
	return &Handler{sessions: sessions, market: market}
}

// Register wires every route onto app: the embedded browser UI, the public
// auth endpoints, and the protected account and market endpoints.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/", web.Index)

	api := app.Group("/api")

	// Health check (Public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("Stocks dashboard API is healthy!")
	})

	// Auth routes (Public)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", h.Signup)
	authGroup.Post("/login", h.Login)

	// Everything below requires an authenticated session.
	api.Use(middleware.Protected(h.sessions))

	api.Post("/auth/logout", h.Logout)
	api.Get("/me", h.Me)
	api.Get("/profile", h.Profile)
	api.Post("/deposit", h.Deposit)

	trade := api.Group("/trade")
	trade.Post("/buy", h.Buy)
	trade.Post("/sell", h.Sell)

	market := api.Group("/market")
	market.Get("/:ticker/quote", h.Quote)
	market.Get("/:ticker/candles", h.Candles)
	market.Get("/:ticker/options", h.Options)
}

// currentAccount resolves the request's session to its account.
func currentAccount(c *fiber.Ctx) (*account.Account, error) {
	s, ok := middleware.CurrentSession(c)
	if !ok || s.Account == nil {
		return nil, session.ErrMissingSession
	}
	return s.Account, nil
}

// marketDataError maps a provider failure to a user-visible warning. The
// operation is aborted either way; the user retries by resubmitting.
func marketDataError(c *fiber.Ctx, ticker string, err error) error {
	if errors.Is(err, marketdata.ErrNoData) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "no data for ticker: " + ticker + ". Check symbol.",
		})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error": "market data unavailable, please retry",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
