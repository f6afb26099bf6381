package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Shreyakannapla/stocks-dashboard/internal/auth"
	"github.com/Shreyakannapla/stocks-dashboard/internal/config"
	"github.com/Shreyakannapla/stocks-dashboard/internal/handlers"
	"github.com/Shreyakannapla/stocks-dashboard/internal/marketdata"
	"github.com/Shreyakannapla/stocks-dashboard/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	auth.SetSecret(cfg.Auth.JWTSecret)

	provider, err := buildProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to build market data provider: %v", err)
	}

	sessions := session.NewManager(decimal.NewFromFloat(cfg.Account.StartingBalance))

	app := fiber.New()
	handlers.New(sessions, provider).Register(app)

	log.Printf("Starting server on %s (market provider: %s)", cfg.Server.Addr, cfg.Market.Provider)
	log.Fatal(app.Listen(cfg.Server.Addr))
}

func buildProvider(cfg *config.Config) (marketdata.Provider, error) {
	switch cfg.Market.Provider {
	case "yahoo":
		timeout, err := cfg.Market.ParseTimeout()
		if err != nil {
			return nil, err
		}
		return marketdata.NewYahooClient(timeout), nil
	default: // "sim", enforced by config.Validate
		step, err := cfg.Market.Sim.ParseStep()
		if err != nil {
			return nil, err
		}
		sim := marketdata.NewSim(cfg.Market.Sim.StartingPrices, step)
		sim.Start()
		return sim, nil
	}
}
