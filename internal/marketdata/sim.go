package marketdata

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shreyakannapla/stocks-dashboard/internal/models"
)

// maxSimCandles caps the intraday history at one trading day of 1-minute bars.
const maxSimCandles = 390

// SimProvider serves a simulated market: a configured symbol set whose
// prices follow a small random walk, stepped by a background goroutine.
// Between steps the quoted price is stable, so repeated fetches agree.
type SimProvider struct {
	interval time.Duration

	mu      sync.RWMutex
	prices  map[string]float64
	history map[string][]models.Candle
	asOf    time.Time

	rng  *rand.Rand
	done chan struct{}
	once sync.Once
}

// NewSim creates a simulated provider with the given starting prices.
// Call Start to begin stepping prices; a provider that is never started
// quotes its starting prices forever.
func NewSim(startingPrices map[string]float64, interval time.Duration) *SimProvider {
	now := time.Now()
	p := &SimProvider{
		interval: interval,
		prices:   make(map[string]float64, len(startingPrices)),
		history:  make(map[string][]models.Candle, len(startingPrices)),
		asOf:     now,
		rng:      rand.New(rand.NewSource(now.UnixNano())),
		done:     make(chan struct{}),
	}
	for symbol, price := range startingPrices {
		symbol = strings.ToUpper(symbol)
		p.prices[symbol] = price
		p.history[symbol] = []models.Candle{{
			Time:  now,
			Open:  decimal.NewFromFloat(price),
			High:  decimal.NewFromFloat(price),
			Low:   decimal.NewFromFloat(price),
			Close: decimal.NewFromFloat(price),
		}}
	}
	return p
}

// Start launches the background walk.
func (p *SimProvider) Start() {
	log.Printf("Starting simulated market: %d symbols, stepping every %s", len(p.prices), p.interval)
	go p.run()
}

// Stop halts the background walk. Safe to call more than once.
func (p *SimProvider) Stop() {
	p.once.Do(func() { close(p.done) })
}

func (p *SimProvider) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.step()
		}
	}
}

// step advances every symbol by at most +/- 0.5% and appends a bar to its
// intraday history.
func (p *SimProvider) step() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	for symbol, oldPrice := range p.prices {
		changePercent := (p.rng.Float64() - 0.5) / 100
		newPrice := oldPrice * (1 + changePercent)
		if newPrice <= 0 {
			newPrice = oldPrice * 0.1
		}
		p.prices[symbol] = newPrice

		high := math.Max(oldPrice, newPrice)
		low := math.Min(oldPrice, newPrice)
		bars := append(p.history[symbol], models.Candle{
			Time:  now,
			Open:  decimal.NewFromFloat(oldPrice),
			High:  decimal.NewFromFloat(high),
			Low:   decimal.NewFromFloat(low),
			Close: decimal.NewFromFloat(newPrice),
		})
		if len(bars) > maxSimCandles {
			bars = bars[len(bars)-maxSimCandles:]
		}
		p.history[symbol] = bars
	}
	p.asOf = now
}

// LatestPrice returns the current simulated price for ticker.
func (p *SimProvider) LatestPrice(_ context.Context, ticker string) (models.Quote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	p.mu.RLock()
	defer p.mu.RUnlock()

	price, ok := p.prices[ticker]
	if !ok {
		return models.Quote{}, ErrNoData
	}
	return models.Quote{
		Ticker: ticker,
		Price:  decimal.NewFromFloat(price),
		AsOf:   p.asOf,
	}, nil
}

// Candles returns a copy of the simulated intraday bars for ticker.
func (p *SimProvider) Candles(_ context.Context, ticker string) ([]models.Candle, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	p.mu.RLock()
	defer p.mu.RUnlock()

	bars, ok := p.history[ticker]
	if !ok || len(bars) == 0 {
		return nil, ErrNoData
	}
	out := make([]models.Candle, len(bars))
	copy(out, bars)
	return out, nil
}

// OptionChain synthesizes a small chain around the current price: two
// monthly expiries, strikes in 5% steps from 90% to 110% of spot.
func (p *SimProvider) OptionChain(_ context.Context, ticker string) (models.OptionChain, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	p.mu.RLock()
	spot, ok := p.prices[ticker]
	p.mu.RUnlock()
	if !ok {
		return models.OptionChain{}, ErrNoData
	}

	chain := models.OptionChain{Ticker: ticker}
	now := time.Now()
	for months := 1; months <= 2; months++ {
		expiry := thirdFriday(now.AddDate(0, months, 0))
		exp := models.OptionExpiry{Expiry: expiry}
		for pct := -10; pct <= 10; pct += 5 {
			strike := roundCents(spot * (1 + float64(pct)/100))
			exp.Calls = append(exp.Calls, p.syntheticQuote(ticker, expiry, "C", strike, math.Max(spot-strike, 0)))
			exp.Puts = append(exp.Puts, p.syntheticQuote(ticker, expiry, "P", strike, math.Max(strike-spot, 0)))
		}
		chain.Expiries = append(chain.Expiries, exp)
	}
	return chain, nil
}

func (p *SimProvider) syntheticQuote(ticker string, expiry time.Time, right string, strike, intrinsic float64) models.OptionQuote {
	// Intrinsic value plus a flat 2% time premium; spreads and volume are
	// cosmetic.
	last := roundCents(intrinsic + strike*0.02)
	return models.OptionQuote{
		ContractSymbol: fmt.Sprintf("%s%s%s%08d", ticker, expiry.Format("060102"), right, int64(strike*1000)),
		Strike:         decimal.NewFromFloat(strike),
		LastPrice:      decimal.NewFromFloat(last),
		Bid:            decimal.NewFromFloat(roundCents(last * 0.98)),
		Ask:            decimal.NewFromFloat(roundCents(last * 1.02)),
		Volume:         int64(strike)%500 + 10,
		OpenInterest:   int64(strike)%2000 + 100,
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// thirdFriday returns the third Friday of t's month, the conventional US
// equity option expiry.
func thirdFriday(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	offset := (int(time.Friday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+14)
}
