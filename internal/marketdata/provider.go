// Package marketdata fetches quote, candle and option-chain data for a
// ticker from a provider. A provider returns either real data or ErrNoData;
// it never substitutes a stale value silently, so callers can treat any
// error as a hard stop for trading.
package marketdata

import (
	"context"
	"errors"

	"github.com/Shreyakannapla/stocks-dashboard/internal/models"
)

// ErrNoData indicates the provider has no data for the requested ticker.
var ErrNoData = errors.New("no market data")

// Provider serves normalized market data for a ticker.
type Provider interface {
	// LatestPrice returns the last traded price for ticker.
	LatestPrice(ctx context.Context, ticker string) (models.Quote, error)
	// Candles returns the intraday OHLC series for ticker, oldest first.
	Candles(ctx context.Context, ticker string) ([]models.Candle, error)
	// OptionChain returns the listed option chain for ticker, keyed by
	// expiry. Tickers with no listed options return ErrNoData.
	OptionChain(ctx context.Context, ticker string) (models.OptionChain, error)
}
