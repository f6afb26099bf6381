package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimLatestPrice(t *testing.T) {
	t.Parallel()

	p := NewSim(map[string]float64{"AAPL": 150.00}, time.Minute)

	q, err := p.LatestPrice(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Ticker)
	assert.Equal(t, "150", q.Price.String())
	assert.False(t, q.AsOf.IsZero())
}

func TestSimLatestPrice_UnknownTicker(t *testing.T) {
	t.Parallel()

	p := NewSim(map[string]float64{"AAPL": 150.00}, time.Minute)

	_, err := p.LatestPrice(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNoData)
}

// Without an intervening step the quoted price must not move.
func TestSimLatestPrice_StableBetweenSteps(t *testing.T) {
	t.Parallel()

	p := NewSim(map[string]float64{"AAPL": 150.00}, time.Hour)
	p.Start()
	defer p.Stop()

	first, err := p.LatestPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	second, err := p.LatestPrice(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.True(t, first.Price.Equal(second.Price))
	assert.Equal(t, first.AsOf, second.AsOf)
}

func TestSimStepMovesPriceAndAppendsCandle(t *testing.T) {
	t.Parallel()

	p := NewSim(map[string]float64{"AAPL": 150.00}, time.Minute)
	before, err := p.Candles(context.Background(), "AAPL")
	require.NoError(t, err)

	p.step()

	after, err := p.Candles(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)

	last := after[len(after)-1]
	assert.True(t, last.Open.Equal(before[len(before)-1].Close))
	assert.True(t, last.High.GreaterThanOrEqual(last.Low))
	assert.True(t, last.Close.Sign() > 0)

	// Walk is bounded to half a percent per step.
	move := last.Close.Sub(last.Open).Abs().Div(last.Open)
	assert.True(t, move.LessThanOrEqual(decimal.NewFromFloat(0.005)), "move %s exceeds cap", move)
}

func TestSimCandles_UnknownTicker(t *testing.T) {
	t.Parallel()

	p := NewSim(map[string]float64{"AAPL": 150.00}, time.Minute)
	_, err := p.Candles(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSimCandlesHistoryCapped(t *testing.T) {
	t.Parallel()

	p := NewSim(map[string]float64{"AAPL": 150.00}, time.Minute)
	for i := 0; i < maxSimCandles+25; i++ {
		p.step()
	}

	bars, err := p.Candles(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Len(t, bars, maxSimCandles)
}

func TestSimOptionChain(t *testing.T) {
	t.Parallel()

	p := NewSim(map[string]float64{"AAPL": 150.00}, time.Minute)

	chain, err := p.OptionChain(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", chain.Ticker)
	require.Len(t, chain.Expiries, 2)

	for _, exp := range chain.Expiries {
		assert.Equal(t, time.Friday, exp.Expiry.Weekday())
		require.Len(t, exp.Calls, 5)
		require.Len(t, exp.Puts, 5)
		for _, q := range exp.Calls {
			assert.True(t, q.Strike.Sign() > 0)
			assert.True(t, q.Ask.GreaterThanOrEqual(q.Bid))
		}
	}

	_, err = p.OptionChain(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestThirdFriday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"jan-2026", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)},
		{"month-starting-friday", time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)},
		{"month-starting-saturday", time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := thirdFriday(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.Friday, got.Weekday())
		})
	}
}
