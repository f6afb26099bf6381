package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"regularMarketPrice": 189.84, "regularMarketTime": 1700000000},
      "timestamp": [1699996800, 1699996860, 1699996920],
      "indicators": {"quote": [{
        "open":  [189.10, 189.40, null],
        "high":  [189.50, 189.90, null],
        "low":   [188.90, 189.20, null],
        "close": [189.30, 189.84, null]
      }]}
    }],
    "error": null
  }
}`

const emptyChartFixture = `{"chart": {"result": [], "error": null}}`

func newYahooTestServer(t *testing.T, handler http.HandlerFunc) *YahooClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewYahooClient(2 * time.Second)
	client.baseURL = server.URL
	return client
}

func TestYahooLatestPrice_Success(t *testing.T) {
	client := newYahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1m", r.URL.Query().Get("interval"))
		assert.Equal(t, "1d", r.URL.Query().Get("range"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Write([]byte(chartFixture))
	})

	q, err := client.LatestPrice(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Ticker)
	assert.Equal(t, "189.84", q.Price.String())
	assert.Equal(t, time.Unix(1700000000, 0), q.AsOf)
}

func TestYahooLatestPrice_FallsBackToLastClose(t *testing.T) {
	fixture := `{
	  "chart": {"result": [{
	    "meta": {"regularMarketPrice": 0, "regularMarketTime": 0},
	    "timestamp": [100, 200],
	    "indicators": {"quote": [{"close": [10.5, 11.25]}]}
	  }]}
	}`
	client := newYahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixture))
	})

	q, err := client.LatestPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "11.25", q.Price.String())
	assert.Equal(t, time.Unix(200, 0), q.AsOf)
}

func TestYahooLatestPrice_NoData(t *testing.T) {
	client := newYahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(emptyChartFixture))
	})

	_, err := client.LatestPrice(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahooLatestPrice_NotFoundIsNoData(t *testing.T) {
	client := newYahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.LatestPrice(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahooLatestPrice_ServerError(t *testing.T) {
	client := newYahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.LatestPrice(context.Background(), "AAPL")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestYahooLatestPrice_EmptyTicker(t *testing.T) {
	t.Parallel()

	client := NewYahooClient(time.Second)
	_, err := client.LatestPrice(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahooCandles_SkipsNullBars(t *testing.T) {
	client := newYahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartFixture))
	})

	candles, err := client.Candles(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, candles, 2, "the null bar must be dropped")

	first := candles[0]
	assert.Equal(t, time.Unix(1699996800, 0), first.Time)
	assert.Equal(t, "189.1", first.Open.String())
	assert.Equal(t, "189.5", first.High.String())
	assert.Equal(t, "188.9", first.Low.String())
	assert.Equal(t, "189.3", first.Close.String())
}

func TestYahooOptionChain(t *testing.T) {
	base := `{
	  "optionChain": {"result": [{
	    "expirationDates": [1700000000, 1702592000],
	    "options": [{
	      "expirationDate": 1700000000,
	      "calls": [{"contractSymbol": "AAPL231114C00180000", "strike": 180, "lastPrice": 9.9, "bid": 9.8, "ask": 10.0, "volume": 12, "openInterest": 340}],
	      "puts":  [{"contractSymbol": "AAPL231114P00180000", "strike": 180, "lastPrice": 0.4, "bid": 0.35, "ask": 0.45, "volume": 7, "openInterest": 120}]
	    }]
	  }]}
	}`
	second := `{
	  "optionChain": {"result": [{
	    "expirationDates": [1700000000, 1702592000],
	    "options": [{
	      "expirationDate": 1702592000,
	      "calls": [{"contractSymbol": "AAPL231214C00185000", "strike": 185, "lastPrice": 8.1, "bid": 8.0, "ask": 8.2, "volume": 3, "openInterest": 50}],
	      "puts":  []
	    }]
	  }]}
	}`

	client := newYahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/finance/options/AAPL", r.URL.Path)
		if r.URL.Query().Get("date") == "1702592000" {
			w.Write([]byte(second))
			return
		}
		w.Write([]byte(base))
	})

	chain, err := client.OptionChain(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", chain.Ticker)
	require.Len(t, chain.Expiries, 2)

	first := chain.Expiries[0]
	require.Len(t, first.Calls, 1)
	assert.Equal(t, "AAPL231114C00180000", first.Calls[0].ContractSymbol)
	assert.Equal(t, "180", first.Calls[0].Strike.String())
	assert.Equal(t, int64(340), first.Calls[0].OpenInterest)
	require.Len(t, first.Puts, 1)

	assert.Empty(t, chain.Expiries[1].Puts)
}

func TestYahooOptionChain_NoListedOptions(t *testing.T) {
	client := newYahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"optionChain": {"result": [{"expirationDates": [], "options": []}]}}`))
	})

	_, err := client.OptionChain(context.Background(), "VTSAX")
	assert.ErrorIs(t, err, ErrNoData)
}
