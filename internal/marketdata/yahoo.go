package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shreyakannapla/stocks-dashboard/internal/models"
)

// DefaultYahooURL is the public Yahoo Finance API host.
const DefaultYahooURL = "https://query2.finance.yahoo.com"

const userAgent = "stocks-dashboard/1.0"

// YahooClient fetches quotes and intraday candles from the Yahoo Finance
// v8 chart endpoint and option chains from the v7 options endpoint.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewYahooClient creates a client against the public Yahoo Finance API.
func NewYahooClient(timeout time.Duration) *YahooClient {
	return &YahooClient{
		baseURL:    DefaultYahooURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []float64 `json:"open"`
					High  []float64 `json:"high"`
					Low   []float64 `json:"low"`
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

type optionsResponse struct {
	OptionChain struct {
		Result []struct {
			ExpirationDates []int64 `json:"expirationDates"`
			Options         []struct {
				ExpirationDate int64         `json:"expirationDate"`
				Calls          []apiContract `json:"calls"`
				Puts           []apiContract `json:"puts"`
			} `json:"options"`
		} `json:"result"`
	} `json:"optionChain"`
}

type apiContract struct {
	ContractSymbol string  `json:"contractSymbol"`
	Strike         float64 `json:"strike"`
	LastPrice      float64 `json:"lastPrice"`
	Bid            float64 `json:"bid"`
	Ask            float64 `json:"ask"`
	Volume         int64   `json:"volume"`
	OpenInterest   int64   `json:"openInterest"`
}

func (c *YahooClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo http %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *YahooClient) fetchChart(ctx context.Context, ticker string) (*chartResponse, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1m&range=1d", c.baseURL, ticker)
	raw := &chartResponse{}
	if err := c.getJSON(ctx, url, raw); err != nil {
		return nil, err
	}
	if len(raw.Chart.Result) == 0 {
		return nil, ErrNoData
	}
	return raw, nil
}

// LatestPrice returns the last traded price for ticker. When the chart
// meta carries no market price it falls back to the last non-zero close.
func (c *YahooClient) LatestPrice(ctx context.Context, ticker string) (models.Quote, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return models.Quote{}, ErrNoData
	}

	raw, err := c.fetchChart(ctx, ticker)
	if err != nil {
		return models.Quote{}, err
	}

	r := raw.Chart.Result[0]
	price := r.Meta.RegularMarketPrice
	asOf := time.Unix(r.Meta.RegularMarketTime, 0)

	if (price <= 0 || r.Meta.RegularMarketTime == 0) && len(r.Indicators.Quote) > 0 {
		closes := r.Indicators.Quote[0].Close
		last := len(r.Timestamp)
		if len(closes) < last {
			last = len(closes)
		}
		for i := last - 1; i >= 0; i-- {
			if closes[i] > 0 {
				price = closes[i]
				asOf = time.Unix(r.Timestamp[i], 0)
				break
			}
		}
	}
	if price <= 0 {
		return models.Quote{}, ErrNoData
	}

	return models.Quote{
		Ticker: ticker,
		Price:  decimal.NewFromFloat(price),
		AsOf:   asOf,
	}, nil
}

// Candles returns the 1-minute intraday series for ticker, oldest first.
// Bars with a missing close (Yahoo emits nulls inside trading halts) are
// skipped.
func (c *YahooClient) Candles(ctx context.Context, ticker string) ([]models.Candle, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return nil, ErrNoData
	}

	raw, err := c.fetchChart(ctx, ticker)
	if err != nil {
		return nil, err
	}

	r := raw.Chart.Result[0]
	if len(r.Timestamp) == 0 || len(r.Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	q := r.Indicators.Quote[0]
	candles := make([]models.Candle, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(q.Close) || q.Close[i] <= 0 {
			continue
		}
		candles = append(candles, models.Candle{
			Time:  time.Unix(ts, 0),
			Open:  decimal.NewFromFloat(at(q.Open, i)),
			High:  decimal.NewFromFloat(at(q.High, i)),
			Low:   decimal.NewFromFloat(at(q.Low, i)),
			Close: decimal.NewFromFloat(q.Close[i]),
		})
	}
	if len(candles) == 0 {
		return nil, ErrNoData
	}
	return candles, nil
}

// OptionChain fetches the full chain: the base request lists the expiry
// dates and carries the nearest expiry's tables, and each further expiry
// is fetched with an explicit date parameter.
func (c *YahooClient) OptionChain(ctx context.Context, ticker string) (models.OptionChain, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return models.OptionChain{}, ErrNoData
	}

	base := fmt.Sprintf("%s/v7/finance/options/%s", c.baseURL, ticker)
	raw := &optionsResponse{}
	if err := c.getJSON(ctx, base, raw); err != nil {
		return models.OptionChain{}, err
	}
	if len(raw.OptionChain.Result) == 0 || len(raw.OptionChain.Result[0].ExpirationDates) == 0 {
		return models.OptionChain{}, ErrNoData
	}

	chain := models.OptionChain{Ticker: ticker}
	seen := make(map[int64]bool)

	appendExpiries := func(resp *optionsResponse) {
		for _, opt := range resp.OptionChain.Result[0].Options {
			if seen[opt.ExpirationDate] {
				continue
			}
			seen[opt.ExpirationDate] = true
			chain.Expiries = append(chain.Expiries, models.OptionExpiry{
				Expiry: time.Unix(opt.ExpirationDate, 0).UTC(),
				Calls:  convertContracts(opt.Calls),
				Puts:   convertContracts(opt.Puts),
			})
		}
	}
	appendExpiries(raw)

	for _, expiry := range raw.OptionChain.Result[0].ExpirationDates {
		if seen[expiry] {
			continue
		}
		page := &optionsResponse{}
		if err := c.getJSON(ctx, fmt.Sprintf("%s?date=%d", base, expiry), page); err != nil {
			return models.OptionChain{}, err
		}
		if len(page.OptionChain.Result) == 0 {
			continue
		}
		appendExpiries(page)
	}

	if len(chain.Expiries) == 0 {
		return models.OptionChain{}, ErrNoData
	}
	return chain, nil
}

func convertContracts(in []apiContract) []models.OptionQuote {
	out := make([]models.OptionQuote, 0, len(in))
	for _, c := range in {
		out = append(out, models.OptionQuote{
			ContractSymbol: c.ContractSymbol,
			Strike:         decimal.NewFromFloat(c.Strike),
			LastPrice:      decimal.NewFromFloat(c.LastPrice),
			Bid:            decimal.NewFromFloat(c.Bid),
			Ask:            decimal.NewFromFloat(c.Ask),
			Volume:         c.Volume,
			OpenInterest:   c.OpenInterest,
		})
	}
	return out
}

func at(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
