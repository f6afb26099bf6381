package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// User identifies the owner of a simulated account. Name and Email are
// fixed at creation time.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // Store hash, exclude from JSON responses
	CreatedAt time.Time `json:"created_at"`
}

// Action is the kind of account mutation a transaction records.
type Action string

const (
	ActionBuy     Action = "Buy"
	ActionSell    Action = "Sell"
	ActionDeposit Action = "Deposit"
)

// TransactionRecord is one immutable entry in an account's transaction log.
// ULIDs embed the creation timestamp, so IDs sort in log order.
type TransactionRecord struct {
	ID        ulid.ULID       `json:"id"`
	Action    Action          `json:"action"`
	Ticker    string          `json:"ticker,omitempty"` // Empty for deposits
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Balance   decimal.Decimal `json:"balance"` // Cash balance after the mutation applied
	CreatedAt time.Time       `json:"created_at"`
}

// Quote is the latest known traded price for a ticker.
type Quote struct {
	Ticker string          `json:"ticker"`
	Price  decimal.Decimal `json:"price"`
	AsOf   time.Time       `json:"as_of"`
}

// Candle is one OHLC bar of an intraday series.
type Candle struct {
	Time  time.Time       `json:"time"`
	Open  decimal.Decimal `json:"open"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
}

// OptionQuote is one row of a calls or puts table.
type OptionQuote struct {
	ContractSymbol string          `json:"contract_symbol"`
	Strike         decimal.Decimal `json:"strike"`
	LastPrice      decimal.Decimal `json:"last_price"`
	Bid            decimal.Decimal `json:"bid"`
	Ask            decimal.Decimal `json:"ask"`
	Volume         int64           `json:"volume"`
	OpenInterest   int64           `json:"open_interest"`
}

// OptionExpiry holds the calls and puts tables for one expiry date.
type OptionExpiry struct {
	Expiry time.Time     `json:"expiry"`
	Calls  []OptionQuote `json:"calls"`
	Puts   []OptionQuote `json:"puts"`
}

// OptionChain maps a ticker's listed expiries to their calls/puts tables,
// ordered by expiry ascending.
type OptionChain struct {
	Ticker   string         `json:"ticker"`
	Expiries []OptionExpiry `json:"expiries"`
}
