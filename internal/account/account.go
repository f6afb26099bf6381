// Package account implements the simulated account: a cash balance, a
// holdings map and an append-only transaction log, mutated only through
// Deposit, Buy and Sell. Each operation either applies in full (balance,
// holdings and log entry together) or leaves the account untouched.
package account

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/Shreyakannapla/stocks-dashboard/internal/models"
)

var (
	// ErrInsufficientFunds indicates a buy whose cost exceeds the cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientHoldings indicates a sell of more shares than are owned.
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	// ErrInvalidAmount indicates a deposit of a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidQuantity indicates a trade of a non-positive share count.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidPrice indicates a trade at a non-positive unit price.
	ErrInvalidPrice = errors.New("price must be positive")
)

// Account is one user's simulated account. All exported methods are safe
// for concurrent use; the mutex guarantees one operation applies fully
// before the next is accepted.
type Account struct {
	ID        uuid.UUID
	Name      string // Immutable after creation
	Email     string // Immutable after creation
	CreatedAt time.Time

	mu           sync.Mutex
	cashBalance  decimal.Decimal
	holdings     map[string]int64
	transactions []models.TransactionRecord
}

// New creates an account with the given starting balance, empty holdings
// and an empty transaction log.
func New(name, email string, startingBalance decimal.Decimal) *Account {
	return &Account{
		ID:          uuid.New(),
		Name:        name,
		Email:       email,
		CreatedAt:   time.Now(),
		cashBalance: startingBalance,
		holdings:    make(map[string]int64),
	}
}

// Snapshot is a point-in-time copy of an account's mutable state, safe to
// hand to the presentation layer.
type Snapshot struct {
	CashBalance  decimal.Decimal
	Holdings     map[string]int64
	Transactions []models.TransactionRecord
}

// Snapshot returns a copy of the current balance, holdings and transaction
// log. Callers never see live state.
func (a *Account) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	holdings := make(map[string]int64, len(a.holdings))
	for ticker, qty := range a.holdings {
		holdings[ticker] = qty
	}
	transactions := make([]models.TransactionRecord, len(a.transactions))
	copy(transactions, a.transactions)

	return Snapshot{
		CashBalance:  a.cashBalance,
		Holdings:     holdings,
		Transactions: transactions,
	}
}

// CashBalance returns the current cash balance.
func (a *Account) CashBalance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cashBalance
}

// Holding returns the owned quantity for a ticker and whether the ticker is
// held at all. A ticker is present only while its count is positive.
func (a *Account) Holding(ticker string) (int64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	qty, ok := a.holdings[ticker]
	return qty, ok
}

// Deposit adds amount to the cash balance and logs a Deposit record with
// the resulting balance. amount must be positive.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.cashBalance = a.cashBalance.Add(amount)
	a.appendLocked(models.TransactionRecord{
		Action:    models.ActionDeposit,
		Quantity:  0,
		UnitPrice: decimal.Zero,
		Total:     amount,
		Balance:   a.cashBalance,
	})
	return nil
}

// Buy purchases quantity shares of ticker at unitPrice. The cost is
// deducted from the cash balance and the shares are added to holdings,
// creating the entry if absent. If the cost exceeds the balance the buy
// fails with ErrInsufficientFunds and nothing changes.
func (a *Account) Buy(ticker string, quantity int64, unitPrice decimal.Decimal) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if unitPrice.Sign() <= 0 {
		return ErrInvalidPrice
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	cost := unitPrice.Mul(decimal.NewFromInt(quantity))
	if cost.GreaterThan(a.cashBalance) {
		return ErrInsufficientFunds
	}

	a.cashBalance = a.cashBalance.Sub(cost)
	a.holdings[ticker] += quantity
	a.appendLocked(models.TransactionRecord{
		Action:    models.ActionBuy,
		Ticker:    ticker,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     cost,
		Balance:   a.cashBalance,
	})
	return nil
}

// Sell disposes of quantity shares of ticker at unitPrice. The proceeds are
// added to the cash balance and the shares removed from holdings; a ticker
// whose count reaches zero is removed entirely. Selling more than is owned
// fails with ErrInsufficientHoldings and nothing changes.
func (a *Account) Sell(ticker string, quantity int64, unitPrice decimal.Decimal) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if unitPrice.Sign() <= 0 {
		return ErrInvalidPrice
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	owned := a.holdings[ticker] // 0 if absent
	if quantity > owned {
		return ErrInsufficientHoldings
	}

	proceeds := unitPrice.Mul(decimal.NewFromInt(quantity))
	a.cashBalance = a.cashBalance.Add(proceeds)
	if owned == quantity {
		delete(a.holdings, ticker)
	} else {
		a.holdings[ticker] = owned - quantity
	}
	a.appendLocked(models.TransactionRecord{
		Action:    models.ActionSell,
		Ticker:    ticker,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     proceeds,
		Balance:   a.cashBalance,
	})
	return nil
}

// appendLocked stamps and appends a record. Caller holds a.mu.
func (a *Account) appendLocked(rec models.TransactionRecord) {
	rec.ID = ulid.Make()
	rec.CreatedAt = time.Now()
	a.transactions = append(a.transactions, rec)
}
