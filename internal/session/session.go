// Package session maps login and signup submissions to simulated accounts
// and tracks which account, if any, each browser session is authenticated
// as. Accounts live in an in-memory registry keyed by email for the
// process lifetime; nothing is persisted.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Shreyakannapla/stocks-dashboard/internal/account"
	"github.com/Shreyakannapla/stocks-dashboard/internal/auth"
	"github.com/Shreyakannapla/stocks-dashboard/internal/models"
)

var (
	// ErrMissingSession indicates an action attempted with no authenticated
	// account.
	ErrMissingSession = errors.New("missing session")
	// ErrMissingFields indicates a login or signup submission with an empty
	// required field.
	ErrMissingFields = errors.New("all fields are required")
)

// State is where a session stands in its lifecycle.
type State string

const (
	// StateAnonymous is a session with no account attached.
	StateAnonymous State = "anonymous"
	// StateAuthenticated is a session bound to one account.
	StateAuthenticated State = "authenticated"
)

// Session binds one browser session to at most one account. Transitions
// happen only through Manager.Login, Manager.SignUp and Manager.Logout.
type Session struct {
	ID        uuid.UUID
	State     State
	Account   *account.Account
	CreatedAt time.Time
}

// User returns the identity of the session's account for display.
func (s *Session) User() models.User {
	if s.State != StateAuthenticated || s.Account == nil {
		return models.User{}
	}
	return models.User{
		ID:        s.Account.ID,
		Name:      s.Account.Name,
		Email:     s.Account.Email,
		CreatedAt: s.Account.CreatedAt,
	}
}

// Manager is the in-memory session and account registry. This is a
// simulator: credentials are required but never verified, so any password
// logs into the account registered for that email.
type Manager struct {
	startingBalance decimal.Decimal

	mu       sync.Mutex
	accounts map[string]*account.Account // keyed by lowercased email
	hashes   map[string]string           // bcrypt hashes, stored but never compared
	sessions map[uuid.UUID]*Session
}

// NewManager creates a registry whose fresh accounts start with the given
// cash balance.
func NewManager(startingBalance decimal.Decimal) *Manager {
	return &Manager{
		startingBalance: startingBalance,
		accounts:        make(map[string]*account.Account),
		hashes:          make(map[string]string),
		sessions:        make(map[uuid.UUID]*Session),
	}
}

// Login authenticates a session for email. If no account exists for that
// email one is created with the display name derived from the email
// local-part; repeated logins for the same email share one account for the
// process lifetime.
func (m *Manager) Login(email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[email]
	if !ok {
		acct = account.New(localPart(email), email, m.startingBalance)
		m.accounts[email] = acct
	}
	m.hashes[email] = hash

	return m.attachLocked(acct), nil
}

// SignUp creates a fresh account for email, replacing any prior account
// registered under it, and authenticates a session for it.
func (m *Manager) SignUp(name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct := account.New(name, email, m.startingBalance)
	m.accounts[email] = acct
	m.hashes[email] = hash

	return m.attachLocked(acct), nil
}

// Get resolves a session ID to its session. The second return is false for
// unknown or logged-out sessions.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Logout detaches the session from its account and returns it to the
// anonymous state. Unknown IDs fail with ErrMissingSession.
func (m *Manager) Logout(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrMissingSession
	}
	s.State = StateAnonymous
	s.Account = nil
	delete(m.sessions, id)
	return nil
}

// AccountFor is the typed account lookup: the second return is false when
// no account is registered under email.
func (m *Manager) AccountFor(email string) (*account.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[normalizeEmail(email)]
	return acct, ok
}

// attachLocked creates an authenticated session for acct. Caller holds m.mu.
func (m *Manager) attachLocked(acct *account.Account) *Session {
	s := &Session{
		ID:        uuid.New(),
		State:     StateAuthenticated,
		Account:   acct,
		CreatedAt: time.Now(),
	}
	m.sessions[s.ID] = s
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// localPart derives the fallback display name shown for accounts that were
// created by a login rather than a signup.
func localPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
