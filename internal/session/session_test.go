package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var startingBalance = decimal.NewFromFloat(1000.00)

func TestLogin_CreatesAccountWithFallbackName(t *testing.T) {
	t.Parallel()

	m := NewManager(startingBalance)

	s, err := m.Login("Taylor@Example.com", "whatever")
	require.NoError(t, err)

	assert.Equal(t, StateAuthenticated, s.State)
	require.NotNil(t, s.Account)
	assert.Equal(t, "taylor", s.Account.Name, "display name falls back to the email local-part")
	assert.Equal(t, "taylor@example.com", s.Account.Email)
	assert.True(t, s.Account.CashBalance().Equal(startingBalance))

	user := s.User()
	assert.Equal(t, "taylor", user.Name)
	assert.Empty(t, user.Password)
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()

	m := NewManager(startingBalance)

	_, err := m.Login("", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = m.Login("a@b.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

// Any password opens the account registered for the email. Credentials are
// not verified anywhere in the simulator.
func TestLogin_RepeatedLoginsShareOneAccount(t *testing.T) {
	t.Parallel()

	m := NewManager(startingBalance)

	first, err := m.Login("taylor@example.com", "pw1")
	require.NoError(t, err)
	require.NoError(t, first.Account.Deposit(decimal.NewFromInt(500)))

	second, err := m.Login("taylor@example.com", "completely-different")
	require.NoError(t, err)

	assert.Same(t, first.Account, second.Account)
	assert.True(t, second.Account.CashBalance().Equal(decimal.NewFromInt(1500)))
	assert.NotEqual(t, first.ID, second.ID, "each login is its own session")
}

func TestSignUp_AlwaysCreatesFreshAccount(t *testing.T) {
	t.Parallel()

	m := NewManager(startingBalance)

	old, err := m.SignUp("Taylor Smith", "taylor@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, old.Account.Deposit(decimal.NewFromInt(500)))

	fresh, err := m.SignUp("Taylor Smith", "taylor@example.com", "pw")
	require.NoError(t, err)

	assert.NotSame(t, old.Account, fresh.Account)
	assert.True(t, fresh.Account.CashBalance().Equal(startingBalance))
	assert.Equal(t, "Taylor Smith", fresh.Account.Name)
}

func TestSignUp_MissingFields(t *testing.T) {
	t.Parallel()

	m := NewManager(startingBalance)

	_, err := m.SignUp("", "a@b.com", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = m.SignUp("Name", "", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = m.SignUp("Name", "a@b.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestSignUpNameSurvivesLaterLogin(t *testing.T) {
	t.Parallel()

	m := NewManager(startingBalance)

	_, err := m.SignUp("Taylor Smith", "taylor@example.com", "pw")
	require.NoError(t, err)

	s, err := m.Login("taylor@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Taylor Smith", s.Account.Name)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	m := NewManager(startingBalance)

	s, err := m.Login("taylor@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, m.Logout(s.ID))

	assert.Equal(t, StateAnonymous, s.State)
	assert.Nil(t, s.Account)
	_, ok := m.Get(s.ID)
	assert.False(t, ok)

	// The account itself survives for the next login.
	_, ok = m.AccountFor("taylor@example.com")
	assert.True(t, ok)
}

func TestLogout_UnknownSession(t *testing.T) {
	t.Parallel()

	m := NewManager(startingBalance)
	assert.ErrorIs(t, m.Logout(uuid.New()), ErrMissingSession)
}

func TestAccountFor(t *testing.T) {
	t.Parallel()

	m := NewManager(startingBalance)

	_, ok := m.AccountFor("nobody@example.com")
	assert.False(t, ok)

	_, err := m.Login("taylor@example.com", "pw")
	require.NoError(t, err)

	acct, ok := m.AccountFor("TAYLOR@example.com")
	require.True(t, ok)
	assert.Equal(t, "taylor@example.com", acct.Email)
}
