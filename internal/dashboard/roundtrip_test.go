package dashboard

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/Akshita071/banking-app/internal/bankstub"
	"github.com/Akshita071/banking-app/internal/routing"
	"github.com/Akshita071/banking-app/internal/session"
	"github.com/Akshita071/banking-app/pkg/banksdk"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Round-trip tests: the controller drives the real SDK against the stub
// backend, so every layer between amount input and journal entry is on
// the wire.

func devToken(t *testing.T, email, name string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   "google-" + email,
		"email": email,
		"name":  name,
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return signed
}

func newBackend(t *testing.T) *banksdk.Client {
	t.Helper()

	bank := bankstub.NewBank()
	server := httptest.NewServer(bankstub.NewServer(bank, slog.New(slog.DiscardHandler)))
	t.Cleanup(server.Close)

	return banksdk.New(server.URL)
}

func TestLoginThroughDashboardScenario(t *testing.T) {
	t.Parallel()

	client := newBackend(t)

	sessions := session.NewStore()
	gate := routing.NewGate(sessions, "/login")
	ctrl := NewController(client, WithFeedbackDelay(0))

	// Before login the dashboard is unreachable.
	require.Equal(t, routing.Redirected, gate.Resolve("/dashboard").State)

	identity, err := client.LoginWithGoogleToken(context.Background(), devToken(t, "a@b.com", "A"))
	require.NoError(t, err)
	sessions.Login(session.Identity{Email: identity.Email, DisplayName: identity.FullName})

	// Login flips the gate, and the initial fetch reaches ready with the
	// transaction table hidden.
	require.Equal(t, routing.Allowed, gate.Resolve("/dashboard").State)
	require.NoError(t, ctrl.Load(context.Background()))

	v := ctrl.View()
	require.Equal(t, PhaseReady, v.Phase)
	require.Equal(t, "a@b.com", v.Profile.EmailAddress)
	require.True(t, v.Account.Balance.IsZero())
	require.Empty(t, v.Account.Transactions)
	require.False(t, v.TransactionsVisible)
}

func TestDepositRoundTrip(t *testing.T) {
	t.Parallel()

	client := newBackend(t)
	_, err := client.LoginWithGoogleToken(context.Background(), devToken(t, "a@b.com", "A"))
	require.NoError(t, err)

	ctrl := NewController(client, WithFeedbackDelay(0))
	require.NoError(t, ctrl.Load(context.Background()))
	before := ctrl.View().Account.Balance

	ctrl.SetAmountInput("123.45")
	require.NoError(t, ctrl.Deposit(context.Background()))

	v := ctrl.View()
	want := before.Add(decimal.RequireFromString("123.45"))
	require.True(t, v.Account.Balance.Equal(want),
		"balance after reconciliation fetch: got %s want %s", v.Account.Balance, want)
	require.Empty(t, v.AmountInput)

	ctrl.ToggleTransactions()
	v = ctrl.View()
	require.True(t, v.TransactionsVisible)
	require.Len(t, v.Account.Transactions, 1)
	require.Equal(t, banksdk.TransactionDeposit, v.Account.Transactions[0].Type)
	require.True(t, v.Account.Transactions[0].IsCredit())
}

func TestOverdraftSurfacesAlertAndReconciles(t *testing.T) {
	t.Parallel()

	client := newBackend(t)
	_, err := client.LoginWithGoogleToken(context.Background(), devToken(t, "a@b.com", "A"))
	require.NoError(t, err)

	ctrl := NewController(client, WithFeedbackDelay(0))
	require.NoError(t, ctrl.Load(context.Background()))

	ctrl.SetAmountInput("100")
	require.NoError(t, ctrl.Deposit(context.Background()))

	ctrl.SetAmountInput("500")
	require.Error(t, ctrl.Withdraw(context.Background()))

	v := ctrl.View()
	require.Equal(t, "insufficient balance", v.Alert)
	require.True(t, v.Account.Balance.Equal(decimal.NewFromInt(100)),
		"rejected withdrawal must not move the balance")
	require.Len(t, v.Account.Transactions, 1, "rejected withdrawal journals nothing")
	require.Equal(t, ActionNone, v.Pending)
}

func TestWithdrawRoundTrip(t *testing.T) {
	t.Parallel()

	client := newBackend(t)
	_, err := client.LoginWithGoogleToken(context.Background(), devToken(t, "a@b.com", "A"))
	require.NoError(t, err)

	ctrl := NewController(client, WithFeedbackDelay(0))
	require.NoError(t, ctrl.Load(context.Background()))

	ctrl.SetAmountInput("200")
	require.NoError(t, ctrl.Deposit(context.Background()))
	ctrl.SetAmountInput("75.25")
	require.NoError(t, ctrl.Withdraw(context.Background()))

	v := ctrl.View()
	require.True(t, v.Account.Balance.Equal(decimal.RequireFromString("124.75")))

	ctrl.ToggleTransactions()
	v = ctrl.View()
	require.Len(t, v.Account.Transactions, 2)
	// Server returns newest first; the client must not re-sort.
	require.Equal(t, banksdk.TransactionWithdrawal, v.Account.Transactions[0].Type)
	require.False(t, v.Account.Transactions[0].IsCredit())
}

func TestUnauthenticatedFetchFailsCycle(t *testing.T) {
	t.Parallel()

	client := newBackend(t)
	ctrl := NewController(client, WithFeedbackDelay(0))

	require.Error(t, ctrl.Load(context.Background()))

	v := ctrl.View()
	require.Equal(t, PhaseError, v.Phase)
	require.Equal(t, "Authentication required", v.ErrorMessage)
	require.Nil(t, v.Profile)
	require.Nil(t, v.Account)
}
