// Package dashboard orchestrates the account view: the combined
// profile+account fetch, user-initiated deposit/withdraw mutations with
// visible feedback, and the reconciliation fetch that replaces local state
// with server truth after every mutation.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Akshita071/banking-app/pkg/banksdk"
	"github.com/shopspring/decimal"
)

// DefaultFeedbackDelay is how long a finished action stays visible as
// pending before the controls re-enable.
const DefaultFeedbackDelay = 750 * time.Millisecond

var (
	// ErrInvalidAmount rejects empty, non-numeric and non-positive amount
	// input before any network call is made.
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrActionPending rejects a mutation while another one is in flight.
	ErrActionPending = errors.New("another action is still in progress")
)

// Phase is the loading state of the view.
type Phase int

const (
	// PhaseInitial is the state before the first fetch completes.
	PhaseInitial Phase = iota

	// PhaseReady means profile and account are loaded and shown.
	PhaseReady

	// PhaseError means the last fetch cycle failed; no data is shown.
	PhaseError
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Action is the mutating operation currently in flight, if any.
type Action int

const (
	ActionNone Action = iota
	ActionDeposit
	ActionWithdraw
)

// String implements fmt.Stringer.
func (a Action) String() string {
	switch a {
	case ActionDeposit:
		return "deposit"
	case ActionWithdraw:
		return "withdraw"
	default:
		return "none"
	}
}

// API is the slice of the remote client the controller depends on.
// *banksdk.Client satisfies it.
type API interface {
	GetProfile(ctx context.Context) (*banksdk.Profile, error)
	GetAccount(ctx context.Context) (*banksdk.Account, error)
	Deposit(ctx context.Context, amount decimal.Decimal) error
	Withdraw(ctx context.Context, amount decimal.Decimal) error
}

// View is a point-in-time snapshot of everything the presentation layer
// renders. Profile and Account are read-only snapshots replaced wholesale
// by fetch cycles; callers must not mutate them.
type View struct {
	Phase        Phase
	ErrorMessage string
	Alert        string
	Pending      Action

	TransactionsVisible bool
	AmountInput         string

	Profile *banksdk.Profile
	Account *banksdk.Account
}

// Controller keeps the local account view consistent with the server and
// manages user-initiated mutations. It owns the Profile/Account snapshots
// and all view state exclusively; nothing mutates them except through its
// methods.
type Controller struct {
	api           API
	logger        *slog.Logger
	feedbackDelay time.Duration

	mu                  sync.Mutex
	phase               Phase
	errorMessage        string
	alert               string
	pending             Action
	transactionsVisible bool
	amountInput         string
	profile             *banksdk.Profile
	account             *banksdk.Account
}

// Option configures a Controller.
type Option func(*Controller)

// WithFeedbackDelay overrides the post-action feedback delay. Tests pass 0.
func WithFeedbackDelay(d time.Duration) Option {
	return func(c *Controller) { c.feedbackDelay = d }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// NewController creates a controller in the initial (not yet loaded) phase.
func NewController(api API, opts ...Option) *Controller {
	c := &Controller{
		api:           api,
		logger:        slog.Default(),
		feedbackDelay: DefaultFeedbackDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load runs a full fetch cycle: profile and account are requested
// concurrently and the cycle succeeds only when both do.
//
// On success the snapshots are replaced wholesale and the phase becomes
// ready. On any failure the phase becomes error, the message is recorded
// for display and any previously shown data is cleared; no partial data
// survives. The transaction table is hidden at the start of every cycle
// so a stale table never shows against newly loaded data.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.transactionsVisible = false
	c.errorMessage = ""
	c.mu.Unlock()

	var (
		wg         sync.WaitGroup
		profile    *banksdk.Profile
		account    *banksdk.Account
		profileErr error
		accountErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, profileErr = c.api.GetProfile(ctx)
	}()
	go func() {
		defer wg.Done()
		account, accountErr = c.api.GetAccount(ctx)
	}()
	wg.Wait()

	if err := errors.Join(profileErr, accountErr); err != nil {
		first := profileErr
		if first == nil {
			first = accountErr
		}

		c.mu.Lock()
		c.phase = PhaseError
		c.errorMessage = displayMessage(first)
		c.profile = nil
		c.account = nil
		c.mu.Unlock()

		c.logger.Error("dashboard load failed", "error", err)
		return err
	}

	c.mu.Lock()
	c.phase = PhaseReady
	c.profile = profile
	c.account = account
	c.mu.Unlock()

	c.logger.Info("dashboard loaded",
		"account", account.AccountNumber,
		"balance", account.Balance,
		"transactions", len(account.Transactions),
	)
	return nil
}

// Deposit submits the current amount input as a deposit.
func (c *Controller) Deposit(ctx context.Context) error {
	return c.mutate(ctx, ActionDeposit)
}

// Withdraw submits the current amount input as a withdrawal.
func (c *Controller) Withdraw(ctx context.Context) error {
	return c.mutate(ctx, ActionWithdraw)
}

// mutate runs one mutating action end to end: validation gate, pending
// guard, remote call, unconditional reconciliation fetch, feedback delay.
//
// The pending guard gives at-most-one-in-flight-mutation semantics for
// this controller instance; a second invocation while one is pending
// returns ErrActionPending without touching the network. Validation
// failures also stop before any network call. On success the amount input
// clears; on failure it stays and an alert is surfaced. Either way the
// reconciliation fetch replaces local state with server truth — no
// optimistic arithmetic happens client-side, so server-computed effects
// (fees, rounding) can never drift from the displayed balance.
func (c *Controller) mutate(ctx context.Context, action Action) error {
	c.mu.Lock()
	if c.pending != ActionNone {
		c.mu.Unlock()
		return ErrActionPending
	}

	amount, err := parseAmount(c.amountInput)
	if err != nil {
		c.alert = displayMessage(err)
		c.mu.Unlock()
		return err
	}

	c.pending = action
	c.alert = ""
	c.mu.Unlock()

	var callErr error
	switch action {
	case ActionDeposit:
		callErr = c.api.Deposit(ctx, amount)
	case ActionWithdraw:
		callErr = c.api.Withdraw(ctx, amount)
	}

	if callErr != nil {
		c.logger.Error("action failed", "action", action, "amount", amount, "error", callErr)
		c.mu.Lock()
		c.alert = displayMessage(callErr)
		c.mu.Unlock()
	} else {
		c.logger.Info("action succeeded", "action", action, "amount", amount)
		c.mu.Lock()
		c.amountInput = ""
		c.mu.Unlock()
	}

	// Reconciliation fetch runs regardless of the call's outcome; its own
	// failure is already recorded in the load state.
	_ = c.Load(ctx)

	if c.feedbackDelay > 0 {
		time.Sleep(c.feedbackDelay)
	}

	c.mu.Lock()
	c.pending = ActionNone
	c.mu.Unlock()

	return callErr
}

// ToggleTransactions flips the transaction table visibility. Pure local
// state, no network effect.
func (c *Controller) ToggleTransactions() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transactionsVisible = !c.transactionsVisible
}

// SetAmountInput records the raw amount field content. Validation happens
// on submit, not here.
func (c *Controller) SetAmountInput(input string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.amountInput = input
}

// ClearAlert dismisses the current alert message.
func (c *Controller) ClearAlert() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alert = ""
}

// View returns a snapshot of the current view state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Phase:               c.phase,
		ErrorMessage:        c.errorMessage,
		Alert:               c.alert,
		Pending:             c.pending,
		TransactionsVisible: c.transactionsVisible,
		AmountInput:         c.amountInput,
		Profile:             c.profile,
		Account:             c.account,
	}
}

// parseAmount validates the raw amount field. Anything that is not a
// strictly positive decimal number is rejected.
func parseAmount(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil || amount.Sign() <= 0 {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	return amount, nil
}

// displayMessage extracts the human-readable part of an error for the UI:
// the backend message for normalized API failures, err.Error() otherwise.
func displayMessage(err error) string {
	var apiErr *banksdk.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
