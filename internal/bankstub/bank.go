// Package bankstub is an in-memory stand-in for the banking backend. It
// honors the same HTTP contract the real service exposes, which makes it
// the test double for round-trip tests and a zero-setup dev server.
package bankstub

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownUser    = errors.New("user not found")
	ErrInactiveUser   = errors.New("user account is inactive")
	ErrUnknownAccount = errors.New("account not found")
	ErrBadAmount      = errors.New("amount must be > 0")
	ErrInsufficient   = errors.New("insufficient balance")
)

// recentTransactionLimit caps how much journal the account endpoint
// returns, newest first.
const recentTransactionLimit = 10

type user struct {
	customerID string
	googleID   string
	email      string
	fullName   string
	active     bool
	createdAt  time.Time
	updatedAt  time.Time
}

type transaction struct {
	number       string
	kind         string
	amountBefore decimal.Decimal
	amountAfter  decimal.Decimal
	timestamp    time.Time
	description  string
}

type account struct {
	number     string
	customerID string
	balance    decimal.Decimal
	createdAt  time.Time
	updatedAt  time.Time
	journal    []transaction
}

// UserView is a value copy of a stored user, safe to hand out.
type UserView struct {
	CustomerID string
	Email      string
	FullName   string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TransactionView is a value copy of one journal entry.
type TransactionView struct {
	Number       string
	Kind         string
	AmountBefore decimal.Decimal
	AmountAfter  decimal.Decimal
	Timestamp    time.Time
	Description  string
}

// AccountView is a value copy of an account with its recent journal,
// newest entry first.
type AccountView struct {
	Number     string
	CustomerID string
	Balance    decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Recent     []TransactionView
}

// Bank holds all stub state. A single mutex serialises every operation so
// balance updates and journal appends are atomic together; callers only
// ever see value copies, never internal pointers.
type Bank struct {
	mu          sync.Mutex
	seedBalance decimal.Decimal
	byGoogleID  map[string]*user
	byCustomer  map[string]*user
	accounts    map[string]*account // keyed by customer id; one account per user
	now         func() time.Time
}

// BankOption configures a Bank.
type BankOption func(*Bank)

// WithSeedBalance sets the opening balance for newly provisioned accounts.
// The real service opens accounts at zero; a dev shell sometimes wants
// something to withdraw.
func WithSeedBalance(balance decimal.Decimal) BankOption {
	return func(b *Bank) { b.seedBalance = balance }
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) BankOption {
	return func(b *Bank) { b.now = now }
}

// NewBank creates an empty in-memory bank.
func NewBank(opts ...BankOption) *Bank {
	b := &Bank{
		seedBalance: decimal.Zero,
		byGoogleID:  make(map[string]*user),
		byCustomer:  make(map[string]*user),
		accounts:    make(map[string]*account),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SignIn upserts the user identified by the provider subject. New users
// get an auto-provisioned account. Inactive users are rejected.
func (b *Bank) SignIn(googleID, email, fullName string) (UserView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if u, ok := b.byGoogleID[googleID]; ok {
		if !u.active {
			return UserView{}, ErrInactiveUser
		}
		return userView(u), nil
	}

	now := b.now()
	u := &user{
		customerID: uuid.NewString(),
		googleID:   googleID,
		email:      email,
		fullName:   fullName,
		active:     true,
		createdAt:  now,
		updatedAt:  now,
	}
	b.byGoogleID[googleID] = u
	b.byCustomer[u.customerID] = u

	b.accounts[u.customerID] = &account{
		number:     newAccountNumber(),
		customerID: u.customerID,
		balance:    b.seedBalance,
		createdAt:  now,
		updatedAt:  now,
	}

	return userView(u), nil
}

// Profile returns the user's profile snapshot.
func (b *Bank) Profile(customerID string) (UserView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	u, ok := b.byCustomer[customerID]
	if !ok {
		return UserView{}, ErrUnknownUser
	}
	return userView(u), nil
}

// Active reports whether the user exists and is active.
func (b *Bank) Active(customerID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	u, ok := b.byCustomer[customerID]
	return ok && u.active
}

// SetActive flips a user's active flag; inactive users fail auth checks.
func (b *Bank) SetActive(customerID string, active bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	u, ok := b.byCustomer[customerID]
	if !ok {
		return ErrUnknownUser
	}
	u.active = active
	u.updatedAt = b.now()
	return nil
}

// Account returns the user's account snapshot with its most recent journal
// entries, newest first.
func (b *Bank) Account(customerID string) (AccountView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.accounts[customerID]
	if !ok {
		return AccountView{}, ErrUnknownAccount
	}
	return accountView(a), nil
}

// Deposit credits the account and journals the movement atomically.
func (b *Bank) Deposit(customerID string, amount decimal.Decimal) error {
	return b.apply(customerID, amount, "DEPOSIT", "Deposit", decimal.Decimal.Add)
}

// Withdraw debits the account; overdrafts are rejected whole.
func (b *Bank) Withdraw(customerID string, amount decimal.Decimal) error {
	return b.apply(customerID, amount, "WITHDRAWAL", "Withdrawal", decimal.Decimal.Sub)
}

func (b *Bank) apply(
	customerID string,
	amount decimal.Decimal,
	kind, description string,
	op func(decimal.Decimal, decimal.Decimal) decimal.Decimal,
) error {
	if amount.Sign() <= 0 {
		return ErrBadAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.accounts[customerID]
	if !ok {
		return ErrUnknownAccount
	}

	before := a.balance
	after := op(before, amount)
	if after.Sign() < 0 {
		return ErrInsufficient
	}

	now := b.now()
	a.balance = after
	a.updatedAt = now
	a.journal = append(a.journal, transaction{
		number:       uuid.NewString(),
		kind:         kind,
		amountBefore: before,
		amountAfter:  after,
		timestamp:    now,
		description:  description,
	})

	return nil
}

func userView(u *user) UserView {
	return UserView{
		CustomerID: u.customerID,
		Email:      u.email,
		FullName:   u.fullName,
		Active:     u.active,
		CreatedAt:  u.createdAt,
		UpdatedAt:  u.updatedAt,
	}
}

func accountView(a *account) AccountView {
	view := AccountView{
		Number:     a.number,
		CustomerID: a.customerID,
		Balance:    a.balance,
		CreatedAt:  a.createdAt,
		UpdatedAt:  a.updatedAt,
	}

	for i := len(a.journal) - 1; i >= 0 && len(view.Recent) < recentTransactionLimit; i-- {
		t := a.journal[i]
		view.Recent = append(view.Recent, TransactionView{
			Number:       t.number,
			Kind:         t.kind,
			AmountBefore: t.amountBefore,
			AmountAfter:  t.amountAfter,
			Timestamp:    t.timestamp,
			Description:  t.description,
		})
	}

	return view
}

// newAccountNumber mirrors the real service's scheme: "ACC" plus twelve
// uppercase hex characters.
func newAccountNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "ACC" + raw[:12]
}
