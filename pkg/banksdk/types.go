package banksdk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// Timestamps
// ============================================================================

// timestampLayouts are the wire formats the backend is known to emit:
// RFC 3339 and zone-less ISO 8601 (with or without fractional seconds).
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Time is a backend timestamp normalized at the client boundary.
// Deployments differ on whether timestamps carry a zone offset; Time
// accepts both shapes so callers never see the difference.
type Time struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("banksdk: timestamp is not a string: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("banksdk: unrecognized timestamp %q", raw)
}

// MarshalJSON implements json.Marshaler using RFC 3339.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// ============================================================================
// Identity
// ============================================================================

// Identity is the user identity returned by the sign-in endpoint.
type Identity struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
}

// ============================================================================
// Profile
// ============================================================================

// Profile is the read-only customer profile snapshot. It is fetched whole
// and never mutated locally.
type Profile struct {
	CustomerID   string `json:"customer_id"`
	FullName     string `json:"full_name"`
	EmailAddress string `json:"email_address"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	Address      string `json:"address,omitempty"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    Time   `json:"created_at"`
	UpdatedAt    Time   `json:"updated_at"`
}

// ============================================================================
// Account and Transactions
// ============================================================================

// TransactionType identifies the kind of ledger movement.
type TransactionType string

const (
	TransactionDeposit     TransactionType = "DEPOSIT"
	TransactionWithdrawal  TransactionType = "WITHDRAWAL"
	TransactionTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTransferOut TransactionType = "TRANSFER_OUT"
	TransactionFee         TransactionType = "FEE"
)

// Transaction is a single ledger entry. TransactionNumber is the stable
// identity key; list ordering is whatever the server returned.
type Transaction struct {
	TransactionNumber string          `json:"transaction_number"`
	Type              TransactionType `json:"type"`
	AmountBefore      decimal.Decimal `json:"amount_before"`
	AmountAfter       decimal.Decimal `json:"amount_after"`
	Timestamp         Time            `json:"timestamp"`
	Description       string          `json:"description,omitempty"`
}

// AmountChange is the signed balance movement of this transaction.
func (t Transaction) AmountChange() decimal.Decimal {
	return t.AmountAfter.Sub(t.AmountBefore)
}

// IsCredit reports whether the transaction increased (or left unchanged)
// the balance. Rows render as credits when true, debits otherwise.
func (t Transaction) IsCredit() bool {
	return t.AmountChange().Sign() >= 0
}

// Account is the authoritative account snapshot held by the server. The
// local copy is a cache replaced wholesale after every mutating action.
type Account struct {
	AccountNumber string          `json:"account_number"`
	CustomerID    string          `json:"customer_id"`
	Balance       decimal.Decimal `json:"account_balance"`
	CreatedAt     Time            `json:"created_at"`
	UpdatedAt     Time            `json:"updated_at"`
	Transactions  []Transaction   `json:"transactions"`
}
