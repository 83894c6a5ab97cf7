package dashboard

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Akshita071/banking-app/pkg/banksdk"
	"github.com/shopspring/decimal"
)

// Rendering helpers shared by every presentation of the dashboard. The
// formats mirror the product's locale: INR currency with Indian digit
// grouping, timestamps in Asia/Kolkata.

var (
	istOnce sync.Once
	ist     *time.Location
)

func kolkata() *time.Location {
	istOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Kolkata")
		if err != nil {
			loc = time.FixedZone("IST", 5*3600+30*60)
		}
		ist = loc
	})
	return ist
}

// FormatCurrency renders an amount as INR with Indian digit grouping,
// always with two decimal places: 1234567.8 becomes "₹12,34,567.80".
func FormatCurrency(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	formatted := "₹" + groupIndian(whole) + "." + frac
	if amount.Sign() < 0 {
		formatted = "-" + formatted
	}
	return formatted
}

// groupIndian inserts Indian-system separators: the last three digits form
// one group, everything before groups in twos.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	groups := []string{digits[len(digits)-3:]}
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return strings.Join(groups, ",")
}

// FormatAmountChange renders a transaction's balance movement with an
// explicit sign, credits as "+₹…" and debits as "-₹…".
func FormatAmountChange(tx banksdk.Transaction) string {
	change := tx.AmountChange()
	if tx.IsCredit() {
		return "+" + FormatCurrency(change)
	}
	return FormatCurrency(change)
}

// FormatTime renders a backend timestamp for display, or "N/A" when absent.
func FormatTime(t banksdk.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.In(kolkata()).Format("02 Jan 2006, 3:04 PM")
}

// WelcomeName picks the name for the greeting line: the profile's full
// name, then the fallback (typically the session email), then "User".
func WelcomeName(profile *banksdk.Profile, fallback string) string {
	if profile != nil && profile.FullName != "" {
		return profile.FullName
	}
	if fallback != "" {
		return fallback
	}
	return "User"
}

// ShowLastUpdated reports whether the "Last Updated" line renders: only
// when the account has actually been touched since creation.
func ShowLastUpdated(account *banksdk.Account) bool {
	return account != nil && !account.UpdatedAt.Equal(account.CreatedAt.Time)
}

// RenderText renders the whole view as plain text for the terminal shell.
// welcomeFallback is the name substitute when the profile has none.
func RenderText(v View, welcomeFallback string) string {
	var b strings.Builder

	switch v.Phase {
	case PhaseInitial:
		return "Loading...\n"
	case PhaseError:
		return fmt.Sprintf("⚠ Error: %s\n", v.ErrorMessage)
	}

	fmt.Fprintf(&b, "Welcome, %s!\n", WelcomeName(v.Profile, welcomeFallback))

	if v.Alert != "" {
		fmt.Fprintf(&b, "! %s\n", v.Alert)
	}
	if v.Pending != ActionNone {
		fmt.Fprintf(&b, "(%s in progress)\n", v.Pending)
	}

	b.WriteString("\nProfile\n")
	if v.Profile != nil {
		fmt.Fprintf(&b, "  Full Name:   %s\n", orNA(v.Profile.FullName))
		fmt.Fprintf(&b, "  Email:       %s\n", orNA(v.Profile.EmailAddress))
		fmt.Fprintf(&b, "  Customer ID: %s\n", orNA(v.Profile.CustomerID))
		fmt.Fprintf(&b, "  Phone:       %s\n", orNA(v.Profile.PhoneNumber))
		fmt.Fprintf(&b, "  Address:     %s\n", orNA(v.Profile.Address))
	} else {
		b.WriteString("  Profile data unavailable.\n")
	}

	b.WriteString("\nAccount\n")
	if v.Account != nil {
		fmt.Fprintf(&b, "  Account #:   %s\n", v.Account.AccountNumber)
		fmt.Fprintf(&b, "  Balance:     %s\n", FormatCurrency(v.Account.Balance))
		if ShowLastUpdated(v.Account) {
			fmt.Fprintf(&b, "  Last Updated: %s\n", FormatTime(v.Account.UpdatedAt))
		}
	} else {
		b.WriteString("  Account data unavailable.\n")
	}

	if v.TransactionsVisible && v.Account != nil {
		fmt.Fprintf(&b, "\nRecent Transactions (%s)\n", v.Account.AccountNumber)
		if len(v.Account.Transactions) == 0 {
			b.WriteString("  No recent transactions found for this account.\n")
		}
		for _, tx := range v.Account.Transactions {
			fmt.Fprintf(&b, "  %-22s %-12s %-24s %12s  balance %s\n",
				FormatTime(tx.Timestamp),
				tx.Type,
				orNA(tx.Description),
				FormatAmountChange(tx),
				FormatCurrency(tx.AmountAfter),
			)
		}
	}

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
