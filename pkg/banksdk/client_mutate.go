package banksdk

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

// amountRequest is the body of the mutating endpoints. The amount rides as
// a bare JSON number (not a quoted decimal string), matching the contract.
type amountRequest struct {
	Amount json.Number `json:"amount"`
}

func newAmountRequest(amount decimal.Decimal) amountRequest {
	return amountRequest{Amount: json.Number(amount.String())}
}

// Deposit credits the session's account. The backend guarantees no
// response body worth consuming; only the status is inspected.
func (c *Client) Deposit(ctx context.Context, amount decimal.Decimal) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/deposit", newAmountRequest(amount))
	if err != nil {
		return err
	}

	return checkStatus(resp)
}

// Withdraw debits the session's account. Overdrafts are rejected by the
// server; the failure arrives as an *APIError.
func (c *Client) Withdraw(ctx context.Context, amount decimal.Decimal) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/withdraw", newAmountRequest(amount))
	if err != nil {
		return err
	}

	return checkStatus(resp)
}
