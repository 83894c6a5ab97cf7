package banksdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GetProfile fetches the customer profile for the current session.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/profile", nil)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := decodeJSON(resp, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// GetAccount fetches the account snapshot for the current session.
//
// The endpoint returns either a single account object or a collection of
// accounts depending on deployment; both shapes are normalized here so
// callers always receive exactly one Account. An empty collection yields
// ErrNoAccount.
func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/account", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseErrorResponse(resp, bodyBytes)
	}

	return normalizeAccount(bodyBytes)
}

// normalizeAccount decodes both known account response shapes into one
// canonical Account. The first element of a collection wins.
func normalizeAccount(body []byte) (*Account, error) {
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var accounts []Account
		if err := json.Unmarshal(trimmed, &accounts); err != nil {
			return nil, fmt.Errorf("failed to decode account collection: %w", err)
		}
		if len(accounts) == 0 {
			return nil, ErrNoAccount
		}
		return &accounts[0], nil
	}

	var account Account
	if err := json.Unmarshal(trimmed, &account); err != nil {
		return nil, fmt.Errorf("failed to decode account: %w", err)
	}

	return &account, nil
}
