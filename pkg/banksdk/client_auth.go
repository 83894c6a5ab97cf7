package banksdk

import (
	"context"
	"net/http"
)

type signInRequest struct {
	Token string `json:"token"`
}

type signInResponse struct {
	Message string   `json:"message"`
	User    Identity `json:"user"`
}

// LoginWithGoogleToken exchanges an identity-provider ID token for a
// backend session. On success the backend sets a session cookie which the
// Client carries on all subsequent requests, and the verified identity is
// returned.
func (c *Client) LoginWithGoogleToken(ctx context.Context, idToken string) (*Identity, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/google_signin", signInRequest{Token: idToken})
	if err != nil {
		return nil, err
	}

	var signIn signInResponse
	if err := decodeJSON(resp, &signIn); err != nil {
		return nil, err
	}

	return &signIn.User, nil
}

// Logout invalidates the server-side session. Callers treat a failure as
// non-fatal: local logout proceeds regardless of the backend's answer.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		return err
	}

	return checkStatus(resp)
}
