package banksdk

import (
	"net/http"
	"net/http/cookiejar"
	"strings"
)

// Client is a client for the banking backend service. All operations carry
// the backend's session cookie once LoginWithGoogleToken has succeeded.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a new banking service client.
//
// The client keeps a cookie jar so the backend session cookie survives
// across calls. No request timeout is set; use the per-call context to
// cancel, or set HTTPClient.Timeout for a blanket limit.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Jar: jar,
		},
	}
}
