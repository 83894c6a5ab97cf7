/*
Package banksdk provides a client SDK for the banking backend service.

# Overview

The banksdk package wraps the backend's HTTP contract behind a small typed
surface. It owns base-address configuration, session-cookie credentials and
uniform error normalization, so callers never deal with raw HTTP responses.

Create a Client and authenticate with an identity-provider token:

	client := banksdk.New("https://bank.example.com")

	identity, err := client.LoginWithGoogleToken(ctx, idToken)

The backend issues a session cookie on login; the Client's cookie jar
carries it on every subsequent request automatically:

	profile, err := client.GetProfile(ctx)
	account, err := client.GetAccount(ctx)

	err = client.Deposit(ctx, decimal.NewFromInt(100))
	err = client.Withdraw(ctx, decimal.NewFromInt(40))

	err = client.Logout(ctx)

# Response Normalization

The account endpoint is known to return either a single account object or a
collection of accounts depending on deployment. GetAccount normalizes both
shapes into one Account (first element of a collection) at this boundary,
so callers never branch on response shape. Timestamps are likewise
normalized: the backend emits RFC 3339 in some deployments and zone-less
ISO 8601 in others, and the Time type accepts both.

# Error Handling

Every non-2xx response is converted into an *APIError carrying the HTTP
status and the backend's message envelope when one is present. Transport
failures are returned wrapped with call context. Nothing panics; all
failures surface as ordinary error returns.

# Timeouts

The Client installs no timeout by default. Callers cancel individual calls
through the context, or set HTTPClient.Timeout for a blanket limit.
*/
package banksdk
