package bankstub

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// devToken mints an unsigned JWT carrying the claims the sign-in endpoint
// reads. The stub never verifies signatures.
func devToken(t *testing.T, sub, email, name string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"name":  name,
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return signed
}

func newTestClient(t *testing.T) (*httptest.Server, *http.Client, *Bank) {
	t.Helper()

	bank := NewBank()
	server := httptest.NewServer(NewServer(bank, slog.New(slog.DiscardHandler)))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return server, &http.Client{Jar: jar}, bank
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(encoded))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func signIn(t *testing.T, client *http.Client, baseURL, sub, email, name string) string {
	t.Helper()

	resp := postJSON(t, client, baseURL+"/auth/google_signin", map[string]string{
		"token": devToken(t, sub, email, name),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	return user["customer_id"].(string)
}

func TestSignInProvisionsAccount(t *testing.T) {
	t.Parallel()

	server, client, _ := newTestClient(t)
	signIn(t, client, server.URL, "google-1", "a@b.com", "Asha")

	resp, err := client.Get(server.URL + "/api/account")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var accounts []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accounts))
	require.Len(t, accounts, 1)
	require.Regexp(t, `^ACC[0-9A-F]{12}$`, accounts[0]["account_number"])
	require.Empty(t, accounts[0]["transactions"])
}

func TestSignInRejectsBadTokens(t *testing.T) {
	t.Parallel()

	server, client, _ := newTestClient(t)

	t.Run("missing token", func(t *testing.T) {
		resp := postJSON(t, client, server.URL+"/auth/google_signin", map[string]string{})
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not a jwt", func(t *testing.T) {
		resp := postJSON(t, client, server.URL+"/auth/google_signin", map[string]string{"token": "garbage"})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing claims", func(t *testing.T) {
		resp := postJSON(t, client, server.URL+"/auth/google_signin", map[string]string{
			"token": devToken(t, "", "", ""),
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestProtectedEndpointsRequireSession(t *testing.T) {
	t.Parallel()

	server, _, _ := newTestClient(t)
	plain := &http.Client{} // no cookie jar, no session

	for _, check := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/profile"},
		{http.MethodGet, "/api/account"},
		{http.MethodPost, "/api/deposit"},
		{http.MethodPost, "/api/withdraw"},
		{http.MethodPost, "/auth/logout"},
	} {
		req, err := http.NewRequest(check.method, server.URL+check.path, bytes.NewReader([]byte(`{}`)))
		require.NoError(t, err)
		resp, err := plain.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", check.method, check.path)
	}
}

func TestInactiveUserLosesAccess(t *testing.T) {
	t.Parallel()

	server, client, bank := newTestClient(t)
	id := signIn(t, client, server.URL, "google-1", "a@b.com", "Asha")

	require.NoError(t, bank.SetActive(id, false))

	resp, err := client.Get(server.URL + "/api/profile")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// And signing in again while inactive is forbidden.
	resp = postJSON(t, client, server.URL+"/auth/google_signin", map[string]string{
		"token": devToken(t, "google-1", "a@b.com", "Asha"),
	})
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDepositAndWithdrawJournal(t *testing.T) {
	t.Parallel()

	server, client, _ := newTestClient(t)
	signIn(t, client, server.URL, "google-1", "a@b.com", "Asha")

	resp := postJSON(t, client, server.URL+"/api/deposit", map[string]any{"amount": 100})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, client, server.URL+"/api/withdraw", map[string]any{"amount": 40.5})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	accountResp, err := client.Get(server.URL + "/api/account")
	require.NoError(t, err)
	defer accountResp.Body.Close()

	var accounts []struct {
		Balance      json.Number `json:"account_balance"`
		Transactions []struct {
			Type         string      `json:"type"`
			AmountBefore json.Number `json:"amount_before"`
			AmountAfter  json.Number `json:"amount_after"`
		} `json:"transactions"`
	}
	require.NoError(t, json.NewDecoder(accountResp.Body).Decode(&accounts))
	require.Len(t, accounts, 1)
	require.Equal(t, json.Number("59.5"), accounts[0].Balance)

	// Newest first.
	require.Len(t, accounts[0].Transactions, 2)
	require.Equal(t, "WITHDRAWAL", accounts[0].Transactions[0].Type)
	require.Equal(t, "DEPOSIT", accounts[0].Transactions[1].Type)
	require.Equal(t, json.Number("0"), accounts[0].Transactions[1].AmountBefore)
	require.Equal(t, json.Number("100"), accounts[0].Transactions[1].AmountAfter)
}

func TestMutationRejections(t *testing.T) {
	t.Parallel()

	server, client, _ := newTestClient(t)
	signIn(t, client, server.URL, "google-1", "a@b.com", "Asha")

	t.Run("overdraft", func(t *testing.T) {
		resp := postJSON(t, client, server.URL+"/api/withdraw", map[string]any{"amount": 10})
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "insufficient balance", decodeBody(t, resp)["message"])
	})

	t.Run("non-positive amount", func(t *testing.T) {
		for _, amount := range []any{0, -5} {
			resp := postJSON(t, client, server.URL+"/api/deposit", map[string]any{"amount": amount})
			resp.Body.Close()
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		}
	})

	t.Run("malformed amount", func(t *testing.T) {
		resp := postJSON(t, client, server.URL+"/api/deposit", map[string]any{"amount": "lots"})
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestBankSeedBalance(t *testing.T) {
	t.Parallel()

	bank := NewBank(WithSeedBalance(decimal.NewFromInt(500)))
	view, err := bank.SignIn("g1", "a@b.com", "Asha")
	require.NoError(t, err)

	account, err := bank.Account(view.CustomerID)
	require.NoError(t, err)
	require.True(t, account.Balance.Equal(decimal.NewFromInt(500)))
}

func TestLogoutDropsSession(t *testing.T) {
	t.Parallel()

	server, client, _ := newTestClient(t)
	signIn(t, client, server.URL, "google-1", "a@b.com", "Asha")

	resp := postJSON(t, client, server.URL+"/auth/logout", map[string]any{})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	after, err := client.Get(server.URL + "/api/profile")
	require.NoError(t, err)
	after.Body.Close()
	require.Equal(t, http.StatusUnauthorized, after.StatusCode)
}
