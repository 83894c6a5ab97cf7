package bankstub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Akshita071/banking-app/pkg/httpx"
	"github.com/Akshita071/banking-app/pkg/idx"
	"github.com/Akshita071/banking-app/pkg/slogx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// SessionCookie is the name of the stub's session cookie.
const SessionCookie = "bankstub_session"

type ctxKeyCustomer struct{}

// Server exposes the banking backend contract over the in-memory Bank:
// Google-token sign-in, cookie sessions, profile/account reads and
// deposit/withdraw mutations.
type Server struct {
	bank   *Bank
	logger *slog.Logger
	router *mux.Router

	mu       sync.Mutex
	sessions map[string]string // session token -> customer id
}

// NewServer wires routes and middleware around the given bank.
func NewServer(bank *Bank, logger *slog.Logger) *Server {
	s := &Server{
		bank:     bank,
		logger:   logger,
		sessions: make(map[string]string),
	}

	r := mux.NewRouter()
	r.Use(slogx.HTTPMiddleware(logger))

	signInLimit := httpx.RateLimit(httpx.AuthLimit)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.Handle("/auth/google_signin", signInLimit(http.HandlerFunc(s.handleSignIn))).Methods(http.MethodPost)
	r.Handle("/auth/logout", s.requireSession(s.handleLogout)).Methods(http.MethodPost)
	r.Handle("/api/profile", s.requireSession(s.handleProfile)).Methods(http.MethodGet)
	r.Handle("/api/account", s.requireSession(s.handleAccount)).Methods(http.MethodGet)
	r.Handle("/api/deposit", s.requireSession(s.handleDeposit)).Methods(http.MethodPost)
	r.Handle("/api/withdraw", s.requireSession(s.handleWithdraw)).Methods(http.MethodPost)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requireSession resolves the session cookie to a customer id and rejects
// requests without a live session or with an inactive user, mirroring the
// real service's auth decorator.
func (s *Server) requireSession(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			httpx.Message(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		s.mu.Lock()
		customerID, ok := s.sessions[cookie.Value]
		s.mu.Unlock()

		if !ok {
			httpx.Message(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !s.bank.Active(customerID) {
			s.mu.Lock()
			delete(s.sessions, cookie.Value)
			s.mu.Unlock()
			httpx.Message(w, http.StatusUnauthorized, "Authentication failed or user inactive")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyCustomer{}, customerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func customerID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKeyCustomer{}).(string)
	return id
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		id, ok := s.sessions[cookie.Value]
		s.mu.Unlock()
		if ok {
			if profile, err := s.bank.Profile(id); err == nil {
				httpx.WriteJSON(w, http.StatusOK, map[string]any{
					"message":   "Welcome " + profile.FullName + "!",
					"logged_in": true,
				})
				return
			}
		}
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message":   "Welcome! Please log in.",
		"logged_in": false,
	})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httpx.Message(w, http.StatusBadRequest, "Missing ID token")
		return
	}

	// Dev trust model: the token's signature is not verified, only its
	// claims are read. Anything resembling a Google ID token works.
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(req.Token, claims); err != nil {
		httpx.Message(w, http.StatusUnauthorized, "Invalid Google ID token")
		return
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" || email == "" {
		httpx.Message(w, http.StatusUnauthorized, "Invalid Google ID token")
		return
	}

	profile, err := s.bank.SignIn(sub, email, name)
	if errors.Is(err, ErrInactiveUser) {
		httpx.Message(w, http.StatusForbidden, "User account is inactive")
		return
	}
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "An error occurred during sign-in.")
		return
	}

	token := idx.New().String()
	s.mu.Lock()
	s.sessions[token] = profile.CustomerID
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})

	slogx.FromContext(r.Context()).Info("user signed in", "customer_id", profile.CustomerID)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user": map[string]any{
			"customer_id": profile.CustomerID,
			"email":       profile.Email,
			"full_name":   profile.FullName,
		},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	httpx.Message(w, http.StatusOK, "Logout successful")
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.bank.Profile(customerID(r))
	if err != nil {
		httpx.Message(w, http.StatusNotFound, "User not found")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"customer_id":   profile.CustomerID,
		"full_name":     profile.FullName,
		"email_address": profile.Email,
		"phone_number":  nil,
		"address":       nil,
		"is_active":     profile.Active,
		"created_at":    profile.CreatedAt,
		"updated_at":    profile.UpdatedAt,
	})
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.bank.Account(customerID(r))
	if err != nil {
		// The contract allows an empty collection when no account exists.
		httpx.WriteJSON(w, http.StatusOK, []any{})
		return
	}

	transactions := make([]map[string]any, 0, len(account.Recent))
	for _, tx := range account.Recent {
		transactions = append(transactions, map[string]any{
			"transaction_number": tx.Number,
			"type":               tx.Kind,
			"amount_before":      jsonNumber(tx.AmountBefore),
			"amount_after":       jsonNumber(tx.AmountAfter),
			"timestamp":          tx.Timestamp,
			"description":        tx.Description,
		})
	}

	// Always a collection: this is the shape the client's normalization
	// has to cope with in the wild.
	httpx.WriteJSON(w, http.StatusOK, []map[string]any{{
		"account_number":  account.Number,
		"customer_id":     account.CustomerID,
		"account_balance": jsonNumber(account.Balance),
		"created_at":      account.CreatedAt,
		"updated_at":      account.UpdatedAt,
		"transactions":    transactions,
	}})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, s.bank.Deposit, "Deposit successful")
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, s.bank.Withdraw, "Withdrawal successful")
}

func (s *Server) handleMutation(
	w http.ResponseWriter,
	r *http.Request,
	op func(string, decimal.Decimal) error,
	success string,
) {
	var req struct {
		Amount json.Number `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	switch err := op(customerID(r), amount); {
	case errors.Is(err, ErrBadAmount):
		httpx.Message(w, http.StatusBadRequest, "amount must be > 0")
	case errors.Is(err, ErrInsufficient):
		httpx.Message(w, http.StatusBadRequest, "insufficient balance")
	case errors.Is(err, ErrUnknownAccount):
		httpx.Message(w, http.StatusNotFound, "account not found")
	case err != nil:
		httpx.Message(w, http.StatusInternalServerError, "An error occurred.")
	default:
		httpx.Message(w, http.StatusOK, success)
	}
}

// jsonNumber serialises a decimal as a bare JSON number, matching the real
// service's float wire format.
func jsonNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
