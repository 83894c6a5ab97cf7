package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Akshita071/banking-app/internal/dashboard"
	"github.com/Akshita071/banking-app/internal/routing"
	"github.com/Akshita071/banking-app/internal/session"
	"github.com/Akshita071/banking-app/pkg/banksdk"
	"github.com/Akshita071/banking-app/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	loginPath = "/login"
)

// Application wires the session store, route gate, backend client and
// dashboard controller together behind a line-oriented console. Each
// command maps to one user interaction on the dashboard.
type Application struct {
	cfg    Config
	logger *slog.Logger

	client   *banksdk.Client
	sessions *session.Store
	gate     *routing.Gate
	dash     *dashboard.Controller

	unsubscribe func()
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) *Application {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "banking-dashboard",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	app.client = banksdk.New(cfg.APIBaseURL)
	if cfg.HTTPTimeout > 0 {
		app.client.HTTPClient.Timeout = cfg.HTTPTimeout
	}

	app.sessions = session.NewStore()
	app.gate = routing.NewGate(app.sessions, loginPath)
	app.dash = dashboard.NewController(app.client,
		dashboard.WithFeedbackDelay(cfg.FeedbackDelay),
		dashboard.WithLogger(app.logger),
	)

	// A fresh login lands on the dashboard, which starts a fetch cycle.
	app.unsubscribe = app.sessions.Subscribe(func(snap session.Snapshot) {
		if snap.LoggedIn {
			_ = app.dash.Load(context.Background())
		}
	})

	return app
}

// Close releases the session subscription.
func (app *Application) Close() {
	if app.unsubscribe != nil {
		app.unsubscribe()
		app.unsubscribe = nil
	}
}

// Run reads commands from in and writes responses to out until EOF,
// "quit" or context cancellation.
func (app *Application) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	app.logger.Info("dashboard client starting",
		"api_base_url", app.cfg.APIBaseURL, "version", BuildVersion)

	fmt.Fprintln(out, "banking dashboard - type 'help' for commands")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
			continue
		case "help":
			printHelp(out)
		case "login":
			app.cmdLogin(ctx, out, arg)
		case "logout":
			app.cmdLogout(ctx, out)
		case "dashboard", "open":
			app.cmdOpen(ctx, out)
		case "deposit":
			app.cmdAction(ctx, out, arg, app.dash.Deposit)
		case "withdraw":
			app.cmdAction(ctx, out, arg, app.dash.Withdraw)
		case "tx":
			app.dash.ToggleTransactions()
			app.render(out)
		case "refresh":
			if !app.requireDashboard(out) {
				continue
			}
			_ = app.dash.Load(ctx)
			app.render(out)
		case "quit", "exit":
			fmt.Fprintln(out, "bye")
			return scanner.Err()
		default:
			fmt.Fprintf(out, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return scanner.Err()
}

func (app *Application) cmdLogin(ctx context.Context, out io.Writer, token string) {
	if token == "" {
		fmt.Fprintln(out, "usage: login <google-id-token>")
		return
	}

	identity, err := app.client.LoginWithGoogleToken(ctx, token)
	if err != nil {
		app.logger.Warn("sign-in failed", "error", err)
		fmt.Fprintln(out, "login failed:", err)
		return
	}

	app.sessions.Login(session.Identity{
		Email:       identity.Email,
		DisplayName: identity.FullName,
	})
	app.render(out)
}

func (app *Application) cmdLogout(ctx context.Context, out io.Writer) {
	if !app.sessions.IsLoggedIn() {
		fmt.Fprintln(out, "not logged in")
		return
	}

	// Local logout proceeds even if the backend call fails; the server
	// session expires on its own.
	if err := app.client.Logout(ctx); err != nil {
		app.logger.Warn("backend logout failed", "error", err)
	}
	app.sessions.Logout()
	fmt.Fprintln(out, "logged out")
}

func (app *Application) cmdOpen(ctx context.Context, out io.Writer) {
	if !app.requireDashboard(out) {
		return
	}
	_ = app.dash.Load(ctx)
	app.render(out)
}

func (app *Application) cmdAction(ctx context.Context, out io.Writer, amount string, action func(context.Context) error) {
	if !app.requireDashboard(out) {
		return
	}

	app.dash.SetAmountInput(amount)
	_ = action(ctx)
	app.render(out)
}

// requireDashboard runs the route gate and reports the redirect instead
// of rendering when the session is out.
func (app *Application) requireDashboard(out io.Writer) bool {
	decision := app.gate.Resolve("/dashboard")
	if decision.State == routing.Redirected {
		fmt.Fprintf(out, "redirected to %s - please 'login <token>' first\n", decision.Target)
		return false
	}
	return true
}

func (app *Application) render(out io.Writer) {
	fallback := ""
	if user, ok := app.sessions.Current(); ok {
		fallback = user.DisplayName
		if fallback == "" {
			fallback = user.Email
		}
	}
	fmt.Fprint(out, dashboard.RenderText(app.dash.View(), fallback))
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `commands:
  login <token>      sign in with a Google ID token
  logout             sign out
  dashboard          open the dashboard (fetches fresh data)
  deposit <amount>   deposit into the account
  withdraw <amount>  withdraw from the account
  tx                 show/hide recent transactions
  refresh            re-fetch profile and account
  quit               exit
`)
}
