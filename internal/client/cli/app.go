package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/dmitrijs2005/merchantdash/internal/client/canister"
	"github.com/dmitrijs2005/merchantdash/internal/client/config"
	"github.com/dmitrijs2005/merchantdash/internal/client/dashboard"
	"github.com/dmitrijs2005/merchantdash/internal/client/identity"
	"github.com/dmitrijs2005/merchantdash/internal/client/repositories/session"
	"github.com/dmitrijs2005/merchantdash/internal/client/storage"
	"github.com/dmitrijs2005/merchantdash/internal/logging"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	auth     *identity.AuthClient
	canister canister.Client
	page     *dashboard.Page
	session  *dashboard.Session
	ctrl     *dashboard.Controller
	reader   *bufio.Reader
	out      io.Writer
	bold     bool

	// openURL hands the authorize URL to the user.
	openURL func(ctx context.Context, url string) error
	// busy is set while a REPL command runs.
	busy atomic.Bool
}

var _ dashboard.Authenticator = (*identity.AuthClient)(nil)

// syncWriter serialises writes from the REPL and the transaction monitor.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// NewApp wires the dashboard. The REPL reads in and renders to out; logs go
// to logOut.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	sw := &syncWriter{w: out}

	logger, err := logging.New(logOut, c.LogLevel, logging.FormatText)
	if err != nil {
		return nil, err
	}

	app := &App{
		config:  c,
		logger:  logger,
		page:    dashboard.NewDashboardPage(),
		session: dashboard.NewSession(),
		reader:  bufio.NewReader(in),
		out:     sw,
		bold:    stdoutIsTerminal(out),
	}
	app.openURL = app.printURL

	db, err := storage.Open(ctx, c.SessionDB)
	if err != nil {
		logger.Error(ctx, "error initializing session store", "err", err)
		return nil, err
	}
	app.db = db

	app.auth, err = identity.Create(ctx, session.NewSQLiteRepository(db), identity.Options{
		AuthorizeURL: c.IdentityProviderURL,
		CallbackAddr: c.CallbackAddr,
		Timeout:      c.LoginTimeout,
		OpenURL:      func(ctx context.Context, url string) error { return app.openURL(ctx, url) },
		Logger:       logger,
	})
	if err != nil {
		app.close()
		return nil, err
	}

	cc, err := canister.NewGRPCClient(c.CanisterAddr)
	if err != nil {
		app.close()
		return nil, err
	}
	app.canister = cc

	app.ctrl = dashboard.NewController(dashboard.Config{
		Page:         app.page,
		Auth:         app.auth,
		Canister:     cc,
		Dialogs:      &terminalDialogs{reader: app.reader, out: app.out},
		Logger:       logger,
		PollInterval: c.PollInterval,
		LoginPolicy:  c.LoginPolicy,
	})

	app.page.OnChange(app.onPageChange)

	return app, nil
}

func (a *App) printURL(_ context.Context, url string) error {
	_, err := fmt.Fprintf(a.out, "Open this URL in your browser to log in:\n  %s\n", url)
	return err
}

// onPageChange tells the user about monitor updates that arrive between
// commands.
func (a *App) onPageChange(id string) {
	if id == dashboard.TransactionList && !a.busy.Load() {
		fmt.Fprintln(a.out, "(transactions updated, type 'show' to view)")
	}
}

func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run initialises the dashboard and runs the REPL until the user exits or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer a.close()

	a.initSignalHandler(cancelFunc)

	fmt.Fprintln(a.out, "Merchant dashboard (type 'help' for commands)")

	a.busy.Store(true)
	if err := a.ctrl.Init(ctx, a.session); err != nil {
		a.logger.Error(ctx, "dashboard init failed", "err", err)
	}
	_ = a.Show(ctx)
	a.busy.Store(false)

	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, a, a.getStatus, a.reader, a.out)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
	return nil
}

func (a *App) close() {
	a.session.Close()
	if a.canister != nil {
		_ = a.canister.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) getStatus() string {
	id := a.session.Identity()
	if id == nil {
		return "(logged out)"
	}
	p := id.Principal.String()
	if len(p) > 11 {
		p = p[:11] + "…"
	}
	return fmt.Sprintf("(%s)", p)
}
