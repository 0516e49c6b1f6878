package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/finapp/internal/client/api"
	"github.com/dmitrijs2005/finapp/internal/client/config"
	"github.com/dmitrijs2005/finapp/internal/client/flow"
	"github.com/dmitrijs2005/finapp/internal/client/localstore"
	"github.com/dmitrijs2005/finapp/internal/client/session"
	"github.com/dmitrijs2005/finapp/internal/logging"
)

// sessionService is the surface the screens need from the session store.
// *session.Store satisfies it; tests can substitute a double.
type sessionService interface {
	flow.Session
	Resume(ctx context.Context)
	UploadAvatar(ctx context.Context, contentType string, data []byte) error
	Close(ctx context.Context) error
}

// App hosts the terminal screens and the controllers driving them. One
// screen runs at a time; the stack navigator decides which, and controllers
// running on other goroutines (the splash gate, the auth redirector) switch
// screens by navigating.
type App struct {
	config  *config.Config
	session sessionService
	nav     *StackNavigator
	toaster *Toaster
	reader  *bufio.Reader
	out     io.Writer
	logger  logging.Logger
	quit    bool
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := localstore.Open(ctx, c.LocalDBPath)
	if err != nil {
		logger.Error(ctx, "error initializing local database", "error", err)
		return nil, err
	}

	cache := localstore.NewSQLiteRepository(db)
	apiClient := api.NewHTTPClient(c.ServerBaseURL)
	store := session.NewStore(apiClient, cache, logger)

	return &App{
		config:  c,
		session: store,
		nav:     NewStackNavigator(flow.PathSplash),
		toaster: NewToaster(os.Stdout),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		logger:  logger,
	}, nil
}

// Run drives the screen loop until the user exits or the context is
// cancelled. The session is resumed in the background while the splash
// screen holds the UI.
func (a *App) Run(ctx context.Context) {
	defer a.session.Close(ctx)

	go a.session.Resume(ctx)

	for !a.quit {
		if ctx.Err() != nil {
			return
		}
		switch a.nav.Current() {
		case flow.PathSplash:
			a.runSplash(ctx)
		case flow.PathAuth:
			a.runAuth(ctx)
		case flow.PathHome:
			a.runHome(ctx)
		case flow.PathDashboard:
			a.runDashboard(ctx)
		case flow.PathProfile:
			a.runProfile(ctx)
		case flow.PathSettings:
			a.runSettings(ctx)
		default:
			a.nav.Navigate(flow.PathHome, true)
		}
	}
}

// back pops the navigation stack, falling back to home when already at the
// root so a stray "back" never strands the user.
func (a *App) back() {
	if !a.nav.Back() {
		a.nav.Navigate(flow.PathHome, true)
	}
}
