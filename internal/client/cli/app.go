// Package cli provides the interactive StudyMate command-line client.
//
// It wires configuration, the backend facade, the session store and
// controller, and the local preference database, then runs a view loop that
// re-derives the active view from the session on every change: the landing
// view while signed out, the onboarding wizard while the profile is
// incomplete, and the study shell once it is complete.
//
// The loop is started via App.Run(ctx), which blocks until the user exits.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/studymate-app/studymate/internal/client/backend"
	"github.com/studymate-app/studymate/internal/client/config"
	"github.com/studymate-app/studymate/internal/client/prefs"
	"github.com/studymate-app/studymate/internal/client/session"
	"github.com/studymate-app/studymate/internal/client/study"
	"github.com/studymate-app/studymate/internal/logging"
)

type App struct {
	config     *config.Config
	client     backend.Client
	store      *session.Store
	controller *session.Controller
	study      *study.Service
	prefs      *prefs.Store
	prefsDB    *sql.DB
	log        logging.Logger

	reader *bufio.Reader
	out    io.Writer

	// notice is a one-shot banner shown by the landing view, set when an
	// authenticated session drops back to signed-out.
	notice string
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := prefs.InitDatabase(ctx, c.PrefsDSN)
	if err != nil {
		log.Error(ctx, "error initializing preference database", "err", err)
		return nil, err
	}

	apiClient := backend.NewHTTPClient(c.ServerEndpointAddr)

	store := session.NewStore()
	opts := []session.Option{session.WithLogger(log)}
	if c.DevMode {
		opts = append(opts, session.WithDevMode(true))
	}
	controller := session.NewController(apiClient, store, opts...)

	return &App{
		config:     c,
		client:     apiClient,
		store:      store,
		controller: controller,
		study:      study.NewService(apiClient),
		prefs:      prefs.NewStore(db),
		prefsDB:    db,
		log:        log,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}, nil
}

// Run starts the session and blocks in the view loop until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	a.controller.Start(ctx)
	a.Root(ctx)
}

func (a *App) close() {
	a.controller.Close()
	_ = a.client.Close()
	if a.prefsDB != nil {
		_ = a.prefsDB.Close()
	}
}
