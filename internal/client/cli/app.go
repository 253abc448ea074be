// Package cli implements the interactive CharKeeper client: a small REPL
// over the local-first store, with optional cloud sync once logged in.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/charkeeper/internal/client/config"
	"github.com/dmitrijs2005/charkeeper/internal/client/localstore"
	"github.com/dmitrijs2005/charkeeper/internal/client/models"
	"github.com/dmitrijs2005/charkeeper/internal/client/remote"
	"github.com/dmitrijs2005/charkeeper/internal/client/store"
	"github.com/dmitrijs2005/charkeeper/internal/logging"
)

type App struct {
	config   *config.Config
	store    *store.Store
	client   *remote.HTTPClient
	reader   *bufio.Reader
	loggedIn bool
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	local, err := localstore.New(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("local store init: %w", err)
	}

	client := remote.NewHTTPClient(c.ServerBaseURL, logger)
	st := store.New(local, client, logger, store.WithDebounceInterval(c.DebounceInterval))

	return &App{
		config: c,
		store:  st,
		client: client,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Run opens the store (local fast path plus background cloud sync), starts
// the availability watcher, and hands control to the REPL until EOF or exit.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.store.Open(ctx)
	go a.client.StartAvailabilityWatcher(ctx, a.config.OnlineCheckInterval)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.statusLine, scanner)

	a.store.Close()
	_ = a.client.Close()
}

func (a *App) isLoggedIn() bool { return a.loggedIn }

func (a *App) statusLine() string {
	st := a.store.Status()
	online := "offline"
	if a.client.Available() {
		online = "online"
	}
	if st.State == models.SyncFailure {
		return fmt.Sprintf("%s, sync failed: %s", online, st.Reason)
	}
	return fmt.Sprintf("%s, %s", online, st.State)
}
