package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dzikiwschod/clubapp/internal/client/client"
	"github.com/dzikiwschod/clubapp/internal/client/config"
	"github.com/dzikiwschod/clubapp/internal/client/onboarding"
	"github.com/dzikiwschod/clubapp/internal/client/repositories"
	"github.com/dzikiwschod/clubapp/internal/client/repositories/metadata"
	"github.com/dzikiwschod/clubapp/internal/client/route"
	"github.com/dzikiwschod/clubapp/internal/client/session"
	"github.com/dzikiwschod/clubapp/internal/client/stores"
	"github.com/dzikiwschod/clubapp/internal/client/stores/securestore"
	"github.com/dzikiwschod/clubapp/internal/filex"
	"github.com/dzikiwschod/clubapp/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// MemoryDataDir keeps everything in process memory.
const MemoryDataDir = ":memory:"

type App struct {
	config  *config.Config
	logger  logging.Logger
	api     client.Client
	session *session.State
	flow    *onboarding.Flow
	reader  *bufio.Reader
	out     io.Writer

	// wizard is the onboarding flow on screen, nil outside of it.
	wizard *wizard
	// area is the destination the REPL currently shows.
	area route.Destination

	mu   sync.Mutex
	mode Mode
	// next is the destination last computed from a session change.
	next route.Destination

	closers []func() error
}

// NewApp wires the stores, the API client and the client core.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	secure, device, closers, err := openStores(ctx, c.DataDir)
	if err != nil {
		logger.Error(ctx, "error initializing storage", "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, logger)
	a := newApp(c, logger, api, session.New(secure, device, logger))
	a.closers = closers
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, api client.Client, s *session.State) *App {
	a := &App{
		config:  c,
		logger:  logger.With("module", "cli"),
		api:     api,
		session: s,
		flow:    onboarding.NewFlow(api, s, logger),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	s.Subscribe(a.onSessionChange)
	return a
}

// openStores returns the secure credential store and the device store.
func openStores(ctx context.Context, dataDir string) (stores.Store, stores.Store, []func() error, error) {
	if dataDir == MemoryDataDir {
		return stores.NewMemory(), stores.NewMemory(), nil, nil
	}

	dataDir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	repos, err := repositories.Open(ctx, filepath.Join(dataDir, "club.db"))
	if err != nil {
		return nil, nil, nil, err
	}

	secure := securestore.New(filepath.Join(dataDir, "secure"))
	device := metadata.NewKV(repos.Metadata)
	return secure, device, []func() error{repos.Close}, nil
}

// Run restores the session and serves the REPL until the user exits or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	a.session.Initialize(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	printlnFn("Welcome to the club app (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close(ctx context.Context) {
	if a.wizard != nil {
		a.wizard.leave()
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(ctx, "close failed", "error", err)
		}
	}
}

func (a *App) onSessionChange(s session.Snapshot) {
	a.mu.Lock()
	a.next = route.Decide(s)
	a.mu.Unlock()
}

// refresh moves the REPL to the area the session now routes to. Leaving the
// onboarding area drops the draft.
func (a *App) refresh() route.Destination {
	a.mu.Lock()
	next := a.next
	a.mu.Unlock()

	if next == a.area {
		return a.area
	}

	if a.area == route.Onboarding && a.wizard != nil {
		a.wizard.leave()
		a.wizard = nil
	}
	a.area = next

	switch next {
	case route.Onboarding:
		printlnFn("Welcome! Type 'onboard' to create your account.")
	case route.Login:
		printlnFn("Please log in. Type 'login' to continue.")
	case route.Main:
		printlnFn("You are in. Type 'help' to see what you can do.")
	}
	return next
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// StartOnlineStatusWatcher probes the backend every interval until ctx is
// done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.probe(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
