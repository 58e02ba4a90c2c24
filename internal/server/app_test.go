package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzikiwschod/clubapp/internal/logging"
	"github.com/dzikiwschod/clubapp/internal/server/config"
	"github.com/dzikiwschod/clubapp/internal/server/repositories/repomanager"
)

type migrateFailManager struct {
	*repomanager.InMemoryRepositoryManager
	closed bool
}

func (m *migrateFailManager) RunMigrations(context.Context) error { return errors.New("bad migration") }

func (m *migrateFailManager) Close() error {
	m.closed = true
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddr = "127.0.0.1:0"
	return cfg
}

func stubOpenPostgres(t *testing.T, fn func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error)) {
	t.Helper()
	orig := openPostgres
	openPostgres = fn
	t.Cleanup(func() { openPostgres = orig })
}

func TestNewApp_InMemoryWhenNoDSN(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &repomanager.InMemoryRepositoryManager{}, app.repomanager)
	assert.NotNil(t, app.onboardingService)
}

func TestNewApp_OpenError(t *testing.T) {
	stubOpenPostgres(t, func(context.Context, string) (repomanager.RepositoryManager, error) {
		return nil, errors.New("connection refused")
	})
	cfg := testConfig()
	cfg.DatabaseDSN = "postgres://x"

	_, err := NewApp(context.Background(), cfg, logging.Discard())
	assert.ErrorContains(t, err, "db init error")
}

func TestNewApp_MigrationErrorClosesStorage(t *testing.T) {
	m := &migrateFailManager{InMemoryRepositoryManager: repomanager.NewInMemoryRepositoryManager()}
	var gotDSN string
	stubOpenPostgres(t, func(_ context.Context, dsn string) (repomanager.RepositoryManager, error) {
		gotDSN = dsn
		return m, nil
	})
	cfg := testConfig()
	cfg.DatabaseDSN = "postgres://x"

	_, err := NewApp(context.Background(), cfg, logging.Discard())
	assert.ErrorContains(t, err, "migrations error")
	assert.Equal(t, "postgres://x", gotDSN)
	assert.True(t, m.closed)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
