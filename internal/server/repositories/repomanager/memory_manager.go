package repomanager

import (
	"context"
	"sync"

	"github.com/dzikiwschod/clubapp/internal/dbx"
	"github.com/dzikiwschod/clubapp/internal/server/repositories/codes"
	"github.com/dzikiwschod/clubapp/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps everything in process memory. WithTx
// serializes transactions and restores the previous contents when fn fails.
type InMemoryRepositoryManager struct {
	mu    sync.Mutex
	users *users.MemoryRepository
	codes *codes.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		codes: codes.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Conn() dbx.DBTX { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *InMemoryRepositoryManager) Codes(dbx.DBTX) codes.Repository { return m.codes }

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	restoreUsers := m.users.Snapshot()
	restoreCodes := m.codes.Snapshot()

	if err := fn(ctx, nil); err != nil {
		restoreUsers()
		restoreCodes()
		return err
	}
	return nil
}

func (m *InMemoryRepositoryManager) Close() error { return nil }
