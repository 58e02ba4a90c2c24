package codes

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/dzikiwschod/clubapp/internal/common"
	"github.com/dzikiwschod/clubapp/internal/server/models"
)

// MemoryRepository keeps codes in process memory.
type MemoryRepository struct {
	mu    sync.Mutex
	codes map[string]models.VerificationCode
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{codes: make(map[string]models.VerificationCode)}
}

func (r *MemoryRepository) Save(_ context.Context, userID string, code string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[userID] = models.VerificationCode{UserID: userID, Code: code, Expires: expires}
	return nil
}

func (r *MemoryRepository) Find(_ context.Context, userID string) (*models.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, userID)
	return nil
}

// Snapshot copies the current codes and returns a func that puts them back.
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := maps.Clone(r.codes)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.codes = saved
	}
}
