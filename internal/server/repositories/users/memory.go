package users

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/dzikiwschod/clubapp/internal/common"
	"github.com/dzikiwschod/clubapp/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. Callers get copies.
type MemoryRepository struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	user.CreatedAt = time.Now()
	u := *user
	r.byID[u.ID] = &u
	r.byEmail[u.Email] = u.ID
	return user, nil
}

func (r *MemoryRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := *r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) MarkVerified(_ context.Context, userID string, marketing, dataProcessing bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.Verified = true
	u.MarketingConsent = marketing
	u.DataProcessingConsent = dataProcessing
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byID[userID]; ok {
		delete(r.byEmail, u.Email)
		delete(r.byID, userID)
	}
	return nil
}

// Snapshot copies the current accounts and returns a func that puts them
// back.
func (r *MemoryRepository) Snapshot() (restore func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byID := make(map[string]*models.User, len(r.byID))
	for id, u := range r.byID {
		c := *u
		byID[id] = &c
	}
	byEmail := maps.Clone(r.byEmail)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.byID = byID
		r.byEmail = byEmail
	}
}
