// Package session is the client's single source of truth for "is this device
// logged in" and "has this device ever finished onboarding".
//
// The credential itself lives only in the secure store; State keeps the
// boolean derived from its presence. The onboarding fact is a sentinel value
// in the general device store.
//
// Lifecycle: construct with New, call Initialize once at startup, then read
// with Snapshot and mutate with Login, Logout, SetOnboarded, ResetOnboarding.
// Every mutation writes to its store first and flips the in-memory flag only
// after the write succeeded.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dzikiwschod/clubapp/internal/client/stores"
	"github.com/dzikiwschod/clubapp/internal/common"
	"github.com/dzikiwschod/clubapp/internal/logging"
)

const (
	TokenKey      = "auth_token"
	OnboardedKey  = "has_onboarded"
	OnboardedDone = "1"
)

var (
	ErrNotReady   = errors.New("session not initialized")
	ErrEmptyToken = errors.New("empty credential token")
)

// Snapshot is a point-in-time copy of the session flags.
type Snapshot struct {
	Ready         bool
	Authenticated bool
	Onboarded     bool
}

type State struct {
	secure stores.Store
	device stores.Store
	logger logging.Logger

	// writeMu serializes store writes so each mutation is one
	// write-then-flip step with no interleaving.
	writeMu sync.Mutex

	mu        sync.RWMutex
	snap      Snapshot
	listeners []func(Snapshot)

	initOnce sync.Once
}

// New wires State to its two stores. secure holds only the token; device
// holds only the onboarding sentinel.
func New(secure, device stores.Store, logger logging.Logger) *State {
	return &State{
		secure: secure,
		device: device,
		logger: logger.With("module", "session"),
	}
}

// Initialize reads both stores concurrently and marks the state ready once
// both reads have finished. Read failures are logged and count as "absent".
// Only the first call does anything.
func (s *State) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		var (
			wg        sync.WaitGroup
			hasToken  bool
			onboarded bool
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			token, ok, err := s.secure.Get(ctx, TokenKey)
			if err != nil {
				s.logger.Warn(ctx, "credential read failed, treating as absent", "error", fmt.Errorf("%w: %v", common.ErrStorageRead, err))
				return
			}
			hasToken = ok && token != ""
		}()
		go func() {
			defer wg.Done()
			v, ok, err := s.device.Get(ctx, OnboardedKey)
			if err != nil {
				s.logger.Warn(ctx, "onboarding flag read failed, treating as absent", "error", fmt.Errorf("%w: %v", common.ErrStorageRead, err))
				return
			}
			onboarded = ok && v == OnboardedDone
		}()
		wg.Wait()

		s.update(func(sn *Snapshot) {
			sn.Ready = true
			sn.Authenticated = hasToken
			sn.Onboarded = onboarded
		})
		s.logger.Info(ctx, "session restored", "authenticated", hasToken, "onboarded", onboarded)
	})
}

// Snapshot returns the current flags.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers fn to be called with the new Snapshot after every
// change. fn runs synchronously on the goroutine that made the change.
func (s *State) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Login stores token in the secure store and marks the session authenticated.
func (s *State) Login(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	return s.mutate(ctx, "login", func() error {
		return s.secure.Set(ctx, TokenKey, token)
	}, func(sn *Snapshot) { sn.Authenticated = true })
}

// Logout removes the token and marks the session unauthenticated.
func (s *State) Logout(ctx context.Context) error {
	return s.mutate(ctx, "logout", func() error {
		return s.secure.Delete(ctx, TokenKey)
	}, func(sn *Snapshot) { sn.Authenticated = false })
}

// SetOnboarded persists the onboarding sentinel.
func (s *State) SetOnboarded(ctx context.Context) error {
	return s.mutate(ctx, "set onboarded", func() error {
		return s.device.Set(ctx, OnboardedKey, OnboardedDone)
	}, func(sn *Snapshot) { sn.Onboarded = true })
}

// ResetOnboarding deletes the onboarding sentinel. Authentication is untouched.
func (s *State) ResetOnboarding(ctx context.Context) error {
	return s.mutate(ctx, "reset onboarding", func() error {
		return s.device.Delete(ctx, OnboardedKey)
	}, func(sn *Snapshot) { sn.Onboarded = false })
}

func (s *State) mutate(ctx context.Context, op string, write func() error, apply func(*Snapshot)) error {
	if !s.Snapshot().Ready {
		return ErrNotReady
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := write(); err != nil {
		s.logger.Error(ctx, op+" failed", "error", err)
		return fmt.Errorf("%s: %w: %v", op, common.ErrStorageWrite, err)
	}

	s.update(apply)
	s.logger.Debug(ctx, op+" done")
	return nil
}

func (s *State) update(apply func(*Snapshot)) {
	s.mu.Lock()
	before := s.snap
	apply(&s.snap)
	after := s.snap
	listeners := append([]func(Snapshot){}, s.listeners...)
	s.mu.Unlock()

	if before == after {
		return
	}
	for _, fn := range listeners {
		fn(after)
	}
}
