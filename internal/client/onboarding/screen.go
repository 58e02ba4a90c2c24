package onboarding

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrBusy     = errors.New("a request is already in progress")
	ErrCooldown = errors.New("resend is cooling down")
	ErrLeft     = errors.New("screen was left")
)

// DefaultResendCooldown is how long resends stay blocked after a
// successful one.
const DefaultResendCooldown = 60 * time.Second

// Verifier is what VerifyScreen needs from Flow.
type Verifier interface {
	VerifyCode(ctx context.Context, email, code string, marketing, dataProcessing bool) error
	ResendCode(ctx context.Context, email string) error
}

// VerifyScreen is the state of one visit to the verification step. Create a
// new one each time the step is shown; its cooldown does not carry over.
type VerifyScreen struct {
	flow     Verifier
	email    string
	cooldown time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	busy        bool
	left        bool
	resendUntil time.Time
}

type ScreenOption func(*VerifyScreen)

// WithCooldown overrides DefaultResendCooldown.
func WithCooldown(d time.Duration) ScreenOption {
	return func(s *VerifyScreen) { s.cooldown = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ScreenOption {
	return func(s *VerifyScreen) { s.now = now }
}

func NewVerifyScreen(flow Verifier, email string, opts ...ScreenOption) *VerifyScreen {
	ctx, cancel := context.WithCancel(context.Background())
	s := &VerifyScreen{
		flow:     flow,
		email:    email,
		cooldown: DefaultResendCooldown,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *VerifyScreen) Email() string { return s.email }

// Busy reports whether a verify or resend call is in flight.
func (s *VerifyScreen) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Verify submits code and consents. Only one call may be in flight.
func (s *VerifyScreen) Verify(ctx context.Context, code string, marketing, dataProcessing bool) error {
	ctx, done, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	err = s.flow.VerifyCode(ctx, s.email, code, marketing, dataProcessing)
	if s.gone() {
		return ErrLeft
	}
	return err
}

// Resend requests a new code unless the cooldown is running. The cooldown
// starts only after a successful resend.
func (s *VerifyScreen) Resend(ctx context.Context) error {
	if s.CooldownRemaining() > 0 {
		return ErrCooldown
	}

	ctx, done, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	err = s.flow.ResendCode(ctx, s.email)
	if s.gone() {
		return ErrLeft
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.resendUntil = s.now().Add(s.cooldown)
	s.mu.Unlock()
	return nil
}

// CooldownRemaining is the time left before Resend is allowed again, rounded
// up to whole seconds.
func (s *VerifyScreen) CooldownRemaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	left := s.resendUntil.Sub(s.now())
	if left <= 0 {
		return 0
	}
	return (left + time.Second - 1).Truncate(time.Second)
}

// Countdown sends the remaining whole seconds once per tick until the
// cooldown ends or the screen is left, then closes the channel.
func (s *VerifyScreen) Countdown(tick <-chan time.Time) <-chan int {
	out := make(chan int, 1)
	go func() {
		defer close(out)
		for {
			secs := int(s.CooldownRemaining() / time.Second)
			select {
			case out <- secs:
			case <-s.ctx.Done():
				return
			}
			if secs == 0 {
				return
			}
			select {
			case <-tick:
			case <-s.ctx.Done():
				return
			}
		}
	}()
	return out
}

// Leave cancels in-flight calls. Their results are dropped and every later
// call returns ErrLeft.
func (s *VerifyScreen) Leave() {
	s.mu.Lock()
	s.left = true
	s.mu.Unlock()
	s.cancel()
}

func (s *VerifyScreen) begin(ctx context.Context) (context.Context, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.left {
		return nil, nil, ErrLeft
	}
	if s.busy {
		return nil, nil, ErrBusy
	}
	s.busy = true

	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)

	return ctx, func() {
		stop()
		cancel()
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}, nil
}

func (s *VerifyScreen) gone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.left
}
