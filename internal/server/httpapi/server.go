// Package httpapi exposes the onboarding service over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dzikiwschod/clubapp/internal/logging"
	"github.com/dzikiwschod/clubapp/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// Onboarding is the business logic the handlers call.
type Onboarding interface {
	Register(ctx context.Context, r services.Registration) error
	VerifyEmail(ctx context.Context, email, code string, marketing, dataProcessing bool) (string, error)
	ResendCode(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (string, error)
}

type HTTPServer struct {
	address   string
	svc       Onboarding
	logger    logging.Logger
	jwtSecret []byte
	limiter   *clientLimiter
}

func NewHTTPServer(address string, l logging.Logger, svc Onboarding, secretKey string, rps float64, burst int) *HTTPServer {
	return &HTTPServer{
		address:   address,
		svc:       svc,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(secretKey),
		limiter:   newClientLimiter(rps, burst),
	}
}

// Routes builds the router with all middleware attached.
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.Health)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Post("/onboarding", s.Register)
		r.Post("/onboarding/verify-email", s.VerifyEmail)
		r.Post("/onboarding/resend-code", s.ResendCode)
		r.Post("/auth/login", s.Login)

		r.With(s.bearerAuth).Get("/auth/session", s.Session)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
