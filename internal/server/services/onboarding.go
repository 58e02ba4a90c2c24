// Package services contains server-side business logic. OnboardingService
// handles member registration, email verification with a 6-digit code, and
// password login that issues a session JWT.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dzikiwschod/clubapp/internal/client/onboarding"
	"github.com/dzikiwschod/clubapp/internal/common"
	"github.com/dzikiwschod/clubapp/internal/dbx"
	"github.com/dzikiwschod/clubapp/internal/logging"
	"github.com/dzikiwschod/clubapp/internal/server/auth"
	"github.com/dzikiwschod/clubapp/internal/server/config"
	"github.com/dzikiwschod/clubapp/internal/server/models"
	"github.com/dzikiwschod/clubapp/internal/server/repositories/repomanager"
)

// CodeLength is the number of digits in an emailed verification code.
const CodeLength = 6

// Registration is what a new member submits.
type Registration struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Nick        string
	Role        string
	PhoneNumber string
}

type OnboardingService struct {
	repomanager   repomanager.RepositoryManager
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	codeValidity  time.Duration
	bcryptCost    int

	now     func() time.Time
	newCode func() (string, error)
}

// Option customizes an OnboardingService.
type Option func(*OnboardingService)

// WithCodeGenerator replaces the random verification code source.
func WithCodeGenerator(fn func() (string, error)) Option {
	return func(s *OnboardingService) { s.newCode = fn }
}

// WithClock replaces time.Now for code expiry.
func WithClock(now func() time.Time) Option {
	return func(s *OnboardingService) { s.now = now }
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *OnboardingService) { s.bcryptCost = cost }
}

// NewOnboardingService constructs an OnboardingService using repositories
// and server config.
func NewOnboardingService(m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger, opts ...Option) *OnboardingService {
	s := &OnboardingService{
		repomanager:   m,
		logger:        logger.With("module", "onboarding"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		codeValidity:  cfg.CodeValidityDuration,
		bcryptCost:    bcrypt.DefaultCost,
		now:           time.Now,
		newCode:       func() (string, error) { return common.RandomDigits(CodeLength) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an unverified account and issues a verification code.
// Registering again with the email of an account that was never verified
// replaces that account.
func (s *OnboardingService) Register(ctx context.Context, r Registration) error {
	r.Email = normalizeEmail(r.Email)
	if err := validateRegistration(r); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        r.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(r.FirstName),
		LastName:     strings.TrimSpace(r.LastName),
		Nick:         strings.TrimSpace(r.Nick),
		Role:         r.Role,
		PhoneNumber:  r.PhoneNumber,
	}

	return s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repomanager.Users(tx)

		existing, err := usersRepo.GetUserByEmail(ctx, user.Email)
		switch {
		case err == nil && existing.Verified:
			return common.ErrorAlreadyExists
		case err == nil:
			if err := s.repomanager.Codes(tx).Delete(ctx, existing.ID); err != nil {
				return err
			}
			if err := usersRepo.Delete(ctx, existing.ID); err != nil {
				return err
			}
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		if _, err := usersRepo.Create(ctx, user); err != nil {
			return err
		}
		return s.issueCode(ctx, tx, user)
	})
}

// VerifyEmail checks code against the pending code of email. On success the
// account is verified, the consents are stored and a session token is
// returned.
func (s *OnboardingService) VerifyEmail(ctx context.Context, email, code string, marketing, dataProcessing bool) (string, error) {
	if !dataProcessing {
		return "", fmt.Errorf("%w: data processing consent is required", common.ErrValidation)
	}

	var userID string
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetUserByEmail(ctx, normalizeEmail(email))
		if err != nil {
			return err
		}
		if user.Verified {
			return common.ErrorAlreadyExists
		}

		codesRepo := s.repomanager.Codes(tx)
		pending, err := codesRepo.Find(ctx, user.ID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrCodeExpired
			}
			return err
		}
		if pending.Expires.Before(s.now()) {
			return common.ErrCodeExpired
		}
		if subtle.ConstantTimeCompare([]byte(pending.Code), []byte(code)) != 1 {
			return common.ErrCodeMismatch
		}

		if err := s.repomanager.Users(tx).MarkVerified(ctx, user.ID, marketing, dataProcessing); err != nil {
			return err
		}
		if err := codesRepo.Delete(ctx, user.ID); err != nil {
			return err
		}
		userID = user.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "email verified", "user_id", userID)
	return s.generateToken(userID)
}

// ResendCode replaces the pending code of an unverified account.
func (s *OnboardingService) ResendCode(ctx context.Context, email string) error {
	return s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetUserByEmail(ctx, normalizeEmail(email))
		if err != nil {
			return err
		}
		if user.Verified {
			return common.ErrorAlreadyExists
		}
		return s.issueCode(ctx, tx, user)
	})
}

// Login checks email and password of a verified account and returns a
// session token. Every failure looks the same to the caller.
func (s *OnboardingService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repomanager.Users(s.repomanager.Conn()).GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil || !user.Verified {
		return "", common.ErrUnauthorized
	}

	return s.generateToken(user.ID)
}

// --- helpers below ---

func (s *OnboardingService) issueCode(ctx context.Context, tx dbx.DBTX, user *models.User) error {
	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err := s.repomanager.Codes(tx).Save(ctx, user.ID, code, s.now().Add(s.codeValidity)); err != nil {
		return err
	}
	// There is no mail transport; the code goes to the log.
	s.logger.Info(ctx, "verification code issued", "email", user.Email, "code", code)
	return nil
}

func (s *OnboardingService) generateToken(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(r Registration) error {
	return onboarding.ValidateData(onboarding.Data{
		Email:       r.Email,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Nick:        r.Nick,
		Role:        r.Role,
		PhoneNumber: r.PhoneNumber,
	})
}
