package onboarding

import (
	"context"
	"strconv"

	"github.com/dzikiwschod/clubapp/internal/client/client"
	"github.com/dzikiwschod/clubapp/internal/logging"
)

// Session is the part of the session state the flow drives on success.
type Session interface {
	SetOnboarded(ctx context.Context) error
	Login(ctx context.Context, token string) error
}

// Flow issues the remote calls of the onboarding flow.
type Flow struct {
	api     client.Client
	session Session
	logger  logging.Logger
}

func NewFlow(api client.Client, session Session, logger logging.Logger) *Flow {
	return &Flow{
		api:     api,
		session: session,
		logger:  logger.With("module", "onboarding"),
	}
}

// SubmitRegistration sends the draft, minus consents, to the backend.
func (f *Flow) SubmitRegistration(ctx context.Context, d Data) error {
	err := f.api.Register(ctx, client.RegistrationRequest{
		Email:       d.Email,
		Password:    d.Password,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Nick:        d.Nick,
		Role:        d.Role,
		PhoneNumber: d.PhoneNumber,
	})
	if err != nil {
		f.logger.Warn(ctx, "registration failed", "error", err)
		return err
	}
	f.logger.Info(ctx, "registration submitted", "role", d.Role)
	return nil
}

// VerifyCode checks the code and consent locally, then confirms the email
// address with the backend. On success the device is marked as onboarded,
// and logged in when the backend returned a session token.
func (f *Flow) VerifyCode(ctx context.Context, email, code string, marketing, dataProcessing bool) error {
	if err := Validate(StepVerification, Form{
		FieldCode:           code,
		FieldDataProcessing: strconv.FormatBool(dataProcessing),
	}); err != nil {
		return err
	}

	resp, err := f.api.VerifyEmail(ctx, client.VerifyEmailRequest{
		Email:                 email,
		Code:                  code,
		MarketingConsent:      marketing,
		DataProcessingConsent: dataProcessing,
	})
	if err != nil {
		f.logger.Warn(ctx, "verification failed", "error", err)
		return err
	}

	// The caller went away while the request was in flight.
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := f.session.SetOnboarded(ctx); err != nil {
		return err
	}

	if resp != nil && resp.Token != "" {
		if err := f.session.Login(ctx, resp.Token); err != nil {
			return err
		}
	}

	f.logger.Info(ctx, "email verified", "logged_in", resp != nil && resp.Token != "")
	return nil
}

// ResendCode asks the backend for a fresh code. Cooldown is enforced by
// VerifyScreen, not here.
func (f *Flow) ResendCode(ctx context.Context, email string) error {
	if err := f.api.ResendCode(ctx, email); err != nil {
		f.logger.Warn(ctx, "resend failed", "error", err)
		return err
	}
	f.logger.Info(ctx, "verification code resent")
	return nil
}
