package cli

import (
	"context"

	"github.com/dzikiwschod/clubapp/internal/common"
)

// getSimpleText, getPassword and getYesNo are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getYesNo      = GetYesNo
)

// Login prompts for email and password, exchanges them for a session token
// and stores it. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		a.logger.Warn(ctx, "login unsuccessful", "error", err)
		return err
	}

	if err := a.session.Login(ctx, token); err != nil {
		return err
	}

	a.logger.Info(ctx, "login successful")
	return nil
}

// Logout forgets the stored session token.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out.")
	return nil
}

// ResetOnboarding clears the onboarding flag so the next route decision
// sends the user through onboarding again. The login is kept.
func (a *App) ResetOnboarding(ctx context.Context) error {
	if err := a.session.ResetOnboarding(ctx); err != nil {
		return err
	}
	printlnFn("Onboarding reset.")
	return nil
}
