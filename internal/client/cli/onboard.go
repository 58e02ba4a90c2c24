package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dzikiwschod/clubapp/internal/client/onboarding"
	"github.com/dzikiwschod/clubapp/internal/common"
)

type stage int

const (
	stageIdentity stage = iota
	stageRole
	stageCredentials
	stageConfirm
	stageVerify
)

func (s stage) String() string {
	switch s {
	case stageIdentity:
		return "identity"
	case stageRole:
		return "role"
	case stageCredentials:
		return "credentials"
	case stageConfirm:
		return "confirm"
	case stageVerify:
		return "verify"
	default:
		return "unknown"
	}
}

// wizard is one pass through the onboarding screens.
type wizard struct {
	draft  *onboarding.State
	stage  stage
	screen *onboarding.VerifyScreen
}

func (w *wizard) leave() {
	if w.screen != nil {
		w.screen.Leave()
		w.screen = nil
	}
}

func (a *App) currentWizard() *wizard {
	if a.wizard == nil {
		a.wizard = &wizard{draft: onboarding.NewState()}
	}
	return a.wizard
}

func (a *App) wrongStage(cmd string) error {
	printlnFn(fmt.Sprintf("'%s' is not available at the %s step.", cmd, a.wizard.stage))
	return nil
}

// Onboard shows the current form step and advances when it validates.
func (a *App) Onboard(ctx context.Context) error {
	w := a.currentWizard()

	var (
		step onboarding.Step
		form onboarding.Form
		err  error
	)
	switch w.stage {
	case stageIdentity:
		step = onboarding.StepIdentity
		form, err = a.askIdentity()
	case stageRole:
		step = onboarding.StepRole
		form, err = a.askRole(w.draft.Data().Role)
	case stageCredentials:
		step = onboarding.StepCredentials
		form, err = a.askCredentials()
	case stageConfirm:
		printlnFn("All steps are filled in. Type 'confirm' to review and submit.")
		return nil
	case stageVerify:
		printlnFn("Check your inbox. Type 'verify' to enter the code or 'resend' for a new one.")
		return nil
	}
	if err != nil {
		return err
	}

	p, err := onboarding.Apply(step, form)
	if err != nil {
		return err
	}
	w.draft.Update(p)
	w.stage++

	a.logger.Debug(ctx, "onboarding step done", "step", step.String())
	return nil
}

func (a *App) askIdentity() (onboarding.Form, error) {
	form := onboarding.Form{}
	prompts := []struct {
		field  onboarding.Field
		prompt string
	}{
		{onboarding.FieldFirstName, "First name"},
		{onboarding.FieldLastName, "Last name"},
		{onboarding.FieldNick, "Nickname (optional)"},
		{onboarding.FieldPhoneNumber, "Phone number (9 digits, " + onboarding.CountryPrefix + " is added)"},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.prompt, a.out)
		if err != nil {
			return nil, err
		}
		form[p.field] = v
	}
	return form, nil
}

func (a *App) askRole(current string) (onboarding.Form, error) {
	prompt := "Role (" + strings.Join(onboarding.Roles, ", ") + ")"
	if current != "" {
		prompt += " [" + current + "]"
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return nil, err
	}
	if v == "" {
		v = current
	}
	return onboarding.Form{onboarding.FieldRole: strings.ToLower(v)}, nil
}

func (a *App) askCredentials() (onboarding.Form, error) {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return nil, err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	return onboarding.Form{
		onboarding.FieldEmail:           email,
		onboarding.FieldPassword:        string(password),
		onboarding.FieldConfirmPassword: string(confirm),
	}, nil
}

// Back returns to the previous step. The draft keeps everything entered so
// far.
func (a *App) Back(_ context.Context) error {
	w := a.currentWizard()
	if w.stage == stageIdentity {
		printlnFn("Already at the first step.")
		return nil
	}
	if w.stage == stageVerify {
		w.leave()
	}
	w.stage--
	return nil
}

// Confirm shows the draft and submits it for registration.
func (a *App) Confirm(ctx context.Context) error {
	w := a.currentWizard()
	if w.stage != stageConfirm {
		return a.wrongStage("confirm")
	}

	d := w.draft.Data()
	printlnFn(formatDraft(d))

	ok, err := getYesNo(a.reader, "Submit registration?", false, a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.flow.SubmitRegistration(ctx, d); err != nil {
		return err
	}

	w.screen = onboarding.NewVerifyScreen(a.flow, d.Email, onboarding.WithCooldown(a.config.ResendCooldown))
	w.stage = stageVerify
	printlnFn("We sent a 6-digit code to " + d.Email + ". Type 'verify' to enter it.")
	return nil
}

// Verify asks for the emailed code and the consents and confirms the
// address. Success moves the session out of onboarding.
func (a *App) Verify(ctx context.Context) error {
	w := a.currentWizard()
	if w.stage != stageVerify || w.screen == nil {
		return a.wrongStage("verify")
	}

	code, err := getSimpleText(a.reader, "Verification code", a.out)
	if err != nil {
		return err
	}
	marketing, err := getYesNo(a.reader, "I agree to receive news and offers", true, a.out)
	if err != nil {
		return err
	}
	dataProcessing, err := getYesNo(a.reader, "I agree to the processing of my personal data (required)", false, a.out)
	if err != nil {
		return err
	}

	w.draft.Update(onboarding.Partial{
		Consent1: onboarding.Ptr(dataProcessing),
		Consent2: onboarding.Ptr(marketing),
	})

	if err := w.screen.Verify(ctx, code, marketing, dataProcessing); err != nil {
		return err
	}
	printlnFn("Email verified. Welcome to the club!")
	return nil
}

// Resend asks for a new code, unless one was sent less than the cooldown
// ago.
func (a *App) Resend(ctx context.Context) error {
	w := a.currentWizard()
	if w.stage != stageVerify || w.screen == nil {
		return a.wrongStage("resend")
	}

	err := w.screen.Resend(ctx)
	if errors.Is(err, onboarding.ErrCooldown) {
		secs := int(w.screen.CooldownRemaining() / time.Second)
		printlnFn(fmt.Sprintf("You can request a new code in %ds.", secs))

		wait, askErr := getYesNo(a.reader, "Wait and send it then?", false, a.out)
		if askErr != nil || !wait {
			return askErr
		}
		if waitErr := waitCooldown(ctx, w.screen); waitErr != nil {
			return waitErr
		}
		err = w.screen.Resend(ctx)
	}
	if err != nil {
		return err
	}
	printlnFn("A new code is on its way to " + w.screen.Email() + ".")
	return nil
}

// countdownTicker paces the cooldown countdown; swapped in tests.
var countdownTicker = func() *time.Ticker { return time.NewTicker(time.Second) }

// waitCooldown prints the remaining seconds until screen allows a resend.
func waitCooldown(ctx context.Context, screen *onboarding.VerifyScreen) error {
	ticker := countdownTicker()
	defer ticker.Stop()

	last := -1
	for secs := range screen.Countdown(ticker.C) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if secs > 0 && secs != last {
			printlnFn(fmt.Sprintf("%ds...", secs))
		}
		last = secs
	}
	if last != 0 {
		return onboarding.ErrLeft
	}
	return nil
}

func formatDraft(d onboarding.Data) string {
	var b strings.Builder
	fmt.Fprintf(&b, "First name: %s\n", d.FirstName)
	fmt.Fprintf(&b, "Last name:  %s\n", d.LastName)
	if d.Nick != "" {
		fmt.Fprintf(&b, "Nickname:   %s\n", d.Nick)
	}
	fmt.Fprintf(&b, "Phone:      %s\n", d.PhoneNumber)
	fmt.Fprintf(&b, "Role:       %s\n", d.Role)
	fmt.Fprintf(&b, "Email:      %s\n", d.Email)
	fmt.Fprintf(&b, "Password:   %s", strings.Repeat("*", len(d.Password)))
	return b.String()
}
