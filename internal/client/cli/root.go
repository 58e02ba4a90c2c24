package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dzikiwschod/clubapp/internal/client/route"
)

// getStatus renders the prompt status, e.g. "(online onboarding/role)".
func (a *App) getStatus() string {
	s := ""
	if m := a.Mode(); m != ModeUnknown {
		s = string(m) + " "
	}
	s += a.area.String()
	if a.area == route.Onboarding && a.wizard != nil {
		s += "/" + a.wizard.stage.String()
	}
	return fmt.Sprintf("(%s)", s)
}

// Status prints the session flags, the current area and connectivity.
func (a *App) Status(_ context.Context) error {
	snap := a.session.Snapshot()
	printlnFn(fmt.Sprintf("ready: %t, logged in: %t, onboarded: %t", snap.Ready, snap.Authenticated, snap.Onboarded))
	printlnFn(fmt.Sprintf("area: %s", route.Decide(snap)))
	if w := a.wizard; w != nil && w.screen != nil {
		if left := w.screen.CooldownRemaining(); left > 0 {
			printlnFn(fmt.Sprintf("new code available in: %ds", int(left/time.Second)))
		}
	}

	mode := a.Mode()
	if mode == ModeUnknown {
		mode = "checking"
	}
	printlnFn(fmt.Sprintf("server: %s (%s)", a.config.ServerBaseURL, mode))
	return nil
}
