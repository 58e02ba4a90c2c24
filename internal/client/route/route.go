// Package route decides which top-level area of the app may be shown.
package route

import "github.com/dzikiwschod/clubapp/internal/client/session"

type Destination int

const (
	// Pending means the session has not been restored yet. Nothing is shown.
	Pending Destination = iota
	Onboarding
	Main
	Login
)

func (d Destination) String() string {
	switch d {
	case Pending:
		return "pending"
	case Onboarding:
		return "onboarding"
	case Main:
		return "main"
	case Login:
		return "login"
	default:
		return "unknown"
	}
}

// Decide maps a session snapshot to its destination. Onboarding always wins
// over authentication: a device that never finished onboarding is sent
// there even if it holds a token.
func Decide(s session.Snapshot) Destination {
	switch {
	case !s.Ready:
		return Pending
	case !s.Onboarded:
		return Onboarding
	case s.Authenticated:
		return Main
	default:
		return Login
	}
}
