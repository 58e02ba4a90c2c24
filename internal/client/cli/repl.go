package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dzikiwschod/clubapp/internal/client/route"
	"github.com/dzikiwschod/clubapp/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	refresh() route.Destination
	Onboard(ctx context.Context) error
	Back(ctx context.Context) error
	Confirm(ctx context.Context) error
	Verify(ctx context.Context) error
	Resend(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ResetOnboarding(ctx context.Context) error
	Status(ctx context.Context) error
}

// commands lists what each area offers, in help order.
var commands = map[route.Destination][]string{
	route.Onboarding: {"onboard", "back", "confirm", "verify", "resend", "reset-onboarding", "status", "exit"},
	route.Login:      {"login", "reset-onboarding", "status", "exit"},
	route.Main:       {"logout", "reset-onboarding", "status", "exit"},
}

func available(area route.Destination, cmd string) bool {
	for _, c := range commands[area] {
		if c == cmd {
			return true
		}
	}
	return false
}

// runREPL starts a simple read–eval–print loop for the club client.
//
// Before every prompt the route is re-evaluated, so a login, logout or
// finished onboarding moves the user to the right area immediately. Only the
// commands of the current area are accepted. The loop exits on EOF, when the
// user types "exit" or "quit", or when ctx is done.
//
// Errors returned by command handlers are shown as a user-facing message and
// never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		area := a.refresh()

		printlnFn(fmt.Sprintf("club %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: " + strings.Join(commands[area], ", "))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !available(area, cmd) {
			printlnFn("Unknown command:", cmd)
			continue
		}

		var handler func(context.Context) error
		switch cmd {
		case "onboard":
			handler = a.Onboard
		case "back":
			handler = a.Back
		case "confirm":
			handler = a.Confirm
		case "verify":
			handler = a.Verify
		case "resend":
			handler = a.Resend
		case "login":
			handler = a.Login
		case "logout":
			handler = a.Logout
		case "reset-onboarding":
			handler = a.ResetOnboarding
		case "status":
			handler = a.Status
		}

		if err := handler(ctx); err != nil {
			printlnFn("Error:", common.UserMessage(err))
		}
	}
}
