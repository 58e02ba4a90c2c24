// Package cli provides the interactive club client.
//
// It is the rendering and navigation layer over the client core: it restores
// the session, asks the route guard where the user belongs, and offers the
// commands of that area (onboarding, login or main) in a REPL. A background
// watcher probes the backend and shows online/offline in the prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
