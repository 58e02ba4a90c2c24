// Package client talks to the club backend.
//
// # Overview
//
// The package provides a transport-agnostic contract (see Client) for the
// calls the onboarding and login flows need, and an HTTP/JSON implementation
// (see HTTPClient):
//
//	POST /onboarding               registration draft
//	POST /onboarding/verify-email  email code + consents
//	POST /onboarding/resend-code   new email code
//	POST /auth/login               email + password → session token
//	GET  /health                   liveness probe
//
// # Error Handling
//
// Transport failures wrap common.ErrNetworkUnavailable. Non-2xx responses
// become *common.RemoteError whose Kind depends on the endpoint
// (ErrRegistrationRejected, ErrVerificationRejected, ErrUnauthorized) and whose
// Message is the server's {"message": ...} when present. A cancelled context
// is returned as is so callers can tell "gave up" from "server unreachable".
package client
