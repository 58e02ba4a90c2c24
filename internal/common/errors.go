// Package common defines the sentinel errors and error types shared by the
// club client and the development backend. Callers match them with errors.Is
// and errors.As.
package common

import (
	"errors"
	"fmt"
)

var (
	// Local persistence. A read failure is never fatal: callers treat the
	// value as absent. A write failure leaves in-memory state untouched.
	ErrStorageRead  = errors.New("storage read failed")
	ErrStorageWrite = errors.New("storage write failed")

	// Remote calls.
	ErrNetworkUnavailable   = errors.New("network unavailable")
	ErrRegistrationRejected = errors.New("registration rejected")
	ErrVerificationRejected = errors.New("verification rejected")
	ErrUnauthorized         = errors.New("unauthorized")

	// Input that fails a step's validation rules.
	ErrValidation = errors.New("validation error")

	// Backend repository and service errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorInternal      = errors.New("internal error")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrCodeMismatch    = errors.New("verification code mismatch")
	ErrCodeExpired     = errors.New("verification code expired")
)

// RemoteError is a failure reported by the backend. Kind is one of the remote
// sentinels above; Message is the server-supplied text and may be empty.
type RemoteError struct {
	Kind    error
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (status %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("%v (status %d): %s", e.Kind, e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error { return e.Kind }

// Fallback texts shown when the server did not supply a message.
const (
	MsgRegistrationFailed = "registration failed"
	MsgVerificationFailed = "verification failed"
	MsgLoginFailed        = "login failed"
	MsgConnectionFailed   = "could not connect to the server"
	MsgStorageFailed      = "could not save data on this device"
	MsgUnexpected         = "something went wrong"
)

// UserMessage turns err into the text a person should see. Server messages
// are passed through verbatim; everything else maps to a fixed fallback.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}

	switch {
	case errors.Is(err, ErrNetworkUnavailable):
		return MsgConnectionFailed
	case errors.Is(err, ErrRegistrationRejected):
		return MsgRegistrationFailed
	case errors.Is(err, ErrVerificationRejected):
		return MsgVerificationFailed
	case errors.Is(err, ErrUnauthorized):
		return MsgLoginFailed
	case errors.Is(err, ErrStorageWrite):
		return MsgStorageFailed
	case errors.Is(err, ErrValidation):
		return err.Error()
	}
	return MsgUnexpected
}
