package models

import "time"

// VerificationCode is the pending email code of a user. A user has at most
// one; issuing a new code replaces the old one.
type VerificationCode struct {
	UserID  string
	Code    string
	Expires time.Time
}
