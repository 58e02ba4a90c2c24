package models

import "time"

// User is a club member account. It becomes usable for login once Verified.
type User struct {
	ID                    string
	Email                 string
	PasswordHash          []byte
	FirstName             string
	LastName              string
	Nick                  string
	Role                  string
	PhoneNumber           string
	Verified              bool
	MarketingConsent      bool
	DataProcessingConsent bool
	CreatedAt             time.Time
}
