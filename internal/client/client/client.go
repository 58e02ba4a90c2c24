package client

import "context"

type Client interface {
	Register(ctx context.Context, req RegistrationRequest) error
	VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*VerifyEmailResponse, error)
	ResendCode(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (string, error)
	Ping(ctx context.Context) error
}

// RegistrationRequest is the registration draft without consents.
type RegistrationRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Nick        string `json:"nick"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phoneNumber"`
}

type VerifyEmailRequest struct {
	Email                 string `json:"email"`
	Code                  string `json:"code"`
	MarketingConsent      bool   `json:"marketingConsent"`
	DataProcessingConsent bool   `json:"dataProcessingConsent"`
}

// VerifyEmailResponse may carry a session token; backends that only confirm
// the address leave it empty.
type VerifyEmailResponse struct {
	Token string `json:"token,omitempty"`
}

type ResendCodeRequest struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the failure body every endpoint uses.
type ErrorResponse struct {
	Message string `json:"message"`
}
