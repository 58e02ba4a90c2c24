package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzikiwschod/clubapp/internal/common"
	"github.com/dzikiwschod/clubapp/internal/logging"
	"github.com/dzikiwschod/clubapp/internal/server/services"
)

// ---- fakes ----

type fakeOnboarding struct {
	registered services.Registration
	regErr     error

	verifyArgs  []any
	verifyToken string
	verifyErr   error

	resendEmail string
	resendErr   error

	loginToken string
	loginErr   error
}

func (f *fakeOnboarding) Register(_ context.Context, r services.Registration) error {
	f.registered = r
	return f.regErr
}

func (f *fakeOnboarding) VerifyEmail(_ context.Context, email, code string, marketing, dp bool) (string, error) {
	f.verifyArgs = []any{email, code, marketing, dp}
	return f.verifyToken, f.verifyErr
}

func (f *fakeOnboarding) ResendCode(_ context.Context, email string) error {
	f.resendEmail = email
	return f.resendErr
}

func (f *fakeOnboarding) Login(context.Context, string, string) (string, error) {
	return f.loginToken, f.loginErr
}

func newTestServer(svc Onboarding) *HTTPServer {
	return NewHTTPServer("127.0.0.1:0", logging.Discard(), svc, "k", 1000, 1000)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var m messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m.Message
}

// ---- tests ----

func TestHealth_OK(t *testing.T) {
	rec := do(t, newTestServer(&fakeOnboarding{}).Routes(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRegister_PassesFieldsThrough(t *testing.T) {
	f := &fakeOnboarding{}
	body := `{"email":"a@b.pl","password":"pw","firstName":"Anna","lastName":"Nowak",
		"nick":"anka","role":"fan","phoneNumber":"+48600100200"}`

	rec := do(t, newTestServer(f).Routes(), http.MethodPost, "/onboarding", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, services.Registration{
		Email: "a@b.pl", Password: "pw", FirstName: "Anna", LastName: "Nowak",
		Nick: "anka", Role: "fan", PhoneNumber: "+48600100200",
	}, f.registered)
}

func TestRegister_MalformedBody(t *testing.T) {
	rec := do(t, newTestServer(&fakeOnboarding{}).Routes(), http.MethodPost, "/onboarding", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Malformed request body.", message(t, rec))
}

func TestVerifyEmail_ReturnsToken(t *testing.T) {
	f := &fakeOnboarding{verifyToken: "jwt"}
	body := `{"email":"a@b.pl","code":"123456","marketingConsent":true,"dataProcessingConsent":true}`

	rec := do(t, newTestServer(f).Routes(), http.MethodPost, "/onboarding/verify-email", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "jwt", resp.Token)
	assert.Equal(t, []any{"a@b.pl", "123456", true, true}, f.verifyArgs)
}

func TestResendCode_OK(t *testing.T) {
	f := &fakeOnboarding{}
	rec := do(t, newTestServer(f).Routes(), http.MethodPost, "/onboarding/resend-code", `{"email":"a@b.pl"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@b.pl", f.resendEmail)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{fmt.Errorf("%w: role must be one of athlete", common.ErrValidation), http.StatusBadRequest, "validation error: role must be one of athlete"},
		{common.ErrCodeMismatch, http.StatusBadRequest, "The verification code is incorrect."},
		{common.ErrCodeExpired, http.StatusGone, "The verification code has expired. Request a new one."},
		{common.ErrorAlreadyExists, http.StatusConflict, "An account with this email already exists."},
		{common.ErrorNotFound, http.StatusNotFound, "No registration found for this email."},
		{errors.New("db down"), http.StatusInternalServerError, "Internal error."},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			f := &fakeOnboarding{verifyErr: tt.err}
			rec := do(t, newTestServer(f).Routes(), http.MethodPost, "/onboarding/verify-email", `{}`)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, message(t, rec))
		})
	}
}

func TestLogin_Unauthorized(t *testing.T) {
	f := &fakeOnboarding{loginErr: common.ErrUnauthorized}
	rec := do(t, newTestServer(f).Routes(), http.MethodPost, "/auth/login", `{"email":"a@b.pl","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password.", message(t, rec))
}
