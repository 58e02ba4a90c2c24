package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dzikiwschod/clubapp/internal/common"
	"github.com/dzikiwschod/clubapp/internal/logging"
	"github.com/google/uuid"
)

const (
	pathRegister    = "/onboarding"
	pathVerify      = "/onboarding/verify-email"
	pathResend      = "/onboarding/resend-code"
	pathLogin       = "/auth/login"
	pathHealth      = "/health"
	maxBodyBytes    = 1 << 20
	requestIDHeader = "X-Request-ID"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

// NewHTTPClient returns a client for the backend at baseURL. Every request is
// bounded by timeout in addition to the caller's context.
func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("module", "api_client"),
	}
}

func (c *HTTPClient) Register(ctx context.Context, req RegistrationRequest) error {
	return c.post(ctx, pathRegister, req, nil, common.ErrRegistrationRejected)
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*VerifyEmailResponse, error) {
	resp := &VerifyEmailResponse{}
	if err := c.post(ctx, pathVerify, req, resp, common.ErrVerificationRejected); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) ResendCode(ctx context.Context, email string) error {
	return c.post(ctx, pathResend, ResendCodeRequest{Email: email}, nil, common.ErrVerificationRejected)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	resp := &LoginResponse{}
	if err := c.post(ctx, pathLogin, LoginRequest{Email: email, Password: password}, resp, common.ErrUnauthorized); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &common.RemoteError{Kind: common.ErrUnauthorized, Status: http.StatusOK, Message: "empty token"}
	}
	return resp.Token, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathHealth, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// post sends body as JSON and decodes a 2xx response into out (if non-nil).
// Non-2xx responses are reported as *common.RemoteError of the given kind.
func (c *HTTPClient) post(ctx context.Context, path string, body any, out any, kind error) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	log := c.logger.With("path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return c.transportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er ErrorResponse
		_ = json.Unmarshal(data, &er)
		log.Info(ctx, "request rejected", "status", resp.StatusCode)
		return &common.RemoteError{Kind: kind, Status: resp.StatusCode, Message: er.Message}
	}

	log.Debug(ctx, "request ok", "status", resp.StatusCode)

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
