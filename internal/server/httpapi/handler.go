package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dzikiwschod/clubapp/internal/common"
	"github.com/dzikiwschod/clubapp/internal/server/services"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Nick        string `json:"nick"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phoneNumber"`
}

type verifyRequest struct {
	Email                 string `json:"email"`
	Code                  string `json:"code"`
	MarketingConsent      bool   `json:"marketingConsent"`
	DataProcessingConsent bool   `json:"dataProcessingConsent"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type sessionResponse struct {
	UserID string `json:"userId"`
}

func (s *HTTPServer) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "OK"})
}

func (s *HTTPServer) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}

	err := s.svc.Register(r.Context(), services.Registration{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Nick:        req.Nick,
		Role:        req.Role,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "email", req.Email)
	writeJSON(w, http.StatusCreated, messageResponse{Message: "Verification code sent."})
}

func (s *HTTPServer) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !s.decode(w, r, &req) {
		return
	}

	token, err := s.svc.VerifyEmail(r.Context(), req.Email, req.Code, req.MarketingConsent, req.DataProcessingConsent)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *HTTPServer) ResendCode(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.svc.ResendCode(r.Context(), req.Email); err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Verification code sent."})
}

func (s *HTTPServer) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	token, err := s.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Session reports who the bearer token belongs to.
func (s *HTTPServer) Session(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(UserIDKey).(string)
	writeJSON(w, http.StatusOK, sessionResponse{UserID: userID})
}

// --- helpers below ---

func (s *HTTPServer) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Malformed request body."})
		return false
	}
	return true
}

// fail maps a service error to a status and a message the client shows
// verbatim.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), err.Error())
	}
	writeJSON(w, status, messageResponse{Message: msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrCodeMismatch):
		return http.StatusBadRequest, "The verification code is incorrect."
	case errors.Is(err, common.ErrCodeExpired):
		return http.StatusGone, "The verification code has expired. Request a new one."
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "An account with this email already exists."
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "No registration found for this email."
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid email or password."
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Session expired."
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid session."
	default:
		return http.StatusInternalServerError, "Internal error."
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
