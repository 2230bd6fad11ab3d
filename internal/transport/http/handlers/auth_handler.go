package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/bbdolx/backend/internal/service"
	"github.com/bbdolx/backend/pkg/validator"
)

type AuthHandler struct {
	authService    *service.AuthService
	allowedDomains []string
}

func NewAuthHandler(authService *service.AuthService, allowedDomains []string) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		allowedDomains: allowedDomains,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateRegister(input.Email, input.Username, input.Password, input.ConfirmPassword, h.allowedDomains); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.Register(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email is already registered")
		case errors.Is(err, service.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "USERNAME_TAKEN", "Username is already taken")
		default:
			log.Printf("ERROR register: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

type verifyOTPInput struct {
	PendingToken string `json:"pending_token"`
	OTP          string `json:"otp"`
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var input verifyOTPInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateOTP(input.OTP); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, result, err := h.authService.VerifyEmail(r.Context(), input.PendingToken, input.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPendingSession):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "No pending verification found. Please register again.")
		case errors.Is(err, service.ErrOTPNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "No verification code found. Please register again.")
		default:
			log.Printf("ERROR verify otp: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	switch result {
	case service.VerifyExpired:
		writeError(w, http.StatusBadRequest, "EXPIRED", "OTP expired. We sent a new one to your email.")
	case service.VerifyMismatch:
		writeError(w, http.StatusBadRequest, "MISMATCH", "Incorrect OTP. Please try again.")
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

type resendOTPInput struct {
	PendingToken string `json:"pending_token"`
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var input resendOTPInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	delivered, err := h.authService.ResendOTP(r.Context(), input.PendingToken)
	if err != nil {
		if errors.Is(err, service.ErrPendingSession) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Session expired. Please register again.")
		} else {
			log.Printf("ERROR resend otp: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"otp_delivered": delivered})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateLogin(input.Email, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.Login(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCreds):
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, service.ErrNotVerified):
			writeError(w, http.StatusForbidden, "NOT_VERIFIED", "Please verify your email before logging in")
		default:
			log.Printf("ERROR login: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":   "VALIDATION_ERROR",
			"fields": errs,
		},
	})
}
