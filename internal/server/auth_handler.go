package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/futurotec/internal/config"
	"github.com/jonathan/futurotec/internal/logging"
	"github.com/jonathan/futurotec/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService  *UserService
	jwtService   *JWTService
	validator    *validator.Validate
	log          logging.Logger
	cookieSecure bool
	landing      string
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// Sign-out redirects to landing.
func NewAuthHandler(userService *UserService, jwtService *JWTService, cookieSecure bool, landing string, log logging.Logger) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		jwtService:   jwtService,
		validator:    validator.New(),
		log:          log,
		cookieSecure: cookieSecure,
		landing:      landing,
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.authError(w, r, "registration failed", err)
		return
	}

	h.startSession(w, r, user, http.StatusCreated)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.authError(w, r, "login failed", err)
		return
	}

	h.startSession(w, r, user, http.StatusOK)
}

// Logout clears the session cookie and sends the browser to the landing
// page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.landing, http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *types.User, status int) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.log.Error(r.Context(), "failed to generate token", "user_id", user.ID.String(), "err", err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.jwtService.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(types.LoginResponse{User: user, Token: token}); err != nil {
		h.log.Warn(r.Context(), "failed to encode auth response", "err", err)
	}
}

func (h *AuthHandler) authError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error(r.Context(), msg, "err", err)
		http.Error(w, "Internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		// Return first validation error for simplicity
		ve := validationErrors[0]
		return (&ErrValidation{Field: ve.Field(), Message: ve.Tag()}).Error()
	}
	return "validation error: invalid request"
}
