package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/openoffice/openoffice-api/internal/platform/httpx"
	"github.com/openoffice/openoffice-api/internal/shared"
)

// Handler manages the authentication endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type loginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerForm struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type forgotPasswordForm struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordForm struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login exchanges credentials for an access token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if form.Username == "" || form.Password == "" {
		httpx.Error(w, http.StatusBadRequest, "Username and password are required.")
		return
	}
	token, err := h.service.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.Error(w, http.StatusUnauthorized, "Invalid credentials.")
			return
		}
		h.fail(w, "login", err)
		return
	}
	httpx.Success(w, http.StatusOK, "Login successful.", map[string]string{"token": token})
}

// Register creates a new account with the default role.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Username, email, and password are required.")
		return
	}
	if err := h.service.Register(r.Context(), form.Username, form.Email, form.Password); err != nil {
		h.fail(w, "register", err)
		return
	}
	httpx.Success(w, http.StatusCreated, "User registered successfully.", nil)
}

// Logout acknowledges the request. Tokens are stateless, so the client is
// responsible for discarding its copy.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	httpx.Success(w, http.StatusOK, "Logout successful. Please discard your token.", nil)
}

// ForgotPassword starts the password reset flow.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var form forgotPasswordForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "A valid email address is required.")
		return
	}
	if err := h.service.RequestPasswordReset(r.Context(), form.Email); err != nil {
		h.fail(w, "forgot password", err)
		return
	}
	httpx.Success(w, http.StatusOK, "If the account exists, a password reset link has been sent.", nil)
}

// ResetPassword completes the password reset flow.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var form resetPasswordForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Token and a new password of at least 8 characters are required.")
		return
	}
	if err := h.service.ResetPassword(r.Context(), form.Token, form.Password); err != nil {
		h.fail(w, "reset password", err)
		return
	}
	httpx.Success(w, http.StatusOK, "Password has been reset successfully.", nil)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
