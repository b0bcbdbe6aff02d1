package users

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/openoffice/openoffice-api/internal/platform/httpx"
	"github.com/openoffice/openoffice-api/internal/routes"
	"github.com/openoffice/openoffice-api/internal/shared"
)

// Navigator produces the caller-specific navigation menu.
type Navigator interface {
	BuildNavigation(ctx context.Context) []routes.NavigationLink
}

// Handler manages user management endpoints and the caller profile.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	nav       Navigator
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// SetNavigator wires the route table after it has been built. The table
// references handlers, so this link is established last.
func (h *Handler) SetNavigator(nav Navigator) {
	h.nav = nav
}

type createUserForm struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
	RoleID    int64  `json:"role_id" validate:"required"`
}

type updateUserForm struct {
	Username  *string `json:"username"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	RoleID    *int64  `json:"role_id"`
}

// Index lists users.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageQuery(r)
	users, meta, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.fail(w, "list users", err)
		return
	}
	httpx.Success(w, http.StatusOK, "Users retrieved successfully.", map[string]any{
		"users":      users,
		"pagination": meta,
	})
}

// Show returns a single user.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get user", err)
		return
	}
	httpx.Success(w, http.StatusOK, "User retrieved successfully.", user)
}

// Store creates a user.
func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	var form createUserForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing required fields: username, email, password, firstname, lastname and role_id are required.")
		return
	}
	user, err := h.service.Create(r.Context(), CreateParams{
		Username:  form.Username,
		Email:     form.Email,
		Password:  form.Password,
		Firstname: form.Firstname,
		Lastname:  form.Lastname,
		RoleID:    form.RoleID,
	})
	if err != nil {
		h.fail(w, "create user", err)
		return
	}
	httpx.Success(w, http.StatusCreated, "User created successfully.", user)
}

// Update modifies a user.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var form updateUserForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid email format.")
		return
	}
	user, err := h.service.Update(r.Context(), id, UpdateParams{
		Username:  form.Username,
		Email:     form.Email,
		Password:  form.Password,
		Firstname: form.Firstname,
		Lastname:  form.Lastname,
		RoleID:    form.RoleID,
	})
	if err != nil {
		h.fail(w, "update user", err)
		return
	}
	httpx.Success(w, http.StatusOK, "User updated successfully.", user)
}

// Destroy deletes a user. User id 1 is the protected primary admin.
func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete user", err)
		return
	}
	httpx.Success(w, http.StatusOK, "User deleted successfully.", nil)
}

// Profile returns the authenticated caller's details and navigation menu.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	claims := shared.ClaimsFromContext(r.Context())
	if claims == nil {
		httpx.Error(w, http.StatusUnauthorized, "Unable to retrieve user details from token.")
		return
	}
	profile, err := h.service.ProfileFor(r.Context(), claims.UserID, claims.Username, claims.Role)
	if err != nil {
		h.fail(w, "load profile", err)
		return
	}
	var links []routes.NavigationLink
	if h.nav != nil {
		links = h.nav.BuildNavigation(r.Context())
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"message":         "User profile retrieved successfully.",
		"data":            profile,
		"available_links": links,
	})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(routes.Param(r.Context(), "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, "A valid user ID is required.")
		return 0, false
	}
	return id, true
}
