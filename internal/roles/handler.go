package roles

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/openoffice/openoffice-api/internal/platform/httpx"
	"github.com/openoffice/openoffice-api/internal/routes"
	"github.com/openoffice/openoffice-api/internal/shared"
)

// Handler manages role administration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Index lists roles.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageQuery(r)
	roles, meta, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.fail(w, "list roles", err)
		return
	}
	httpx.Success(w, http.StatusOK, "Roles retrieved successfully.", map[string]any{
		"roles":      roles,
		"pagination": meta,
	})
}

// Show returns a single role with its permission ids.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	role, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get role", err)
		return
	}
	httpx.Success(w, http.StatusOK, "Role retrieved successfully.", role)
}

type storeRoleForm struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	PermissionIDs []int64 `json:"permissions"`
}

// Store creates a role with an optional permission set.
func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	var form storeRoleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	role, err := h.service.Create(r.Context(), form.Name, form.Description, form.PermissionIDs)
	if err != nil {
		h.fail(w, "create role", err)
		return
	}
	httpx.Success(w, http.StatusCreated, "Role created successfully.", role)
}

type updateRoleForm struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	PermissionIDs *[]int64 `json:"permissions"`
}

// Update modifies a role; a permissions key replaces the whole set.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var form updateRoleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	role, err := h.service.Update(r.Context(), id, UpdateParams{
		Name:          form.Name,
		Description:   form.Description,
		PermissionIDs: form.PermissionIDs,
	})
	if err != nil {
		h.fail(w, "update role", err)
		return
	}
	httpx.Success(w, http.StatusOK, "Role updated successfully.", role)
}

// Destroy deletes a non-default, unreferenced role.
func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete role", err)
		return
	}
	httpx.Success(w, http.StatusOK, "Role deleted successfully.", nil)
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
		httpx.Error(w, http.StatusBadRequest, "Invalid role ID.")
		return 0, false
	}
	return id, true
}
