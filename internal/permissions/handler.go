package permissions

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/openoffice/openoffice-api/internal/platform/httpx"
	"github.com/openoffice/openoffice-api/internal/routes"
	"github.com/openoffice/openoffice-api/internal/shared"
)

// Handler manages permission administration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

type permissionForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Index lists permissions.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageQuery(r)
	perms, meta, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.fail(w, "list permissions", err)
		return
	}
	httpx.Success(w, http.StatusOK, "Permissions retrieved successfully.", map[string]any{
		"permissions": perms,
		"pagination":  meta,
	})
}

// Show returns a single permission.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get permission", err)
		return
	}
	httpx.Success(w, http.StatusOK, "Permission retrieved successfully.", p)
}

// Store creates a permission.
func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	var form permissionForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	p, err := h.service.Create(r.Context(), form.Name, form.Description)
	if err != nil {
		h.fail(w, "create permission", err)
		return
	}
	httpx.Success(w, http.StatusCreated, "Permission created successfully.", p)
}

// Update modifies a permission.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var form permissionForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	p, err := h.service.Update(r.Context(), id, form.Name, form.Description)
	if err != nil {
		h.fail(w, "update permission", err)
		return
	}
	httpx.Success(w, http.StatusOK, "Permission updated successfully.", p)
}

// Destroy deletes a permission and its role links.
func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete permission", err)
		return
	}
	httpx.Success(w, http.StatusOK, "Permission and its associations deleted successfully.", map[string]any{"id": id})
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
		httpx.Error(w, http.StatusBadRequest, "A valid Permission ID is required in the URL.")
		return 0, false
	}
	return id, true
}
