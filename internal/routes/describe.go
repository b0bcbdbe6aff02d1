package routes

import (
	"net/http"

	"github.com/openoffice/openoffice-api/internal/platform/httpx"
)

// RouteDescription is the catalog view of a declared route.
type RouteDescription struct {
	Group      string `json:"group"`
	Method     string `json:"method"`
	URL        string `json:"url"`
	Permission string `json:"permission,omitempty"`
	Label      string `json:"label,omitempty"`
}

// Describe lists every declared route in declaration order.
func (t *Table) Describe() []RouteDescription {
	descriptions := make([]RouteDescription, 0, len(t.compiled))
	for _, g := range t.groups {
		for _, route := range g.Routes {
			descriptions = append(descriptions, RouteDescription{
				Group:      g.Name,
				Method:     route.Method,
				URL:        route.URL,
				Permission: route.Permission,
				Label:      route.Label,
			})
		}
	}
	return descriptions
}

// Index serves the route catalog.
func (t *Table) Index(w http.ResponseWriter, r *http.Request) {
	httpx.Success(w, http.StatusOK, "Routes retrieved successfully.", map[string]any{
		"routes": t.Describe(),
	})
}
