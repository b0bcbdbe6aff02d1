package routes

import "context"

// NavigationLink is one entry of the caller-specific navigation menu.
type NavigationLink struct {
	Method             string  `json:"method"`
	URL                string  `json:"url"`
	Label              string  `json:"label"`
	PermissionRequired *string `json:"permission_required"`
	PermissionID       *int64  `json:"permission_id"`
	HasPermission      bool    `json:"has_permission"`
}

// BuildNavigation returns every labeled GET route in declaration order,
// annotated with the caller's access. Entries the caller cannot reach are
// still listed with has_permission false, so clients can render them
// disabled rather than hidden.
func (t *Table) BuildNavigation(ctx context.Context) []NavigationLink {
	links := make([]NavigationLink, 0)
	for _, g := range t.groups {
		for _, route := range g.Routes {
			if route.Method != "GET" || route.Label == "" {
				continue
			}
			link := NavigationLink{
				Method:        route.Method,
				URL:           route.URL,
				Label:         route.Label,
				HasPermission: t.gate.CanAccess(ctx, route.Permission),
			}
			if route.Permission != "" {
				perm := route.Permission
				link.PermissionRequired = &perm
				if t.perms != nil {
					if id, err := t.perms.PermissionIDByName(ctx, perm); err == nil {
						link.PermissionID = &id
					}
				}
			}
			links = append(links, link)
		}
	}
	return links
}
