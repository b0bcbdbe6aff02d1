package permissions

// Permission represents an atomic named capability gating one feature.
type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
