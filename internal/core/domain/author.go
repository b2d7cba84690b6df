package domain

// Author is deduplicated by exact name: the same name string always
// resolves to the same author record.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Born *int   `json:"born,omitempty"`
}
