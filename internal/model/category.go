package model

// Category is a user-visible grouping that event types belong to.
// Built-in categories cannot be deleted, only relabeled or restyled.
type Category struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Color   string `json:"color"`
	BuiltIn bool   `json:"built_in,omitempty"`
}

// EventTypeDefinition is a named, categorized kind of loggable
// occurrence. CategoryID always references an existing Category; the
// registry reassigns definitions when their category is deleted.
type EventTypeDefinition struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	CategoryID string `json:"category_id"`
	BuiltIn    bool   `json:"built_in,omitempty"`
}
