package domain

// DialogFilter restricts a file picker to a set of extensions.
// Extensions are given without a leading dot ("csv", not ".csv").
type DialogFilter struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

// DialogOptions configures an open-file dialog.
type DialogOptions struct {
	Multiple    bool           `json:"multiple,omitempty"`
	Directory   bool           `json:"directory,omitempty"`
	Filters     []DialogFilter `json:"filters,omitempty"`
	DefaultPath string         `json:"defaultPath,omitempty"`
	Title       string         `json:"title,omitempty"`
}

// SaveDialogOptions configures a save-file dialog.
type SaveDialogOptions struct {
	Filters     []DialogFilter `json:"filters,omitempty"`
	DefaultPath string         `json:"defaultPath,omitempty"`
	Title       string         `json:"title,omitempty"`
}
