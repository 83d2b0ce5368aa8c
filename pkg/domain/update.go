package domain

import "time"

// Update describes a newer application release reported by an updater.
type Update struct {
	Version        string    `json:"version"`
	CurrentVersion string    `json:"currentVersion"`
	Notes          string    `json:"notes,omitempty"`
	URL            string    `json:"url,omitempty"`
	Date           time.Time `json:"date,omitzero"`
}
