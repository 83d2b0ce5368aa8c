package domain

import "time"

// Setting is a persisted key/value pair owned by the built-in settings commands.
type Setting struct {
	Key       string    `json:"key" mapstructure:"key"`
	Value     string    `json:"value" mapstructure:"value"`
	Category  string    `json:"category,omitempty" mapstructure:"category"`
	UpdatedAt time.Time `json:"updated_at" mapstructure:"updated_at"`
}
