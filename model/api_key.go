package model

import "time"

// APIKey is keyed in the registry by the token itself, so the record
// only carries the descriptive bits.
type APIKey struct {
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	Active     bool      `json:"active"`
	UsageCount int64     `json:"usage_count"`
}
