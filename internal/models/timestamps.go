package models

import "time"

// Timestamps adds lifecycle timestamps and a soft-delete marker to any entity that embeds it.
//
// CreatedAt is set once on the first save, UpdatedAt on every save. A nil DeletedAt
// means the row is alive; default reads skip rows where it is set.
type Timestamps struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Touch stamps the timestamps ahead of a save
func (t *Timestamps) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// PublishedAt and ModifiedAt let the structured-data export read the lifecycle times.
func (t *Timestamps) PublishedAt() time.Time { return t.CreatedAt }

func (t *Timestamps) ModifiedAt() time.Time { return t.UpdatedAt }
