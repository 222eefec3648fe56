// Package content defines the core content domain entities.
package content

import "time"

// Map is the flat key-value content store for one locale. Values are either
// plain strings (scalar roots like the site name) or JSON-serialized
// objects/arrays (structured roots like "hero" or "global").
type Map map[string]string

// Entry is a single stored content value.
type Entry struct {
	Key       string    `json:"key"`
	Lang      string    `json:"lang"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Asset is a file managed by the asset gateway. Key is the storage
// identifier content records carry in their `*_key` fields.
type Asset struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Folder    string    `json:"folder"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Course is an item in the course catalog managed from the admin panel.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image,omitempty"`
	ImageKey    string    `json:"image_key,omitempty"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"createdAt"`
	Changed     time.Time `json:"changed"`
}

// UpdateEvent is broadcast to admin clients when a content root changes.
type UpdateEvent struct {
	Key       string    `json:"key"`
	Lang      string    `json:"lang"`
	UpdatedAt time.Time `json:"updatedAt"`
}
