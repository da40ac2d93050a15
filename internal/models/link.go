package models

import (
	"time"
)

type Link struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Destination string    `json:"destination"`
	OwnerID     int64     `json:"owner_id"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateLinkInput struct {
	Destination string  `json:"destination" binding:"required"`
	CustomSlug  *string `json:"custom_slug,omitempty"`
}
