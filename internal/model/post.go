package model

import "time"

// Post records a single entry on a user's profile.  Image holds the
// object-storage URL of an attached picture, empty for text-only posts.
type Post struct {
	ID          uint64    // posts.id
	UserID      uint64    // posts.user_id
	Description string    // posts.description
	Image       string    // posts.image
	CreatedAt   time.Time // posts.created_at
	UpdatedAt   time.Time // posts.updated_at
}
