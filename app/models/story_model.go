package models

import (
	"time"

	"github.com/google/uuid"
)

type Story struct {
	ID         uuid.UUID  `json:"storyId" db:"story_id"`
	AuthorID   uuid.UUID  `json:"authorId" db:"author_id"`
	WishlistID *uuid.UUID `json:"wishlistId,omitempty" db:"wishlist_id"`
	Title      string     `json:"title" db:"title"`
	Content    string     `json:"content" db:"content"`
	Image      string     `json:"image,omitempty" db:"image"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

type CreateStoryRequest struct {
	Title      string `json:"title" form:"title" validate:"required,lte=255"`
	Content    string `json:"content" form:"content" validate:"required,lte=20000"`
	WishlistID string `json:"wishlistId" form:"wishlistId" validate:"omitempty,uuid"`
}
