package models

import (
	"time"

	"github.com/google/uuid"
)

type FavouriteItem struct {
	WishlistItem
	FavouritedAt time.Time `json:"favouritedAt" db:"favourited_at"`
}

type FavouriteClassroom struct {
	TeacherID    uuid.UUID `json:"teacherId" db:"teacher_id"`
	Username     string    `json:"username" db:"username"`
	SchoolName   string    `json:"schoolName" db:"school_name"`
	Avatar       string    `json:"avatar,omitempty" db:"avatar"`
	FavouritedAt time.Time `json:"favouritedAt" db:"favourited_at"`
}

type VoteSummary struct {
	WishlistItemID uuid.UUID `json:"wishlistItemId"`
	Votes          int       `json:"votes"`
	Voted          bool      `json:"voted"`
}
