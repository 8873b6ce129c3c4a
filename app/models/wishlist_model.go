package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	WishlistActive      = "active"
	WishlistCompleted   = "completed"
	WishlistUnderfunded = "underfunded"
	WishlistSuggestion  = "suggestion"
)

type WishlistItem struct {
	ID                  uuid.UUID       `json:"wishlistItemId" db:"wishlist_item_id"`
	TeacherID           uuid.UUID       `json:"teacherId" db:"teacher_id"`
	ParentID            *uuid.UUID      `json:"parentId,omitempty" db:"parent_id"`
	Title               string          `json:"title" db:"title"`
	Description         string          `json:"description" db:"description"`
	Image               string          `json:"image,omitempty" db:"image"`
	GoalValue           decimal.Decimal `json:"goalValue" db:"goal_value"`
	CurrentValue        decimal.Decimal `json:"currentValue" db:"current_value"`
	Status              string          `json:"status" db:"status"`
	Deadline            *time.Time      `json:"deadline,omitempty" db:"deadline"`
	PlatformFulfillment bool            `json:"platformFulfillment" db:"platform_fulfillment"`
	FundsTransferred    bool            `json:"fundsTransferred" db:"funds_transferred"`
	IsMoneyWithdrawn    bool            `json:"isMoneyWithdrawn" db:"is_money_withdrawn"`
	IsItemBought        bool            `json:"isItemBought" db:"is_item_bought"`
	IsUnderfunded       bool            `json:"isUnderfunded" db:"is_underfunded"`
	CreatedAt           time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time       `json:"updatedAt" db:"updated_at"`
}

type CreateWishlistItemRequest struct {
	Title               string          `json:"title" validate:"required,lte=255"`
	Description         string          `json:"description" validate:"lte=5000"`
	GoalValue           decimal.Decimal `json:"goalValue"`
	Deadline            *time.Time      `json:"deadline"`
	PlatformFulfillment bool            `json:"platformFulfillment"`
}

type UpdateWishlistItemRequest struct {
	Title       *string          `json:"title" validate:"omitempty,gte=1,lte=255"`
	Description *string          `json:"description" validate:"omitempty,lte=5000"`
	GoalValue   *decimal.Decimal `json:"goalValue"`
	Deadline    *time.Time       `json:"deadline"`
}

type FulfillmentRequest struct {
	PlatformFulfillment *bool `json:"platformFulfillment"`
	FundsTransferred    *bool `json:"fundsTransferred"`
	IsMoneyWithdrawn    *bool `json:"isMoneyWithdrawn"`
	IsItemBought        *bool `json:"isItemBought"`
}

type CreateSuggestionRequest struct {
	TeacherID   uuid.UUID       `json:"teacherId" validate:"required"`
	Title       string          `json:"title" validate:"required,lte=255"`
	Description string          `json:"description" validate:"lte=5000"`
	GoalValue   decimal.Decimal `json:"goalValue"`
}

type AcceptSuggestionRequest struct {
	Deadline time.Time `json:"deadline" validate:"required"`
}

// Classroom is a teacher together with their active fundraising totals.
type Classroom struct {
	TeacherID   uuid.UUID       `json:"teacherId" db:"teacher_id"`
	Username    string          `json:"username" db:"username"`
	SchoolName  string          `json:"schoolName" db:"school_name"`
	Avatar      string          `json:"avatar,omitempty" db:"avatar"`
	ActiveItems int             `json:"activeItems" db:"active_items"`
	TotalRaised decimal.Decimal `json:"totalRaised" db:"total_raised"`
}
