package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Donation struct {
	ID             uuid.UUID       `json:"donateId" db:"donate_id"`
	UserID         *uuid.UUID      `json:"userId" db:"user_id"`
	WishlistID     uuid.UUID       `json:"wishlistId" db:"wishlist_id"`
	DonationAmount decimal.Decimal `json:"donationAmount" db:"donation_amount"`
	DonationTime   time.Time       `json:"donationTime" db:"donation_time"`
	StripeEventID  *string         `json:"-" db:"stripe_event_id"`
}

type CreateDonationRequest struct {
	WishlistID     uuid.UUID       `json:"wishlistId" validate:"required"`
	DonationAmount decimal.Decimal `json:"donationAmount"`
	Anonymous      bool            `json:"anonymous"`
}

type CheckoutRequest struct {
	WishlistID uuid.UUID       `json:"wishlistId" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	UserID     *uuid.UUID      `json:"userId"`
}

type CheckoutResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type TransactionFee struct {
	ID              uuid.UUID       `json:"transactionFeeId" db:"transaction_fee_id"`
	AccountType     string          `json:"accountType" db:"account_type"`
	TransactionRate decimal.Decimal `json:"transactionRate" db:"transaction_rate"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

type FeeHistory struct {
	ID          uuid.UUID           `json:"feeHistoryId" db:"fee_history_id"`
	AccountType string              `json:"accountType" db:"account_type"`
	OldRate     decimal.NullDecimal `json:"oldRate" db:"old_rate"`
	NewRate     decimal.Decimal     `json:"newRate" db:"new_rate"`
	ChangedBy   *uuid.UUID          `json:"changedBy" db:"changed_by"`
	ChangedAt   time.Time           `json:"changedAt" db:"changed_at"`
}

type UpdateFeeRequest struct {
	AccountType string          `json:"accountType" validate:"required,oneof=teacher parent school business"`
	NewRate     decimal.Decimal `json:"newRate"`
}
