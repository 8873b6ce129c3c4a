package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AdvertisementOpen   = "open"
	AdvertisementClosed = "closed"
)

type Advertisement struct {
	ID                  uuid.UUID       `json:"advertisementId" db:"advertisement_id"`
	SchoolID            uuid.UUID       `json:"schoolId" db:"school_id"`
	HighestBidderID     *uuid.UUID      `json:"highestBidderId" db:"highest_bidder_id"`
	HighestBiddingPrice decimal.Decimal `json:"highestBiddingPrice" db:"highest_bidding_price"`
	StartingPrice       decimal.Decimal `json:"startingPrice" db:"starting_price"`
	Status              string          `json:"status" db:"status"`
	Image               string          `json:"image,omitempty" db:"image"`
	Details             string          `json:"details" db:"details"`
	Title               string          `json:"title" db:"title"`
	CreationDate        time.Time       `json:"creationDate" db:"creation_date"`
	NotiSent            bool            `json:"notiSent" db:"noti_sent"`
}

type Bid struct {
	ID              uuid.UUID       `json:"advertisementBidderId" db:"advertisement_bidder_id"`
	AdvertisementID uuid.UUID       `json:"advertisementId" db:"advertisement_id"`
	BusinessID      uuid.UUID       `json:"businessId" db:"business_id"`
	Price           decimal.Decimal `json:"price" db:"price"`
	BidingDate      time.Time       `json:"bidingDate" db:"biding_date"`
}

type AdvertisementWithBids struct {
	Advertisement
	Bids []Bid `json:"bids"`
}

type CreateAdvertisementRequest struct {
	Title         string          `json:"title" form:"title" validate:"required,lte=255"`
	Details       string          `json:"details" form:"details" validate:"lte=5000"`
	StartingPrice decimal.Decimal `json:"startingPrice" form:"startingPrice"`
}

type PlaceBidRequest struct {
	AdvertisementID uuid.UUID       `json:"advertisementId" validate:"required"`
	Price           decimal.Decimal `json:"price"`
}

type SelectWinnerRequest struct {
	HighestBidderID     uuid.UUID       `json:"highestBidderId" validate:"required"`
	HighestBiddingPrice decimal.Decimal `json:"highestBiddingPrice"`
}

// AuctionResult is one closed advertisement returned by the unsuccessful-bidder sweep.
type AuctionResult struct {
	AdvertisementID       uuid.UUID   `json:"advertisementId"`
	WinnerID              *uuid.UUID  `json:"winnerId"`
	UnsuccessfulBidderIDs []uuid.UUID `json:"unsuccessfulBidderIds"`
}
