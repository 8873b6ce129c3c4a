package models

import "github.com/shopspring/decimal"

type GeneralMetrics struct {
	TotalDonated     decimal.Decimal `json:"totalDonated" db:"total_donated"`
	DonationCount    int             `json:"donationCount" db:"donation_count"`
	DistinctDonors   int             `json:"distinctDonors" db:"distinct_donors"`
	ActiveItems      int             `json:"activeItems" db:"active_items"`
	CompletedItems   int             `json:"completedItems" db:"completed_items"`
	UnderfundedItems int             `json:"underfundedItems" db:"underfunded_items"`
}

type TeacherMetrics struct {
	TotalRaised      decimal.Decimal `json:"totalRaised" db:"total_raised"`
	ActiveItems      int             `json:"activeItems" db:"active_items"`
	CompletedItems   int             `json:"completedItems" db:"completed_items"`
	UnderfundedItems int             `json:"underfundedItems" db:"underfunded_items"`
	Suggestions      int             `json:"suggestions" db:"suggestions"`
	Donors           int             `json:"donors" db:"donors"`
}

type ParentMetrics struct {
	TotalDonated    decimal.Decimal `json:"totalDonated" db:"total_donated"`
	DonationCount   int             `json:"donationCount" db:"donation_count"`
	ItemsSupported  int             `json:"itemsSupported" db:"items_supported"`
	SuggestionsMade int             `json:"suggestionsMade" db:"suggestions_made"`
}

type SendEmailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required,lte=255"`
	Body    string `json:"body" validate:"required,lte=20000"`
}
