package utils

import (
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fraction digits stored for donation amounts and wishlist values
// (NUMERIC(19, 7)). A rate with at most RateScale digits applied to a total in cents never needs more.
const (
	MoneyScale = 7
	RateScale  = 5
)

var hundred = decimal.NewFromInt(100)

// NetDonationAmount converts a payment total in the smallest currency unit into the
// amount credited to a wishlist after the transaction fee: amountTotal * (1 - rate) / 100.
// The result is exact; it is not rounded to cents.
func NetDonationAmount(amountTotal int64, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(amountTotal).Mul(decimal.NewFromInt(1).Sub(rate)).Div(hundred)
}

// ToMinorUnits converts a decimal amount into cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
