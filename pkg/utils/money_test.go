package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNetDonationAmount(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		rate  string
		want  string
	}{
		{name: "no_fee", total: 2500, rate: "0", want: "25"},
		{name: "parent_rate", total: 10000, rate: "0.05", want: "95"},
		{name: "fractional", total: 1000, rate: "0.035", want: "9.65"},
		{name: "full_fee", total: 1000, rate: "1", want: "0"},
		{name: "sub_cent", total: 1001, rate: "0.035", want: "9.65965"},
		{name: "max_rate_scale", total: 999, rate: "0.12345", want: "8.7567345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetDonationAmount(tt.total, decimal.RequireFromString(tt.rate))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
			assert.True(t, got.Equal(got.Truncate(MoneyScale)), "%s does not fit the stored scale", got)
		})
	}
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), ToMinorUnits(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(500), ToMinorUnits(decimal.NewFromInt(5)))
	assert.Equal(t, int64(13), ToMinorUnits(decimal.RequireFromString("0.125")))
}
