package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/cinema-booking/internal/model"
)

func TestSeatPrice(t *testing.T) {
	base := decimal.RequireFromString("10.00")

	cases := []struct {
		seatType string
		want     string
	}{
		{model.SeatTypeStandard, "10"},
		{model.SeatTypeVIP, "15"},
		{model.SeatTypePremium, "13"},
		{model.SeatTypeCouple, "20"},
		{model.SeatTypeWheelchair, "10"},
		{"unknown", "10"},
	}
	for _, tc := range cases {
		got := SeatPrice(base, tc.seatType)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"seat type %s: got %s want %s", tc.seatType, got, tc.want)
	}
}

func TestSeatPriceRounding(t *testing.T) {
	// 9.99 * 1.3 = 12.987, rounds to 12.99.
	got := SeatPrice(decimal.RequireFromString("9.99"), model.SeatTypePremium)
	assert.Equal(t, "12.99", got.StringFixed(2))
}
