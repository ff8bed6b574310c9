package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatRowLabel(t *testing.T) {
	cases := map[uint32]string{
		1:  "A",
		2:  "B",
		26: "Z",
		27: "AA",
		28: "AB",
		52: "AZ",
		53: "BA",
	}
	for row, want := range cases {
		assert.Equal(t, want, seatRowLabel(row), "row %d", row)
	}
}
