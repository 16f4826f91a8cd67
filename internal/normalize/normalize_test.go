package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1 234,56 руб", 1234.56},
		{"500 000 ₸", 500000},
		{"12 500 грн.", 12500},
		{"  750000  ", 750000},
		{"3.5", 3.5},
		{"abc", 0},
		{"", 0},
		{"1.234.567", 0},
		{"-200", 200},
		{"цена договорная", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Price(tt.raw), "Price(%q)", tt.raw)
	}
}

func TestPriceNeverNegative(t *testing.T) {
	inputs := []string{"", "-", "-1", "--5,5", "руб", "∞", "NaN", "1e10", ".,.,", "0,0", "\t\n"}
	for _, in := range inputs {
		assert.GreaterOrEqual(t, Price(in), 0.0, "Price(%q)", in)
	}
}

func TestArea(t *testing.T) {
	assert.Equal(t, 54.3, Area("54,3 м²"))
	assert.Equal(t, 120.0, Area("120 м"))
	// Digits in the unit are folded into the number.
	assert.Equal(t, 1202.0, Area("120 m2"))
	assert.Equal(t, 0.0, Area(""))
	assert.Equal(t, 0.0, Area("n/a"))
}

func TestRoomCount(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{" 2 ", 2},
		{"", 0},
		{"0", 0},
		{"студия", 0},
		{"2 комн.", 0},
		{"-1", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoomCount(tt.raw), "RoomCount(%q)", tt.raw)
	}
}

func TestCoordinates(t *testing.T) {
	assert.Equal(t, Point{}, Coordinates(nil))

	p := &Point{Lat: 55.7558, Lon: 37.6173}
	assert.Equal(t, *p, Coordinates(p))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "ул. Ленина, 5", CleanText("  ул.   Ленина,\n\t5 "))
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText(" \n "))
}
