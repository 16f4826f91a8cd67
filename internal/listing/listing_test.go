package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNormalizesFields(t *testing.T) {
	l := New(RawListing{
		Address: "  ул. Тверская, д. 15 ",
		Price:   "500 000 ₸",
		Area:    "54,5",
		Rooms:   "2",
		Source:  " page.html ",
	})

	assert.Equal(t, "ул. Тверская, д. 15", l.Address)
	assert.Equal(t, 500000.0, l.Price)
	assert.Equal(t, 54.5, l.Area)
	assert.Equal(t, 2, l.Rooms)
	assert.Equal(t, "page.html", l.Source)
	assert.Nil(t, l.Coordinates)
	assert.False(t, l.Located())
	assert.False(t, l.Persisted())
}

func TestNewKeepsCoordinates(t *testing.T) {
	l := New(RawListing{Coordinates: &Coordinates{Lat: 55.75, Lon: 37.61}})

	if assert.NotNil(t, l.Coordinates) {
		assert.Equal(t, 55.75, l.Coordinates.Lat)
		assert.Equal(t, 37.61, l.Coordinates.Lon)
	}
	assert.True(t, l.Located())
}

func TestValid(t *testing.T) {
	tests := []struct {
		name    string
		listing Listing
		want    bool
	}{
		{"price and address", Listing{Price: 1, Address: "a"}, true},
		{"missing price", Listing{Address: "a"}, false},
		{"missing address", Listing{Price: 100}, false},
		{"empty", Listing{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.listing.Valid())
		})
	}
}
