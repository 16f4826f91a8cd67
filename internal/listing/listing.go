package listing

import (
	"fmt"
	"strings"
	"time"

	"listing-radar/internal/normalize"
)

type Coordinates = normalize.Point

// RawListing holds the text of one listing block exactly as it was scraped.
type RawListing struct {
	Address            string
	Price              string
	Area               string
	Rooms              string
	Coordinates        *Coordinates
	District           string
	ObjectType         string
	HouseMaterialType  string
	YearOfConstruction string
	Floor              string
	FloorsCount        string
	Underground        string
	URL                string
	Source             string
}

// Listing is one normalized real-estate record. Empty strings and zero numbers
// mean the value was missing or could not be parsed. ID and CreatedAt are
// assigned by the store; ID 0 means the record was never persisted.
type Listing struct {
	ID                 uint         `json:"id"`
	Address            string       `json:"address"`
	Price              float64      `json:"price"`
	Area               float64      `json:"area"`
	Rooms              int          `json:"rooms"`
	Coordinates        *Coordinates `json:"coordinates,omitempty"`
	District           string       `json:"district"`
	ObjectType         string       `json:"object_type"`
	HouseMaterialType  string       `json:"house_material_type"`
	YearOfConstruction string       `json:"year_of_construction"`
	Floor              string       `json:"floor"`
	FloorsCount        string       `json:"floors_count"`
	Underground        string       `json:"underground"`
	URL                string       `json:"url"`
	Source             string       `json:"source"`
	CreatedAt          time.Time    `json:"created_at"`
}

// New normalizes every field of raw once.
func New(raw RawListing) Listing {
	l := Listing{
		Address:            strings.TrimSpace(raw.Address),
		Price:              normalize.Price(raw.Price),
		Area:               normalize.Area(raw.Area),
		Rooms:              normalize.RoomCount(raw.Rooms),
		District:           strings.TrimSpace(raw.District),
		ObjectType:         strings.TrimSpace(raw.ObjectType),
		HouseMaterialType:  strings.TrimSpace(raw.HouseMaterialType),
		YearOfConstruction: strings.TrimSpace(raw.YearOfConstruction),
		Floor:              strings.TrimSpace(raw.Floor),
		FloorsCount:        strings.TrimSpace(raw.FloorsCount),
		Underground:        strings.TrimSpace(raw.Underground),
		URL:                strings.TrimSpace(raw.URL),
		Source:             strings.TrimSpace(raw.Source),
	}
	if raw.Coordinates != nil {
		p := normalize.Coordinates(raw.Coordinates)
		l.Coordinates = &p
	}
	return l
}

// Valid reports whether the record carries both a price and an address.
// The extractor keeps records on a weaker signal, so stored rows are not
// guaranteed to be valid.
func (l Listing) Valid() bool {
	return l.Price > 0 && l.Address != ""
}

func (l Listing) Persisted() bool {
	return l.ID != 0
}

// Located reports whether the record has real coordinates.
func (l Listing) Located() bool {
	return l.Coordinates != nil
}

func (l Listing) String() string {
	return fmt.Sprintf("<Listing id=%d address=%q price=%.2f>", l.ID, l.Address, l.Price)
}
