package aggregate

import (
	"math"
	"sort"

	"github.com/paulmach/orb"

	"listing-radar/internal/listing"
)

type PriceStatus string

const (
	NoData      PriceStatus = "no_data"
	NoValidData PriceStatus = "no_valid_data"
	OK          PriceStatus = "ok"
)

type DistrictCount struct {
	District string `json:"district"`
	Count    int    `json:"count"`
}

type RoomShare struct {
	Rooms   int     `json:"rooms"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Label is the share rounded to one decimal.
func (r RoomShare) Label() float64 {
	return math.Round(r.Percent*10) / 10
}

type PriceSeries struct {
	Prices []float64   `json:"prices"`
	Max    float64     `json:"max"`
	Status PriceStatus `json:"status"`
}

// Relative gives each price as a percentage of Max. It is nil unless the
// series is OK.
func (p PriceSeries) Relative() []float64 {
	if p.Status != OK {
		return nil
	}
	out := make([]float64, len(p.Prices))
	for i, price := range p.Prices {
		out[i] = price / p.Max * 100
	}
	return out
}

type Row struct {
	ID       uint    `json:"id"`
	Price    float64 `json:"price"`
	Rooms    int     `json:"rooms"`
	District string  `json:"district"`
	Address  string  `json:"address"`
}

type Marker struct {
	Row
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Located bool    `json:"located"`
}

type MapView struct {
	Markers []Marker  `json:"markers"`
	Bounds  orb.Bound `json:"bounds"`
	Located int       `json:"located"`
}

type Views struct {
	Districts []DistrictCount `json:"districts"`
	Rooms     []RoomShare     `json:"rooms"`
	Prices    PriceSeries     `json:"prices"`
	Rows      []Row           `json:"rows"`
	Map       MapView         `json:"map"`
}

// ByDistrict counts records per district in first-seen order.
func ByDistrict(records []listing.Listing) []DistrictCount {
	out := []DistrictCount{}
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.District]
		if !ok {
			i = len(out)
			index[r.District] = i
			out = append(out, DistrictCount{District: r.District})
		}
		out[i].Count++
	}
	return out
}

// ByRooms counts records per room count in first-seen order.
func ByRooms(records []listing.Listing) []RoomShare {
	out := []RoomShare{}
	index := make(map[int]int)
	for _, r := range records {
		i, ok := index[r.Rooms]
		if !ok {
			i = len(out)
			index[r.Rooms] = i
			out = append(out, RoomShare{Rooms: r.Rooms})
		}
		out[i].Count++
	}

	total := float64(len(records))
	for i := range out {
		out[i].Percent = float64(out[i].Count) / total * 100
	}
	return out
}

func Prices(records []listing.Listing) PriceSeries {
	if len(records) == 0 {
		return PriceSeries{Prices: []float64{}, Status: NoData}
	}

	prices := make([]float64, len(records))
	for i, r := range records {
		prices[i] = r.Price
	}
	sort.Float64s(prices)

	series := PriceSeries{Prices: prices, Max: prices[len(prices)-1], Status: OK}
	if series.Max <= 0 {
		series.Status = NoValidData
	}
	return series
}

func Rows(records []listing.Listing) []Row {
	out := make([]Row, len(records))
	for i, r := range records {
		out[i] = rowOf(r)
	}
	return out
}

// Markers places one marker per record. Records without coordinates are kept
// with Located unset so they can still be listed.
func Markers(records []listing.Listing) MapView {
	view := MapView{Markers: make([]Marker, len(records))}
	var located orb.MultiPoint
	for i, r := range records {
		m := Marker{Row: rowOf(r)}
		if r.Located() {
			m.Lat, m.Lon, m.Located = r.Coordinates.Lat, r.Coordinates.Lon, true
			located = append(located, orb.Point{m.Lon, m.Lat})
		}
		view.Markers[i] = m
	}

	view.Located = len(located)
	if len(located) > 0 {
		view.Bounds = located.Bound()
	}
	return view
}

func Compute(records []listing.Listing) Views {
	return Views{
		Districts: ByDistrict(records),
		Rooms:     ByRooms(records),
		Prices:    Prices(records),
		Rows:      Rows(records),
		Map:       Markers(records),
	}
}

func rowOf(r listing.Listing) Row {
	return Row{
		ID:       r.ID,
		Price:    r.Price,
		Rooms:    r.Rooms,
		District: r.District,
		Address:  r.Address,
	}
}
