package filter

import (
	"fmt"
	"sort"
	"strings"

	"listing-radar/internal/listing"
)

type ChartKind string

const (
	ChartBar   ChartKind = "bar"
	ChartPie   ChartKind = "pie"
	ChartLine  ChartKind = "line"
	ChartTable ChartKind = "table"
)

const (
	DefaultPriceMin = 0
	DefaultPriceMax = 1_000_000
)

func ParseChartKind(s string) (ChartKind, error) {
	switch kind := ChartKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case ChartBar, ChartPie, ChartLine, ChartTable:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown chart kind %q", s)
	}
}

// Spec is the set of constraints a user has chosen. Nil Rooms or District
// means the constraint is not applied.
type Spec struct {
	PriceMin float64   `json:"price_min"`
	PriceMax float64   `json:"price_max"`
	Rooms    *int      `json:"rooms,omitempty"`
	District *string   `json:"district,omitempty"`
	Chart    ChartKind `json:"chart"`
}

func Default() Spec {
	return Spec{
		PriceMin: DefaultPriceMin,
		PriceMax: DefaultPriceMax,
		Chart:    ChartBar,
	}
}

// Patch is a partial update. Nil fields leave the current value unchanged;
// ClearRooms and ClearDistrict drop the constraint.
type Patch struct {
	PriceRange    *[2]float64
	Rooms         *int
	District      *string
	Chart         *ChartKind
	ClearRooms    bool
	ClearDistrict bool
}

// Merge returns a copy of s with p applied.
func (s Spec) Merge(p Patch) Spec {
	out := s
	if p.PriceRange != nil {
		out.PriceMin, out.PriceMax = p.PriceRange[0], p.PriceRange[1]
	}
	if p.Rooms != nil {
		rooms := *p.Rooms
		out.Rooms = &rooms
	}
	if p.ClearRooms {
		out.Rooms = nil
	}
	if p.District != nil {
		district := *p.District
		out.District = &district
	}
	if p.ClearDistrict {
		out.District = nil
	}
	if p.Chart != nil {
		out.Chart = *p.Chart
	}
	return out
}

// Key identifies the spec for caching.
func (s Spec) Key() string {
	rooms, district := "*", "*"
	if s.Rooms != nil {
		rooms = fmt.Sprint(*s.Rooms)
	}
	if s.District != nil {
		district = *s.District
	}
	return fmt.Sprintf("%g:%g:%s:%s:%s", s.PriceMin, s.PriceMax, rooms, district, s.Chart)
}

func (s Spec) Matches(l listing.Listing) bool {
	if l.Price < s.PriceMin || l.Price > s.PriceMax {
		return false
	}
	if s.Rooms != nil && l.Rooms != *s.Rooms {
		return false
	}
	if s.District != nil && l.District != *s.District {
		return false
	}
	return true
}

// Compute returns the records matching spec, most expensive first. Records
// with equal prices keep their input order. all is not modified.
func Compute(spec Spec, all []listing.Listing) []listing.Listing {
	filtered := make([]listing.Listing, 0, len(all))
	for _, l := range all {
		if spec.Matches(l) {
			filtered = append(filtered, l)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Price > filtered[j].Price
	})
	return filtered
}
