// Package normalize converts scraped text into typed listing values.
//
// Every function here is total: input that cannot be understood degrades to
// the documented sentinel (0, 0.0 or the zero Point) instead of an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var nonNumeric = regexp.MustCompile(`[^\d.,]`)

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CleanText collapses whitespace runs to single spaces and trims the ends.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Price parses "1 234,56 руб" style text into 1234.56. Returns 0 for empty or
// unparseable input.
func Price(raw string) float64 {
	return decimal(raw)
}

// Area uses the same rules as Price.
func Area(raw string) float64 {
	return decimal(raw)
}

// RoomCount parses an integer room count. Empty, unparseable and negative
// values give 0.
func RoomCount(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Coordinates returns the supplied point, or the zero point when raw is nil.
// The zero point is indistinguishable from a real coordinate at (0, 0); callers
// that need to know whether a location exists must keep the pointer.
func Coordinates(raw *Point) Point {
	if raw == nil {
		return Point{}
	}
	return *raw
}

func decimal(raw string) float64 {
	if raw == "" {
		return 0
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	cleaned = nonNumeric.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
