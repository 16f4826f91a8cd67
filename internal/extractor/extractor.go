package extractor

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"listing-radar/internal/listing"
	"listing-radar/internal/normalize"
)

var errNotText = errors.New("content is not valid UTF-8 text")

// ParseError is returned when markup cannot be parsed at all.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse markup: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Selectors locate listing blocks and the fields inside them. Empty field
// selectors leave the corresponding field unpopulated.
type Selectors struct {
	Container string
	Price     string
	Address   string
	Area      string
	Rooms     string
	District  string
	Link      string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Container: "div.listing-item",
		Price:     "span.price",
		Address:   "span.address",
	}
}

type Extractor struct {
	selectors Selectors
	logger    *logrus.Logger
}

func New(selectors Selectors, logger *logrus.Logger) *Extractor {
	if selectors.Container == "" {
		selectors.Container = DefaultSelectors().Container
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Extractor{selectors: selectors, logger: logger}
}

// Parse builds a document tree from already decoded markup.
func Parse(content string) (*goquery.Document, error) {
	if !utf8.ValidString(content) {
		return nil, &ParseError{Err: errNotText}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return doc, nil
}

// ExtractHTML parses content and extracts its listings.
func (e *Extractor) ExtractHTML(content, source string) ([]listing.Listing, error) {
	doc, err := Parse(content)
	if err != nil {
		return nil, err
	}
	return e.Extract(doc, source), nil
}

// Extract returns one record per listing block that has a price or an
// address, in document order. Records are not persisted (ID is 0).
func (e *Extractor) Extract(doc *goquery.Document, source string) []listing.Listing {
	listings := make([]listing.Listing, 0)

	doc.Find(e.selectors.Container).Each(func(i int, block *goquery.Selection) {
		priceText := e.text(block, e.selectors.Price)
		addressText := e.text(block, e.selectors.Address)

		if priceText == "" && addressText == "" {
			e.logger.Debugf("Skipping block %d: no price and no address", i)
			return
		}

		record := listing.New(listing.RawListing{
			Address:  addressText,
			Price:    priceText,
			Area:     e.text(block, e.selectors.Area),
			Rooms:    e.text(block, e.selectors.Rooms),
			District: e.text(block, e.selectors.District),
			URL:      e.link(block),
			Source:   source,
		})

		e.logger.Debugf("Found listing: %s - %s", addressText, priceText)
		listings = append(listings, record)
	})

	e.logger.WithField("source", source).Infof("Extracted %d listings", len(listings))
	return listings
}

func (e *Extractor) text(block *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return normalize.CleanText(block.Find(selector).First().Text())
}

func (e *Extractor) link(block *goquery.Selection) string {
	if e.selectors.Link == "" {
		return ""
	}
	return strings.TrimSpace(block.Find(e.selectors.Link).First().AttrOr("href", ""))
}
