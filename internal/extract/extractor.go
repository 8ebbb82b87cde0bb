// Package extract reads stock status and price from storefront product pages.
package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pricefeed/internal/price"
	"github.com/law-makers/pricefeed/pkg/models"
	"github.com/rs/zerolog/log"
)

// Extractor evaluates the availability markers and the price cascade
type Extractor struct {
	rules []Rule
}

// New creates an Extractor with the storefront cascade
func New() *Extractor {
	return NewWithRules(DefaultRules())
}

// NewWithRules creates an Extractor evaluating rules in the given order
func NewWithRules(rules []Rule) *Extractor {
	return &Extractor{rules: rules}
}

// Rules returns the names of the cascade rules in evaluation order
func (e *Extractor) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// Extract determines stock status, removal flag, and price for a page.
// Missing elements never fail extraction; fields fall back to the values set
// by earlier rules, and the price defaults to "0".
func (e *Extractor) Extract(doc *goquery.Document, url string) Fields {
	page := NewPage(doc, url)

	fields := Fields{Price: price.Zero}
	fields.Stock, fields.Removal = availability(page)

	for _, rule := range e.rules {
		next, match, err := rule.Apply(page, fields)
		switch match {
		case Matched:
			fields = next
		case Failed:
			log.Debug().
				Str("url", url).
				Str("rule", rule.Name).
				Err(err).
				Msg("Cascade rule failed, keeping previous values")
		}

		log.Trace().
			Str("rule", rule.Name).
			Str("match", match.String()).
			Str("price", fields.Price).
			Msg("Cascade rule evaluated")
	}

	log.Debug().
		Str("url", url).
		Str("stock", string(fields.Stock)).
		Str("price", fields.Price).
		Str("price_rule", fields.PriceRule).
		Bool("remove", fields.Removal).
		Msg("Extraction completed")

	return fields
}

// availability reads the out-of-stock markers. The removal flag is only set
// by the phrases that announce the product is gone for good.
func availability(p *Page) (models.StockStatus, bool) {
	removed := p.Contains(phraseUnavailable) || p.Contains(phraseUnavailableLower)

	if removed || p.Has(selUnavailableIcon) || p.Contains(phraseNotifyMe) {
		return models.StockOut, removed
	}
	return models.StockIn, removed
}
