package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page is a fetched product page prepared for the rule cascade
type Page struct {
	Doc *goquery.Document
	URL string

	text     string
	hasTable bool
}

// NewPage wraps a parsed document; url is the target URL the page was fetched from
func NewPage(doc *goquery.Document, url string) *Page {
	p := &Page{Doc: doc, URL: url}
	p.text = doc.Text()
	p.hasTable = p.Has(selPriceTable)
	return p
}

// Text returns the full text content of the page
func (p *Page) Text() string {
	return p.text
}

// Contains reports whether phrase appears in the page text
func (p *Page) Contains(phrase string) bool {
	return strings.Contains(p.text, phrase)
}

// Has reports whether any element matches m
func (p *Page) Has(m goquery.Matcher) bool {
	return p.Doc.FindMatcher(m).Length() > 0
}

// FirstText returns the trimmed text of the first element matching m
func (p *Page) FirstText(m goquery.Matcher) (string, bool) {
	sel := p.Doc.FindMatcher(m).First()
	if sel.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(sel.Text()), true
}

// HasPriceTable reports whether the bordered quantity-pricing table is present
func (p *Page) HasPriceTable() bool {
	return p.hasTable
}
