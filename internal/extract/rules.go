package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pricefeed/internal/price"
	"github.com/law-makers/pricefeed/pkg/models"
)

// Match is the outcome of evaluating one cascade rule
type Match int

const (
	// Matched means the rule fired and its fields replace the current ones
	Matched Match = iota
	// NotMatched means the trigger was absent and the current fields are kept
	NotMatched
	// Failed means the trigger was present but the rule could not produce a
	// value; the current fields are kept and the error is logged
	Failed
)

func (m Match) String() string {
	switch m {
	case Matched:
		return "matched"
	case NotMatched:
		return "not_matched"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fields are the values a page yields
type Fields struct {
	Stock   models.StockStatus
	Price   string
	Removal bool

	// PriceRule names the last rule that set Price
	PriceRule string
}

// Rule is one step of the ordered cascade. Apply receives the current fields
// and returns the replacement; the replacement is only kept when it reports
// Matched.
type Rule struct {
	Name  string
	Apply ApplyFunc
}

// ApplyFunc evaluates a rule against the page and the current fields
type ApplyFunc func(p *Page, cur Fields) (Fields, Match, error)

var (
	errNoTableRows  = errors.New("price table has no rows")
	errNoPriceValue = errors.New("price element has no numeric value")
	errMissingPrice = errors.New("price element missing")

	digits = regexp.MustCompile(`\d+`)
)

// DefaultRules returns the cascade in template-revision order. Later rules
// override earlier ones, so the order must not change.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "table_price", Apply: tablePrice},
		{Name: "simple_price", Apply: when(noTable, readPrice(selSimplePrice, "simple_price"))},
		{Name: "works_with", Apply: when(and(phrase(phraseWorksWith), noTable), readPrice(selGenericPrice, "works_with"))},
		{Name: "sale_price", Apply: when(and(present(selSaleMarker), noTable), readPrice(selSalePrice, "sale_price"))},
		{Name: "was_price", Apply: when(present(selWasPrice), readPrice(selWasPrice, "was_price"))},
		{Name: "plus_member_a", Apply: when(present(selPlusMemberA), readPrice(selPlusMemberA, "plus_member_a"))},
		{Name: "legacy_table", Apply: when(present(selLegacyTable), requirePrice(selGenericPrice, "legacy_table"))},
		{Name: "plus_member_b", Apply: when(present(selPlusMemberB), readPrice(selPlusMemberB, "plus_member_b"))},
		{Name: "minimum_buy", Apply: minimumBuy},
		{Name: "search_page", Apply: searchPage},
	}
}

type predicate func(p *Page) bool

func noTable(p *Page) bool { return !p.HasPriceTable() }

func present(m goquery.Matcher) predicate {
	return func(p *Page) bool { return p.Has(m) }
}

func phrase(s string) predicate {
	return func(p *Page) bool { return p.Contains(s) }
}

func and(preds ...predicate) predicate {
	return func(p *Page) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

// when gates apply behind a trigger condition
func when(trigger predicate, apply ApplyFunc) ApplyFunc {
	return func(p *Page, cur Fields) (Fields, Match, error) {
		if !trigger(p) {
			return cur, NotMatched, nil
		}
		return apply(p, cur)
	}
}

// readPrice re-reads the price from m; a missing element keeps the current price
func readPrice(m goquery.Matcher, rule string) ApplyFunc {
	return func(p *Page, cur Fields) (Fields, Match, error) {
		text, ok := p.FirstText(m)
		if !ok {
			return cur, NotMatched, nil
		}
		return setPrice(cur, text, rule)
	}
}

// requirePrice is readPrice for layouts where the price element must exist
func requirePrice(m goquery.Matcher, rule string) ApplyFunc {
	return func(p *Page, cur Fields) (Fields, Match, error) {
		text, ok := p.FirstText(m)
		if !ok {
			return cur, Failed, errMissingPrice
		}
		return setPrice(cur, text, rule)
	}
}

func setPrice(cur Fields, raw, rule string) (Fields, Match, error) {
	normalized := price.Normalize(raw)
	if normalized == "" {
		return cur, Failed, fmt.Errorf("%w: %q", errNoPriceValue, raw)
	}
	cur.Price = normalized
	cur.PriceRule = rule
	return cur, Matched, nil
}

// tablePrice reads the last cell of the last row of the quantity-pricing table
func tablePrice(p *Page, cur Fields) (Fields, Match, error) {
	if !p.HasPriceTable() {
		return cur, NotMatched, nil
	}

	rows := p.Doc.FindMatcher(selPriceTable).First().FindMatcher(selTableRows)
	if rows.Length() == 0 {
		return cur, Failed, errNoTableRows
	}

	last := rows.Last()
	cell := last.Find("td").Last()
	if cell.Length() == 0 {
		cell = last.Children().Last()
	}
	text := strings.TrimSpace(cell.Text())
	if text == "" {
		return cur, Failed, errNoTableRows
	}

	return setPrice(cur, text, "table_price")
}

// minimumBuy multiplies the unit price by the minimum purchase quantity
func minimumBuy(p *Page, cur Fields) (Fields, Match, error) {
	text, ok := p.FirstText(selMinimumBuy)
	if !ok {
		return cur, NotMatched, nil
	}

	qty := MinimumQuantity(text)
	if qty <= 0 {
		return cur, NotMatched, nil
	}

	total, err := price.Multiply(cur.Price, qty)
	if err != nil {
		return cur, Failed, fmt.Errorf("minimum buy of %d: %w", qty, err)
	}
	cur.Price = total
	return cur, Matched, nil
}

// MinimumQuantity returns the first integer embedded in marker text, or 0
func MinimumQuantity(text string) int {
	m := digits.FindString(text)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// searchPage forces Out for search and listing pages
func searchPage(p *Page, cur Fields) (Fields, Match, error) {
	if !strings.Contains(p.URL, searchPathMarker) {
		return cur, NotMatched, nil
	}
	cur.Stock = models.StockOut
	return cur, Matched, nil
}
