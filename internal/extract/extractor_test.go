package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pricefeed/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productURL = "https://shop.example.com/regency-wire-cage/460GSC2460KM.html"

func parse(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + body + "</body></html>"))
	require.NoError(t, err)
	return doc
}

func extract(t *testing.T, body, url string) Fields {
	t.Helper()
	return New().Extract(parse(t, body), url)
}

const simplePrice = `<div id="priceBox"><div class="pricing"><div><p><span class="price">$1,299.99</span></p></div></div></div>`

func TestExtract_SimplePrice(t *testing.T) {
	f := extract(t, simplePrice, productURL)

	assert.Equal(t, models.StockIn, f.Stock)
	assert.Equal(t, "1299.99", f.Price)
	assert.Equal(t, "simple_price", f.PriceRule)
	assert.False(t, f.Removal)
}

func TestExtract_NothingMatched(t *testing.T) {
	f := extract(t, `<h1>Widget</h1>`, productURL)

	assert.Equal(t, models.StockIn, f.Stock)
	assert.Equal(t, "0", f.Price)
	assert.Empty(t, f.PriceRule)
}

func TestExtract_TableLastRowWins(t *testing.T) {
	body := `<table class="table table-bordered"><tbody>
		<tr><th>Qty 1-9</th><td>$10.00</td></tr>
		<tr><th>Qty 10+</th><td>$9.50</td></tr>
	</tbody></table>` + simplePrice

	f := extract(t, body, productURL)

	assert.Equal(t, "9.50", f.Price)
	assert.Equal(t, "table_price", f.PriceRule)
}

func TestExtract_TableWithoutRowsKeepsDefault(t *testing.T) {
	body := `<table class="table table-bordered"><tbody></tbody></table>` + simplePrice

	f := extract(t, body, productURL)

	// The table suppresses the simple price rule, so nothing sets a price
	assert.Equal(t, "0", f.Price)
}

func TestExtract_UnavailablePhrase(t *testing.T) {
	for _, phrase := range []string{"This Product is no longer available", "This product is no longer available"} {
		f := extract(t, `<p>`+phrase+`</p>`+simplePrice, productURL)

		assert.Equal(t, models.StockOut, f.Stock, phrase)
		assert.True(t, f.Removal, phrase)
	}
}

func TestExtract_NotifyMeIsOutButNotRemoved(t *testing.T) {
	f := extract(t, `<button>Notify me when this product is back in stock</button>`+simplePrice, productURL)

	assert.Equal(t, models.StockOut, f.Stock)
	assert.False(t, f.Removal)
	assert.Equal(t, "1299.99", f.Price)
}

func TestExtract_UnavailableIcon(t *testing.T) {
	f := extract(t, `<svg class="block mx-auto align-middle"></svg>`+simplePrice, productURL)

	assert.Equal(t, models.StockOut, f.Stock)
	assert.False(t, f.Removal)
}

func TestExtract_SearchPageForcedOut(t *testing.T) {
	f := extract(t, simplePrice, "https://shop.example.com/search/wire-cage.html")

	assert.Equal(t, models.StockOut, f.Stock)
	assert.Equal(t, "1299.99", f.Price)
}

func TestExtract_MinimumBuyMultiplies(t *testing.T) {
	body := `<div id="priceBox"><div class="pricing"><div><p><span class="price">$19.99</span></p></div></div></div>
		<p class="min-must-text">Must be purchased in quantities of 3</p>`

	f := extract(t, body, productURL)

	assert.Equal(t, "59.97", f.Price)
}

func TestExtract_WorksWithOverride(t *testing.T) {
	body := `<div id="priceBox"><div class="pricing">
		<div><p><span class="price">$5.00</span></p></div>
		<p><span>$42.10</span></p>
	</div></div><h3>Works With</h3>`

	f := extract(t, body, productURL)

	assert.Equal(t, "42.10", f.Price)
	assert.Equal(t, "works_with", f.PriceRule)
}

func TestExtract_WorksWithIgnoredWhenTablePresent(t *testing.T) {
	body := `<table class="table table-bordered"><tbody><tr><th>Qty 1+</th><td>$7.25</td></tr></tbody></table>
		<div id="priceBox"><div class="pricing"><p><span>$42.10</span></p></div></div><h3>Works With</h3>`

	f := extract(t, body, productURL)

	assert.Equal(t, "7.25", f.Price)
}

func TestExtract_SalePrice(t *testing.T) {
	body := `<div id="priceBox"><div class="pricing">
		<div><p><span class="price">$30.00</span></p></div>
		<p class="sale-price"><span class="text-black font-bold bg-yellow-400 rounded-sm antialiased mr-1 mt-0.5 px-3/4 py-0.5 text-sm">Sale</span><span>$24.99</span></p>
	</div></div>`

	f := extract(t, body, productURL)

	assert.Equal(t, "24.99", f.Price)
	assert.Equal(t, "sale_price", f.PriceRule)
}

func TestExtract_WasPriceOverridesTable(t *testing.T) {
	body := `<table class="table table-bordered"><tbody><tr><th>Qty 1+</th><td>$7.25</td></tr></tbody></table>
		<p class="was-price">$8.40</p>`

	f := extract(t, body, productURL)

	assert.Equal(t, "8.40", f.Price)
	assert.Equal(t, "was_price", f.PriceRule)
}

func TestExtract_PlusMemberLayouts(t *testing.T) {
	variantA := `<div id="priceBox"><div class="pricing">
		<div><p><span class="price">$30.00</span></p></div>
		<div class="plus-member plus-member-override plus-member--plus"><div><div class="plus-member__text plus-member__price"><p><span>$27.50</span></p></div></div></div>
	</div></div>`
	f := extract(t, variantA, productURL)
	assert.Equal(t, "27.50", f.Price)
	assert.Equal(t, "plus_member_a", f.PriceRule)

	variantB := `<div id="priceBox"><div class="pricing relative z-0"><div>
		<div class="plus-member plus-member-override plus-member--plus"><div><div class="plus-member__price plus-member__price--plus-member flex justify-center flex-col"><p><span>$26.00</span></p></div></div></div>
	</div></div></div><p class="was-price">$31.00</p>`
	f = extract(t, variantB, productURL)
	assert.Equal(t, "26.00", f.Price)
	assert.Equal(t, "plus_member_b", f.PriceRule)
}

func TestExtract_LegacyTableLayout(t *testing.T) {
	withGeneric := `<div id="priceBox"><div class="pricing">
		<table><tbody><tr><td>Each</td></tr></tbody></table>
		<p><span>$15.75</span></p>
	</div></div>`
	f := extract(t, withGeneric, productURL)
	assert.Equal(t, "15.75", f.Price)
	assert.Equal(t, "legacy_table", f.PriceRule)

	withoutGeneric := `<div id="priceBox"><div class="pricing">
		<div><p><span class="price">$9.00</span></p></div>
		<table><tbody><tr><td>Each</td></tr></tbody></table>
	</div></div>`
	f = extract(t, withoutGeneric, productURL)
	assert.Equal(t, "9.00", f.Price, "failed rule must keep the previous price")
}

func TestExtractor_LastMatchingRuleWins(t *testing.T) {
	fixed := func(name, value string) Rule {
		return Rule{Name: name, Apply: func(p *Page, cur Fields) (Fields, Match, error) {
			cur.Price = value
			cur.PriceRule = name
			return cur, Matched, nil
		}}
	}
	skip := Rule{Name: "skip", Apply: func(p *Page, cur Fields) (Fields, Match, error) {
		cur.Price = "999"
		return cur, NotMatched, nil
	}}
	fail := Rule{Name: "fail", Apply: func(p *Page, cur Fields) (Fields, Match, error) {
		cur.Price = "888"
		return cur, Failed, errors.New("boom")
	}}

	e := NewWithRules([]Rule{fixed("first", "1.00"), fixed("second", "2.00"), skip, fail})
	f := e.Extract(parse(t, `<p>x</p>`), productURL)

	assert.Equal(t, "2.00", f.Price)
	assert.Equal(t, "second", f.PriceRule)
	assert.Equal(t, []string{"first", "second", "skip", "fail"}, e.Rules())
}

func TestDefaultRulesOrder(t *testing.T) {
	assert.Equal(t, []string{
		"table_price", "simple_price", "works_with", "sale_price", "was_price",
		"plus_member_a", "legacy_table", "plus_member_b", "minimum_buy", "search_page",
	}, New().Rules())
}

func TestMinimumQuantity(t *testing.T) {
	assert.Equal(t, 12, MinimumQuantity("Minimum order: 12 units"))
	assert.Equal(t, 0, MinimumQuantity("No minimum"))
}
