package extract

import "github.com/andybalholm/cascadia"

// Storefront template markers. Each layout revision of the product page added
// its own price element, and older revisions are still served for some SKUs.
var (
	selUnavailableIcon = cascadia.MustCompile(`svg.block.mx-auto.align-middle`)
	selPriceTable      = cascadia.MustCompile(`table.table.table-bordered`)
	selTableRows       = cascadia.MustCompile(`tbody tr`)
	selSimplePrice     = cascadia.MustCompile(`#priceBox > div.pricing > div > p > span.price`)
	selGenericPrice    = cascadia.MustCompile(`#priceBox > div.pricing > p > span`)
	selSaleMarker      = cascadia.MustCompile(`#priceBox > div.pricing > p.sale-price > span.text-black.font-bold.bg-yellow-400.rounded-sm.antialiased.mr-1.mt-0\.5.px-3\/4.py-0\.5.text-sm`)
	selSalePrice       = cascadia.MustCompile(`#priceBox > div.pricing > p.sale-price > span:nth-child(2)`)
	selWasPrice        = cascadia.MustCompile(`p.was-price`)
	selPlusMemberA     = cascadia.MustCompile(`#priceBox > div.pricing > div.plus-member.plus-member-override.plus-member--plus > div > div.plus-member__text.plus-member__price > p > span`)
	selLegacyTable     = cascadia.MustCompile(`#priceBox > div.pricing > table > tbody > tr > td`)
	selPlusMemberB     = cascadia.MustCompile(`#priceBox > div.pricing.relative.z-0 > div > div.plus-member.plus-member-override.plus-member--plus > div > div.plus-member__price.plus-member__price--plus-member.flex.justify-center.flex-col > p > span`)
	selMinimumBuy      = cascadia.MustCompile(`p.min-must-text`)
)

// Page text markers
const (
	phraseUnavailable      = "This Product is no longer available"
	phraseUnavailableLower = "This product is no longer available"
	phraseNotifyMe         = "Notify me when this product is back in stock"
	phraseWorksWith        = "Works With"
	searchPathMarker       = "search"
)
