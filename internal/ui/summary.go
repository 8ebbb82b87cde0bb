package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/law-makers/pricefeed/internal/batch"
	"github.com/law-makers/pricefeed/pkg/models"
)

var (
	stockOrder = []models.StockStatus{models.StockIn, models.StockOut, models.StockInvalid}
	fetchOrder = []models.FetchStatus{
		models.FetchOK,
		models.FetchInvalid,
		models.FetchExhaustedAttempts,
		models.FetchExhaustedProxies,
		models.FetchCancelled,
	}
)

// PrintSummary writes the end-of-run report. Statuses with no targets are omitted.
func PrintSummary(w io.Writer, s batch.Summary, elapsed time.Duration) {
	fmt.Fprintf(w, "\n%s %d targets in %s\n", Bold("Summary"), s.Total, elapsed.Round(time.Millisecond))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"", "Status", "Targets"})

	for _, st := range stockOrder {
		if n := s.Stock[st]; n > 0 {
			t.AppendRow(table.Row{"stock", Stock(st), n})
		}
	}
	t.AppendSeparator()
	for _, fs := range fetchOrder {
		if n := s.Fetch[fs]; n > 0 {
			t.AppendRow(table.Row{"fetch", string(fs), n})
		}
	}

	t.SetStyle(table.StyleRounded)
	t.Render()

	if s.Removed > 0 {
		fmt.Fprintf(w, "%s\n", Info(fmt.Sprintf("%d listings no longer available", s.Removed)))
	}
	if s.Review > 0 {
		fmt.Fprintf(w, "%s\n", Error(fmt.Sprintf("%d targets need manual review", s.Review)))
	}
}

// PrintResult writes one result for the single-URL probe
func PrintResult(w io.Writer, r models.ExtractionResult) {
	price := r.PriceString()
	if price == "" {
		price = "-"
	}
	fmt.Fprintf(w, "%s %s\n", Bold("URL     "), r.URL)
	fmt.Fprintf(w, "%s %s\n", Bold("Stock   "), Stock(r.StockStatus))
	fmt.Fprintf(w, "%s %s\n", Bold("Price   "), price)
	fmt.Fprintf(w, "%s %t\n", Bold("Remove  "), r.RemovalFlag)
	fmt.Fprintf(w, "%s %s (%d attempts)\n", Bold("Fetch   "), r.FetchStatus, r.Attempts)
}
