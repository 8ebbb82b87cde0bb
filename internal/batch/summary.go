package batch

import "github.com/law-makers/pricefeed/pkg/models"

// Summary counts a finished batch by stock and fetch status
type Summary struct {
	Total   int
	Stock   map[models.StockStatus]int
	Fetch   map[models.FetchStatus]int
	Removed int
	Review  int
}

// Summarize tallies results
func Summarize(results []models.ExtractionResult) Summary {
	s := Summary{
		Total: len(results),
		Stock: make(map[models.StockStatus]int),
		Fetch: make(map[models.FetchStatus]int),
	}
	for _, r := range results {
		s.Stock[r.StockStatus]++
		s.Fetch[r.FetchStatus]++
		if r.RemovalFlag {
			s.Removed++
		}
		if r.NeedsReview() {
			s.Review++
		}
	}
	return s
}
