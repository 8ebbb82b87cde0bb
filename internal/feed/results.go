package feed

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/law-makers/pricefeed/pkg/models"
)

var resultHeader = []string{colSKU, colLinks, "stock", "price", "remove"}

// WriteCSV writes results in input order. Absent prices are empty cells.
func WriteCSV(w io.Writer, results []models.ExtractionResult) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(resultHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.SKU,
			r.URL,
			string(r.StockStatus),
			r.PriceString(),
			strconv.FormatBool(r.RemovalFlag),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes results as an indented JSON array
func WriteJSON(w io.Writer, results []models.ExtractionResult) error {
	if results == nil {
		results = []models.ExtractionResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// SaveResults writes results to path, as JSON when the extension is .json
// and as CSV otherwise.
func SaveResults(path string, results []models.ExtractionResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	write := WriteCSV
	if strings.EqualFold(filepath.Ext(path), ".json") {
		write = WriteJSON
	}

	if err := write(file, results); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
