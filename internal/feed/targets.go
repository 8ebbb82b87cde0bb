// Package feed reads target lists and writes result sets.
package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/law-makers/pricefeed/pkg/models"
)

const (
	colSKU   = "sku"
	colLinks = "links"
)

// ErrMissingColumns is returned when a target list lacks the sku or links column
var ErrMissingColumns = errors.New("target list must contain both 'sku' and 'links' columns")

// ReadTargets parses a CSV target list. Header names are matched
// case-insensitively after trimming; other columns are ignored. Blank link
// cells are kept so the runner can report them as invalid.
func ReadTargets(r io.Reader) ([]models.Target, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingColumns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	skuIdx, linkIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case colSKU:
			skuIdx = i
		case colLinks:
			linkIdx = i
		}
	}
	if skuIdx < 0 || linkIdx < 0 {
		return nil, ErrMissingColumns
	}

	var targets []models.Target
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		targets = append(targets, models.Target{
			SKU: strings.TrimSpace(cell(record, skuIdx)),
			URL: strings.TrimSpace(cell(record, linkIdx)),
		})
	}
	return targets, nil
}

// LoadTargets reads a CSV target list from disk
func LoadTargets(path string) ([]models.Target, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	targets, err := ReadTargets(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return targets, nil
}

// WriteTargets writes a target list in the same two-column layout it is read from
func WriteTargets(w io.Writer, targets []models.Target) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{colSKU, colLinks}); err != nil {
		return err
	}
	for _, t := range targets {
		if err := writer.Write([]string{t.SKU, t.URL}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveTargets rewrites the target list at path
func SaveTargets(path string, targets []models.Target) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTargets(file, targets); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Prune drops the targets whose result says the listing is gone for good.
// results must line up with targets index for index.
func Prune(targets []models.Target, results []models.ExtractionResult) []models.Target {
	kept := make([]models.Target, 0, len(targets))
	for i, t := range targets {
		if i < len(results) && results[i].RemovalFlag {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
