// Package price turns raw storefront price text into canonical decimal strings.
package price

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Zero is the price reported when nothing on the page yielded one
const Zero = "0"

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// Normalize converts raw price text such as "$1,234.567" into "1234.56".
//
// Everything but digits and dots is dropped, the value is split on the first
// dot, and at most two fraction digits are kept. Extra separators inside the
// fraction are discarded. Input without digits yields "".
func Normalize(raw string) string {
	filtered := nonNumeric.ReplaceAllString(raw, "")

	whole, frac, found := strings.Cut(filtered, ".")
	whole = strings.ReplaceAll(whole, ".", "")
	if !found {
		return whole
	}

	if len(frac) > 2 {
		frac = frac[:2]
	}
	frac = strings.ReplaceAll(frac, ".", "")

	switch {
	case whole == "" && frac == "":
		return ""
	case whole == "":
		whole = "0"
	}
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// Multiply scales a normalized price by a purchase quantity and returns the
// product with exactly two fraction digits.
func Multiply(normalized string, qty int) (string, error) {
	cents, err := toCents(normalized)
	if err != nil {
		return "", err
	}
	total := cents * int64(qty)
	return fmt.Sprintf("%d.%02d", total/100, total%100), nil
}

// toCents parses a normalized price into an integer number of cents
func toCents(normalized string) (int64, error) {
	if normalized == "" {
		return 0, fmt.Errorf("empty price")
	}

	whole, frac, _ := strings.Cut(normalized, ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", normalized, err)
	}

	for len(frac) < 2 {
		frac += "0"
	}
	c, err := strconv.ParseInt(frac[:2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", normalized, err)
	}

	return units*100 + c, nil
}
