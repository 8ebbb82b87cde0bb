package ui

import "github.com/law-makers/pricefeed/pkg/models"

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
)

func Bold(s string) string {
	return ColorBold + s + ColorReset
}

func Success(s string) string {
	return ColorGreen + s + ColorReset
}

func Info(s string) string {
	return ColorDim + ColorYellow + s + ColorReset
}

func Error(s string) string {
	return ColorRed + s + ColorReset
}

// Stock colors a stock status the way the summary table shows it
func Stock(s models.StockStatus) string {
	switch s {
	case models.StockIn:
		return Success(string(s))
	case models.StockOut:
		return ColorYellow + string(s) + ColorReset
	default:
		return Error(string(s))
	}
}
