package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrBlank is returned for empty or whitespace-only links
var ErrBlank = errors.New("blank URL")

// ValidateURL checks that a product link is an absolute http(s) URL and
// returns it trimmed.
func ValidateURL(urlStr string) (string, error) {
	urlStr = strings.TrimSpace(urlStr)
	if urlStr == "" {
		return "", ErrBlank
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("invalid URL scheme: must be http or https, got %q", parsed.Scheme)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL: missing host")
	}

	return urlStr, nil
}

