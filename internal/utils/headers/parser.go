package headers

import (
	"net/http"
	"strings"
)

// ParseHeaders converts "Key: Value" lines into a map keyed by canonical
// header name. Lines without a colon or with an empty key are skipped; later
// lines win.
func ParseHeaders(lines []string) map[string]string {
	m := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		m[http.CanonicalHeaderKey(key)] = strings.TrimSpace(value)
	}
	return m
}
