package pkg

import (
	"slices"
	"strings"
)

// ParseKeyValues splits a comma-separated list of key=value pairs into a map.
// Entries without a key are skipped; spaces around keys and values are trimmed.
func ParseKeyValues(s string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(s) == "" {
		return out
	}

	for _, pair := range strings.Split(s, ",") {
		key, value, _ := strings.Cut(pair, "=")

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		out[key] = strings.TrimSpace(value)
	}

	return out
}

// ContainsMethod checks if the given HTTP method is in the list, ignoring case
func ContainsMethod(methods []string, method string) bool {
	return slices.Contains(methods, strings.ToUpper(method))
}
