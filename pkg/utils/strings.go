package utils

import "strings"

// SplitNonEmpty splits raw on sep, trims each part and drops empty ones.
func SplitNonEmpty(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
