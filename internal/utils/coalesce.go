package utils

import "strings"

// Coalesce returns the first value that is not blank.
func Coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}
