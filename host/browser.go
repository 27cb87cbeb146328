package host

import "strings"

// IsSafari reports whether userAgent belongs to Safari. Chromium browsers also
// advertise "Safari" so they are excluded explicitly.
func IsSafari(userAgent string) bool {
	return strings.Contains(userAgent, "Safari") &&
		!strings.Contains(userAgent, "Chrome") &&
		!strings.Contains(userAgent, "Chromium")
}
