package helpers

import (
	"net/url"
	"strings"
)

// MaskSecret keeps the first four characters of a credential and masks the rest.
// Values of eight characters or fewer are fully masked.
func MaskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", len(value)-4)
}

// RedactURL removes any password embedded in a URL so it can be printed.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
