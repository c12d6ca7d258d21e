// Package urlcheck validates fetchable article addresses.
package urlcheck

import "net/url"

// IsURL reports whether s parses as an absolute http or https URL.
// It performs no network access and never fails.
func IsURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
