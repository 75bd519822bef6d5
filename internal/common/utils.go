package common

import "strings"

// HasAny returns true if s contains any of the substrings, ignoring case.
func HasAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// WantsHTML reports whether an Accept header prefers an HTML response.
func WantsHTML(accept string) bool {
	return HasAny(accept, "text/html", "application/xhtml+xml")
}
