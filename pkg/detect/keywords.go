// Package detect implements the shop detection core: keyword matching on
// image captions, the cadence gate that throttles inference and speech, and
// the detection loop that ties frame capture, captioning and announcements
// together.
package detect

import "strings"

// DefaultKeywords is the built-in list of caption words that indicate a
// shop scene. Overridable at startup via the -keywords flag.
var DefaultKeywords = []string{
	"shop",
	"store",
	"market",
	"supermarket",
	"mall",
	"boutique",
	"grocery",
	"bakery",
	"pharmacy",
	"bookstore",
	"butcher",
	"retail",
	"convenience",
	"outlet",
	"storefront",
	"vendor",
	"deli",
}

// Matches reports whether any keyword occurs in the caption.
// Matching is case-insensitive substring containment. Keywords are trimmed
// first; empty keywords are skipped. An empty caption never matches.
func Matches(caption string, keywords []string) bool {
	if caption == "" {
		return false
	}
	low := strings.ToLower(caption)
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if strings.Contains(low, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// ParseKeywords splits a comma-separated keyword override into a normalized
// keyword list: trimmed, lower-cased, empties dropped.
func ParseKeywords(csv string) []string {
	var out []string
	for _, k := range strings.Split(csv, ",") {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
