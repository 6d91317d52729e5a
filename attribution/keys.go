package attribution

import (
	"strings"
	"unicode"
)

// Key is one of the tracked campaign parameters or click identifiers.
type Key string

const (
	UTMSource   Key = "utm_source"
	UTMMedium   Key = "utm_medium"
	UTMCampaign Key = "utm_campaign"
	UTMTerm     Key = "utm_term"
	UTMContent  Key = "utm_content"
	GCLID       Key = "gclid"
	FBCLID      Key = "fbclid"
	MSCLKID     Key = "msclkid"
	WBRAID      Key = "wbraid"
	GBRAID      Key = "gbraid"
	YCLID       Key = "yclid"
	Referrer    Key = "referrer"
	LandingPage Key = "landing_page"
)

var keys = []Key{
	UTMSource, UTMMedium, UTMCampaign, UTMTerm, UTMContent,
	GCLID, FBCLID, MSCLKID, WBRAID, GBRAID, YCLID,
	Referrer, LandingPage,
}

var labels = map[Key]string{
	UTMSource:   "UTM Source",
	UTMMedium:   "UTM Medium",
	UTMCampaign: "UTM Campaign",
	UTMTerm:     "UTM Term",
	UTMContent:  "UTM Content",
	GCLID:       "GCLID",
	FBCLID:      "FBCLID",
	MSCLKID:     "MSCLKID",
	WBRAID:      "WBRAID",
	GBRAID:      "GBRAID",
	YCLID:       "YCLID",
	Referrer:    "Referrer",
	LandingPage: "Landing Page",
}

// Keys returns the tracked keys in their canonical order.
func Keys() []Key {
	out := make([]Key, len(keys))
	copy(out, keys)
	return out
}

// Label returns the human readable label used for synthetic form fields.
func (k Key) Label() string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}

// Synthesized reports whether the key is derived from the request rather than
// read from the query string.
func (k Key) Synthesized() bool {
	return k == Referrer || k == LandingPage
}

// IsTracked reports whether k belongs to the closed key set.
func (k Key) IsTracked() bool {
	_, ok := labels[k]
	return ok
}

// Scope selects the first-touch or last-touch snapshot.
type Scope string

const (
	First Scope = "first"
	Last  Scope = "last"
)

// ParseScope maps "first" to First and everything else to Last.
func ParseScope(s string) Scope {
	if s == string(First) {
		return First
	}
	return Last
}

// SanitizeKey lowercases the input and keeps only [a-z0-9_].
func SanitizeKey(raw string) string {
	raw = strings.ToLower(raw)
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeValue turns untrusted input into a single line of plain text:
// control characters become spaces, whitespace runs collapse and the result is trimmed.
func SanitizeValue(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, raw)
	return strings.Join(strings.Fields(cleaned), " ")
}

// StripQuery drops the query string and fragment from rawURL, leaving the rest
// byte for byte.
func StripQuery(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
