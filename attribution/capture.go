package attribution

import (
	"errors"
	"fmt"
	"net/url"
)

// Visit is the request-derived input of a page load.
type Visit struct {
	Query    url.Values
	Referrer string
	URL      string
}

// HasFirstTouch reports whether any first-scope entry holds a non-empty value.
func HasFirstTouch(rec Record) bool {
	if rec == nil {
		return false
	}
	for _, k := range keys {
		if v, ok := rec.Get(First, k); ok && v != "" {
			return true
		}
	}
	return false
}

// Capture decides which entries a page visit writes. First-touch entries are only
// written while no first-touch snapshot exists; last-touch entries are rewritten on
// every visit that carries at least one tracked query parameter.
func Capture(v Visit, rec Record) []Write {
	hasFirst := HasFirstTouch(rec)
	foundNew := false
	var writes []Write

	for _, k := range keys {
		if k.Synthesized() {
			continue
		}
		vals, ok := v.Query[string(k)]
		if !ok {
			continue
		}
		val := ""
		if len(vals) > 0 {
			val = SanitizeValue(vals[0])
		}
		foundNew = true
		writes = append(writes, Write{Scope: Last, Key: k, Value: val})
		if !hasFirst {
			writes = append(writes, Write{Scope: First, Key: k, Value: val})
		}
	}

	if !hasFirst || foundNew {
		ref := SanitizeValue(v.Referrer)
		landing := SanitizeValue(StripQuery(v.URL))
		if !hasFirst {
			writes = append(writes,
				Write{Scope: First, Key: Referrer, Value: ref},
				Write{Scope: First, Key: LandingPage, Value: landing},
			)
		}
		if foundNew {
			writes = append(writes,
				Write{Scope: Last, Key: Referrer, Value: ref},
				Write{Scope: Last, Key: LandingPage, Value: landing},
			)
		}
	}
	return writes
}

// ErrNoStorage is returned by Persist when there is nowhere to write.
var ErrNoStorage = errors.New("attribution: no storage")

// Persist hands every write to storage with the configured retention. A failed
// write does not stop the remaining ones; all failures are joined into the result.
func Persist(s Storage, writes []Write, cfg Config) error {
	if len(writes) == 0 {
		return nil
	}
	if s == nil {
		return ErrNoStorage
	}
	ttl := cfg.TTL()
	var errs []error
	for _, w := range writes {
		if err := s.Write(w, ttl); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", w.Slot(), err))
		}
	}
	return errors.Join(errs...)
}
