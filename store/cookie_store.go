package store

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"utmattribution/api/attribution"
	"utmattribution/api/utils"
)

// ErrResponseWritten means headers were flushed before the cookie could be set.
var ErrResponseWritten = errors.New("response already written")

const cookieStoreKey = "attribution_cookie_store"

// CookieOptions controls how attribution cookies are named and scoped.
type CookieOptions struct {
	Prefix              string
	Domain              string
	TrustForwardedProto bool
}

// CookieStore keeps a visitor's attribution entries in HttpOnly cookies.
// Writes are visible to later reads within the same request.
type CookieStore struct {
	c      *gin.Context
	opts   CookieOptions
	values attribution.Values
}

// NewCookieStore parses the prefixed attribution cookies of the current request.
func NewCookieStore(c *gin.Context, opts CookieOptions) *CookieStore {
	s := &CookieStore{c: c, opts: opts, values: attribution.Values{}}
	if c == nil || c.Request == nil {
		return s
	}
	for _, ck := range c.Request.Cookies() {
		slot, ok := strings.CutPrefix(ck.Name, opts.Prefix)
		if !ok {
			continue
		}
		scope, key, ok := attribution.ParseSlot(slot)
		if !ok || !key.IsTracked() {
			continue
		}
		if _, seen := s.values[slot]; seen {
			continue
		}
		val, err := url.QueryUnescape(ck.Value)
		if err != nil {
			val = ck.Value
		}
		s.values.Set(scope, key, val)
	}
	return s
}

// CookieStoreFromContext returns the store attached to c, creating and attaching
// one on first use.
func CookieStoreFromContext(c *gin.Context, opts CookieOptions) *CookieStore {
	if v, ok := c.Get(cookieStoreKey); ok {
		if s, ok := v.(*CookieStore); ok {
			return s
		}
	}
	s := NewCookieStore(c, opts)
	c.Set(cookieStoreKey, s)
	return s
}

func (s *CookieStore) Record() attribution.Record {
	return s.values
}

// Write sets <prefix><scope>_<key> with Path=/ and HttpOnly. On HTTPS the cookie
// is Secure with SameSite=None so the beacon and values endpoints keep working
// from host pages on another site; plain HTTP falls back to SameSite=Lax.
func (s *CookieStore) Write(w attribution.Write, ttl time.Duration) error {
	if s.c == nil || s.c.Writer == nil || s.c.Writer.Written() {
		return ErrResponseWritten
	}
	secure := utils.IsHTTPS(s.c.Request, s.opts.TrustForwardedProto)
	if secure {
		s.c.SetSameSite(http.SameSiteNoneMode)
	} else {
		s.c.SetSameSite(http.SameSiteLaxMode)
	}
	s.c.SetCookie(
		s.opts.Prefix+w.Slot(),
		w.Value,
		int(ttl/time.Second),
		"/",
		s.opts.Domain,
		secure,
		true,
	)
	s.values[w.Slot()] = w.Value
	return nil
}
