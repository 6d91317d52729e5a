package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"utmattribution/api/attribution"
	"utmattribution/api/store"
	"utmattribution/api/utils"
)

// SettingsProvider supplies the current attribution settings.
type SettingsProvider interface {
	Get(ctx context.Context) attribution.Config
}

// VisitFunc extracts the page visit from a request. ok is false when the request
// does not describe a page load.
type VisitFunc func(c *gin.Context, trustForwarded bool) (v attribution.Visit, ok bool)

// PageVisit treats the request itself as the page load.
func PageVisit(c *gin.Context, trustForwarded bool) (attribution.Visit, bool) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		return attribution.Visit{}, false
	}
	return attribution.Visit{
		Query:    c.Request.URL.Query(),
		Referrer: c.Request.Referer(),
		URL:      utils.CurrentURL(c.Request, trustForwarded),
	}, true
}

// BeaconVisit reads the page URL and referrer from the url and ref query
// parameters, as sent by a tracking beacon on the host page.
func BeaconVisit(c *gin.Context, _ bool) (attribution.Visit, bool) {
	raw := c.Query("url")
	if raw == "" {
		return attribution.Visit{}, false
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return attribution.Visit{}, false
	}
	return attribution.Visit{
		Query:    u.Query(),
		Referrer: c.Query("ref"),
		URL:      raw,
	}, true
}

// CaptureAttribution records first-touch and last-touch cookies for page visits.
// It never aborts the request.
func CaptureAttribution(settings SettingsProvider, opts store.CookieOptions, visitOf VisitFunc) gin.HandlerFunc {
	if visitOf == nil {
		visitOf = PageVisit
	}
	return func(c *gin.Context) {
		visit, ok := visitOf(c, opts.TrustForwardedProto)
		if !ok {
			c.Next()
			return
		}

		cookies := store.CookieStoreFromContext(c, opts)
		writes := attribution.Capture(visit, cookies.Record())
		if len(writes) > 0 {
			cfg := settings.Get(c.Request.Context())
			if err := attribution.Persist(cookies, writes, cfg); err != nil {
				log.Debugf("CaptureAttribution: skipped cookie writes for %s: %v", c.Request.URL.Path, err)
			}
		}

		c.Next()
	}
}
