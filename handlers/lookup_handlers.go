package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"utmattribution/api/attribution"
	"utmattribution/api/store"
)

// DynamicTagName is the only registered dynamic tag.
const DynamicTagName = "utm_cookie"

type LookupHandlers struct {
	Settings SettingsProvider
	Cookies  store.CookieOptions
}

func NewLookupHandlers(settings SettingsProvider, cookies store.CookieOptions) *LookupHandlers {
	return &LookupHandlers{Settings: settings, Cookies: cookies}
}

// Shortcode renders [utm key scope fallback] as literal text. When shortcodes are
// disabled only the fallback is returned.
func (h *LookupHandlers) Shortcode(c *gin.Context) {
	fallback := c.Query("fallback")
	if !h.Settings.Get(c.Request.Context()).Shortcode {
		writeText(c, http.StatusOK, fallback)
		return
	}
	h.resolve(c, c.Query("key"), fallback)
}

// DynamicTag renders the utm_cookie tag. The tag only exists while enabled.
func (h *LookupHandlers) DynamicTag(c *gin.Context) {
	if c.Param("name") != DynamicTagName || !h.Settings.Get(c.Request.Context()).DynamicTag {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dynamic tag not registered"})
		return
	}
	h.resolve(c, c.DefaultQuery("key", string(attribution.UTMSource)), c.Query("fallback"))
}

// Values returns the last-touch value, or the first-touch value when last touch
// is empty, for every tracked key that has one. It backs the frontend fill script, which cannot read HttpOnly cookies.
func (h *LookupHandlers) Values(c *gin.Context) {
	if !h.Settings.Get(c.Request.Context()).FrontendFill {
		c.JSON(http.StatusNotFound, gin.H{"error": "Frontend fill is disabled"})
		return
	}
	rec := store.CookieStoreFromContext(c, h.Cookies).Record()
	out := make(map[string]string)
	for _, k := range attribution.Keys() {
		if v := attribution.FillValue(rec, k); v != "" {
			out[string(k)] = v
		}
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, out)
}

func (h *LookupHandlers) resolve(c *gin.Context, key, fallback string) {
	rec := store.CookieStoreFromContext(c, h.Cookies).Record()
	scope := attribution.ParseScope(c.DefaultQuery("scope", string(attribution.Last)))
	val := attribution.Resolve(rec, scope, key, fallback)
	writeText(c, http.StatusOK, attribution.SanitizeValue(val))
}
