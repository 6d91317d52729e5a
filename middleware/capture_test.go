package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"

	"utmattribution/api/attribution"
	"utmattribution/api/store"
)

type staticSettings attribution.Config

func (s staticSettings) Get(context.Context) attribution.Config {
	return attribution.Config(s)
}

func newCaptureRouter(cfg attribution.Config) (*gin.Engine, *attribution.Values) {
	gin.SetMode(gin.TestMode)
	seen := &attribution.Values{}
	opts := store.CookieOptions{Prefix: "utm_"}

	r := gin.New()
	r.Use(CaptureAttribution(staticSettings(cfg), opts, nil))
	handler := func(c *gin.Context) {
		rec := store.CookieStoreFromContext(c, opts).Record()
		*seen = rec.(attribution.Values)
		c.String(http.StatusOK, "page")
	}
	r.GET("/*path", handler)
	r.POST("/*path", handler)
	return r, seen
}

func responseCookies(rr *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, ck := range rr.Result().Cookies() {
		out[ck.Name] = ck
	}
	return out
}

func TestCaptureAttributionFreshVisit(t *testing.T) {
	r, seen := newCaptureRouter(attribution.Config{TTLDays: 30})

	req := httptest.NewRequest(http.MethodGet, "http://shop.example/landing?utm_source=google&utm_medium=cpc", nil)
	req.Header.Set("Referer", "https://search.example/")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	cookies := responseCookies(rr)
	want := map[string]string{
		"utm_first_utm_source":   "google",
		"utm_last_utm_source":    "google",
		"utm_first_utm_medium":   "cpc",
		"utm_last_utm_medium":    "cpc",
		"utm_first_referrer":     "https://search.example/",
		"utm_last_referrer":      "https://search.example/",
		"utm_first_landing_page": "http://shop.example/landing",
		"utm_last_landing_page":  "http://shop.example/landing",
	}
	if len(cookies) != len(want) {
		t.Fatalf("got %d cookies, want %d: %v", len(cookies), len(want), cookies)
	}
	for name, val := range want {
		ck, ok := cookies[name]
		if !ok {
			t.Fatalf("missing cookie %s", name)
		}
		if got := unescape(t, ck.Value); got != val {
			t.Fatalf("%s = %q, want %q", name, got, val)
		}
		if ck.MaxAge != 30*24*60*60 || !ck.HttpOnly || ck.Path != "/" {
			t.Fatalf("unexpected attributes on %s: %+v", name, ck)
		}
	}

	if got, _ := seen.Get(attribution.Last, attribution.UTMSource); got != "google" {
		t.Fatalf("handler saw last_utm_source = %q, want %q", got, "google")
	}
}

func TestCaptureAttributionReturningVisitor(t *testing.T) {
	r, _ := newCaptureRouter(attribution.DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "http://shop.example/pricing", nil)
	req.AddCookie(&http.Cookie{Name: "utm_first_utm_source", Value: "google"})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if cookies := responseCookies(rr); len(cookies) != 0 {
		t.Fatalf("expected no cookies, got %v", cookies)
	}
}

func TestCaptureAttributionSkipsNonPageMethods(t *testing.T) {
	r, _ := newCaptureRouter(attribution.DefaultConfig())

	req := httptest.NewRequest(http.MethodPost, "http://shop.example/forms/1/submit?utm_source=google", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if cookies := responseCookies(rr); len(cookies) != 0 {
		t.Fatalf("expected no cookies, got %v", cookies)
	}
}

func unescape(t *testing.T, v string) string {
	t.Helper()
	got, err := url.QueryUnescape(v)
	if err != nil {
		t.Fatalf("unescape %q: %v", v, err)
	}
	return got
}

func TestCaptureAttributionBeacon(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/visit", CaptureAttribution(staticSettings(attribution.DefaultConfig()), store.CookieOptions{Prefix: "utm_"}, BeaconVisit), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	q := url.Values{
		"url": {"https://shop.example/offer?gclid=abc&utm_source=google#cta"},
		"ref": {"https://ads.example/"},
	}
	req := httptest.NewRequest(http.MethodGet, "http://api.example/visit?"+q.Encode(), nil)
	req.AddCookie(&http.Cookie{Name: "utm_first_utm_source", Value: "newsletter"})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	cookies := responseCookies(rr)
	want := map[string]string{
		"utm_last_utm_source":   "google",
		"utm_last_gclid":        "abc",
		"utm_last_referrer":     "https://ads.example/",
		"utm_last_landing_page": "https://shop.example/offer",
	}
	if len(cookies) != len(want) {
		t.Fatalf("got %d cookies, want %d: %v", len(cookies), len(want), cookies)
	}
	for name, val := range want {
		ck, ok := cookies[name]
		if !ok {
			t.Fatalf("missing cookie %s", name)
		}
		if got := unescape(t, ck.Value); got != val {
			t.Fatalf("%s = %q, want %q", name, got, val)
		}
	}
}

func TestBeaconVisitRejectsBadInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, target := range []string{"/visit", "/visit?url=%2Frelative", "/visit?url=%25zz"} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		if _, ok := BeaconVisit(c, false); ok {
			t.Fatalf("BeaconVisit(%s) accepted", target)
		}
	}
}
