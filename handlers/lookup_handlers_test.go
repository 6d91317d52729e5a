package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"utmattribution/api/attribution"
)

func lookupRequest(t *testing.T, cfg attribution.Config, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	h := NewLookupHandlers(&fakeSettings{cfg: cfg}, testCookies)
	r := newTestRouter()
	r.GET("/utm", h.Shortcode)
	r.GET("/tags/:name", h.DynamicTag)
	r.GET("/utm/values", h.Values)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestShortcode(t *testing.T) {
	cookies := []*http.Cookie{
		{Name: "utm_last_utm_source", Value: "newsletter"},
		{Name: "utm_first_utm_source", Value: "google"},
	}

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "default scope is last", target: "/utm?key=utm_source&fallback=fb", want: "newsletter"},
		{name: "first scope", target: "/utm?key=utm_source&scope=first", want: "google"},
		{name: "dirty key", target: "/utm?key=UTM_Source!!&fallback=fb", want: "newsletter"},
		{name: "unknown scope is last", target: "/utm?key=utm_source&scope=middle", want: "newsletter"},
		{name: "missing value", target: "/utm?key=gclid&fallback=none", want: "none"},
		{name: "empty key", target: "/utm?fallback=none", want: "none"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := lookupRequest(t, attribution.DefaultConfig(), tc.target, cookies...)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d", rr.Code)
			}
			if got := rr.Body.String(); got != tc.want {
				t.Fatalf("body = %q, want %q", got, tc.want)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
				t.Fatalf("content type = %q", ct)
			}
		})
	}
}

func TestShortcodeDisabledReturnsFallback(t *testing.T) {
	cfg := attribution.DefaultConfig()
	cfg.Shortcode = false

	rr := lookupRequest(t, cfg, "/utm?key=utm_source&fallback=fb", &http.Cookie{Name: "utm_last_utm_source", Value: "google"})
	if got := rr.Body.String(); got != "fb" {
		t.Fatalf("body = %q, want %q", got, "fb")
	}
}

func TestShortcodeRendersLiteralText(t *testing.T) {
	rr := lookupRequest(t, attribution.DefaultConfig(), "/utm?key=utm_content",
		&http.Cookie{Name: "utm_last_utm_content", Value: "%3Cb%3Ebanner%3C%2Fb%3E"})
	if got := rr.Body.String(); got != "<b>banner</b>" {
		t.Fatalf("body = %q", got)
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected nosniff header")
	}
}

func TestDynamicTag(t *testing.T) {
	cookie := &http.Cookie{Name: "utm_first_gclid", Value: "abc123"}

	rr := lookupRequest(t, attribution.DefaultConfig(), "/tags/utm_cookie?key=gclid&scope=first", cookie)
	if rr.Code != http.StatusOK || rr.Body.String() != "abc123" {
		t.Fatalf("status = %d, body = %q", rr.Code, rr.Body.String())
	}

	rr = lookupRequest(t, attribution.DefaultConfig(), "/tags/utm_cookie?fallback=none", cookie)
	if rr.Body.String() != "none" {
		t.Fatalf("default key should be utm_source, got %q", rr.Body.String())
	}

	rr = lookupRequest(t, attribution.DefaultConfig(), "/tags/other?key=gclid", cookie)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for unknown tag", rr.Code)
	}

	cfg := attribution.DefaultConfig()
	cfg.DynamicTag = false
	rr = lookupRequest(t, cfg, "/tags/utm_cookie?key=gclid&scope=first", cookie)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when disabled", rr.Code)
	}
}

func TestValues(t *testing.T) {
	rr := lookupRequest(t, attribution.DefaultConfig(), "/utm/values",
		&http.Cookie{Name: "utm_last_utm_source", Value: "newsletter"},
		&http.Cookie{Name: "utm_first_utm_source", Value: "google"},
		&http.Cookie{Name: "utm_first_utm_medium", Value: "cpc"},
		&http.Cookie{Name: "utm_last_utm_term", Value: ""},
	)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var got map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got["utm_source"] != "newsletter" || got["utm_medium"] != "cpc" {
		t.Fatalf("values = %v", got)
	}

	cfg := attribution.DefaultConfig()
	cfg.FrontendFill = false
	if rr := lookupRequest(t, cfg, "/utm/values"); rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when disabled", rr.Code)
	}
}

func TestValuesSkipsEmptyLastTouch(t *testing.T) {
	rr := lookupRequest(t, attribution.DefaultConfig(), "/utm/values",
		&http.Cookie{Name: "utm_first_utm_term", Value: "shoes"},
		&http.Cookie{Name: "utm_last_utm_term", Value: ""},
		&http.Cookie{Name: "utm_first_gclid", Value: "old"},
		&http.Cookie{Name: "utm_last_gclid", Value: "new"},
	)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var got map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["utm_term"] != "shoes" {
		t.Fatalf("utm_term = %q, want %q", got["utm_term"], "shoes")
	}
	if got["gclid"] != "new" {
		t.Fatalf("gclid = %q, want %q", got["gclid"], "new")
	}
}
