package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"utmattribution/api/attribution"
)

// fillScript reports the page visit, then fills empty tracked inputs of every
// form on the page, including forms inserted later (popups). %[1]s is the values
// URL, %[2]s the key list, %[3]s the visit URL.
const fillScript = `(function() {
  var keys = %[2]s;
  var visit = %[3]s + '?url=' + encodeURIComponent(location.href) +
    '&ref=' + encodeURIComponent(document.referrer || '');
  var values = null;
  function fill() {
    if (!values) return;
    keys.forEach(function(k) {
      document.querySelectorAll('form input[name="' + k + '"]').forEach(function(el) {
        if (!el.value && values[k]) el.value = values[k];
      });
    });
  }
  fetch(visit, {credentials: 'include'})
    .catch(function() {})
    .then(function() { return fetch(%[1]s, {credentials: 'include'}); })
    .then(function(r) { return r.ok ? r.json() : {}; })
    .then(function(v) { values = v || {}; fill(); })
    .catch(function() {});
  document.addEventListener('DOMContentLoaded', function() {
    fill();
    new MutationObserver(fill).observe(document.documentElement, {childList: true, subtree: true});
  });
})();
`

type ScriptHandlers struct {
	Settings  SettingsProvider
	VisitURL  string
	ValuesURL string
}

func NewScriptHandlers(settings SettingsProvider, visitURL, valuesURL string) *ScriptHandlers {
	return &ScriptHandlers{Settings: settings, VisitURL: visitURL, ValuesURL: valuesURL}
}

// FrontendFill serves the fill script while the feature is enabled.
func (h *ScriptHandlers) FrontendFill(c *gin.Context) {
	if !h.Settings.Get(c.Request.Context()).FrontendFill {
		c.Status(http.StatusNotFound)
		return
	}

	valuesURL, _ := json.Marshal(h.ValuesURL)
	visitURL, _ := json.Marshal(h.VisitURL)
	keys, _ := json.Marshal(attribution.Keys())

	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "application/javascript; charset=utf-8",
		[]byte(fmt.Sprintf(fillScript, valuesURL, keys, visitURL)))
}
