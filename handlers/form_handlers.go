// api/handlers/form_handlers.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"utmattribution/api/attribution"
	"utmattribution/api/models"
	"utmattribution/api/store"
)

type FormHandlers struct {
	Settings SettingsProvider
	Sink     SubmissionSink
	Cookies  store.CookieOptions
}

// NewFormHandlers wires the submission endpoint. sink may be nil when no
// forwarding target is configured.
func NewFormHandlers(settings SettingsProvider, sink SubmissionSink, cookies store.CookieOptions) *FormHandlers {
	return &FormHandlers{
		Settings: settings,
		Sink:     sink,
		Cookies:  cookies,
	}
}

// Submit merges the visitor's attribution into the submitted fields and forwards
// the result. Attribution and forwarding problems never fail the submission.
func (h *FormHandlers) Submit(c *gin.Context) {
	formID := c.Param("formID")

	var req models.SubmitFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Error binding form submission for form %s: %v", formID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	fields := &req.Fields
	before := fields.Len()

	cfg := h.Settings.Get(c.Request.Context())
	if cfg.Inject {
		rec := store.CookieStoreFromContext(c, h.Cookies).Record()
		fields = attribution.Merge(fields, rec)
	}

	resp := models.SubmitFormResponse{
		SubmissionID: uuid.New().String(),
		FormID:       formID,
		Fields:       fields,
		Injected:     fields.Len() - before,
	}

	if h.Sink != nil {
		h.forward(c, resp)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *FormHandlers) forward(c *gin.Context, resp models.SubmitFormResponse) {
	payload, err := json.Marshal(resp.Fields)
	if err != nil {
		log.Errorf("Error encoding fields of submission %s: %v", resp.SubmissionID, err)
		return
	}

	sub := models.FormSubmission{
		SubmissionID: resp.SubmissionID,
		FormID:       resp.FormID,
		SubmittedAt:  time.Now().UTC(),
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		Fields:       payload,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second) // Set a timeout for DB operation
	defer cancel()

	if err := h.Sink.InsertSubmissions(ctx, []models.FormSubmission{sub}); err != nil {
		log.Errorf("Error forwarding submission %s for form %s: %v", sub.SubmissionID, sub.FormID, err)
	}
}
