package models

import (
	"encoding/json"
	"time"

	"utmattribution/api/attribution"
)

// SubmitFormRequest is the body of a form submission forwarded by the host site.
type SubmitFormRequest struct {
	Fields attribution.FieldSet `json:"fields"`
}

// SubmitFormResponse echoes the augmented field set.
type SubmitFormResponse struct {
	SubmissionID string                `json:"submissionId"`
	FormID       string                `json:"formId"`
	Fields       *attribution.FieldSet `json:"fields"`
	Injected     int                   `json:"injected"`
}

// FormSubmission is one forwarded submission as written to the sink.
type FormSubmission struct {
	SubmissionID string          `json:"submissionId"`
	FormID       string          `json:"formId"`
	SubmittedAt  time.Time       `json:"submittedAt"`
	IPAddress    string          `json:"ipAddress"`
	UserAgent    string          `json:"userAgent"`
	Fields       json.RawMessage `json:"fields"`
}
