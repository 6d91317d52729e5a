package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"utmattribution/api/attribution"
	"utmattribution/api/models"
)

// SettingsProvider supplies the current attribution settings.
type SettingsProvider interface {
	Get(ctx context.Context) attribution.Config
}

// SettingsRepository reads and saves attribution settings.
type SettingsRepository interface {
	SettingsProvider
	Save(ctx context.Context, cfg attribution.Config) (attribution.Config, error)
}

// SubmissionSink receives augmented form submissions.
type SubmissionSink interface {
	InsertSubmissions(ctx context.Context, submissions []models.FormSubmission) error
}

// UserRepository stores admin accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, email string, hashedPassword []byte) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// VisitRecorded acknowledges a tracking beacon. Cookies are set by the capture
// middleware in front of it.
func VisitRecorded(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusNoContent)
}

// writeText emits a literal, non-sniffable text response.
func writeText(c *gin.Context, status int, text string) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(status, "text/plain; charset=utf-8", []byte(text))
}
