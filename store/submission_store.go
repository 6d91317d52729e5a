package store

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"utmattribution/api/database"
	"utmattribution/api/models"
)

// SubmissionStore forwards augmented form submissions into ClickHouse.
type SubmissionStore struct {
	DB *database.ClickHouseClient
}

func NewSubmissionStore(chClient *database.ClickHouseClient) *SubmissionStore {
	return &SubmissionStore{
		DB: chClient,
	}
}

func (s *SubmissionStore) InsertSubmissions(ctx context.Context, submissions []models.FormSubmission) error {
	if len(submissions) == 0 {
		return nil
	}

	// Column order must match the form_submissions table.
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO form_submissions (
			submission_id, form_id, submitted_at, ip_address, user_agent, fields
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, sub := range submissions {
		err := batch.Append(
			sub.SubmissionID,
			sub.FormID,
			sub.SubmittedAt,
			sub.IPAddress,
			sub.UserAgent,
			string(sub.Fields),
		)
		if err != nil {
			log.Errorf("Error appending submission to batch (SubmissionID: %s): %v", sub.SubmissionID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Debugf("Inserted %d form submissions", len(submissions))
	return nil
}
