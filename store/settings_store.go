package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"utmattribution/api/attribution"
)

// SettingsStore persists the single settings row and caches it in process.
type SettingsStore struct {
	db *sql.DB

	mu     sync.RWMutex
	cached *attribution.Config
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the current settings. Load failures are logged and fall back to
// defaults so that page rendering never depends on the database.
func (s *SettingsStore) Get(ctx context.Context) attribution.Config {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return *cached
	}

	cfg, err := s.Load(ctx)
	if err != nil {
		log.Warnf("Failed to load attribution settings, using defaults: %v", err)
		return attribution.DefaultConfig()
	}

	s.mu.Lock()
	s.cached = &cfg
	s.mu.Unlock()
	return cfg
}

// Load reads settings from Postgres. A missing row yields the defaults.
func (s *SettingsStore) Load(ctx context.Context) (attribution.Config, error) {
	var cfg attribution.Config
	query := `
		SELECT inject, frontend_fill, ttl_days, shortcode, dynamic_tag
		FROM attribution_settings
		WHERE id = 1;
	`
	err := s.db.QueryRowContext(ctx, query).Scan(
		&cfg.Inject,
		&cfg.FrontendFill,
		&cfg.TTLDays,
		&cfg.Shortcode,
		&cfg.DynamicTag,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attribution.DefaultConfig(), nil
		}
		return attribution.Config{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return cfg.Normalize(), nil
}

// Save clamps and upserts the settings, then refreshes the cache.
func (s *SettingsStore) Save(ctx context.Context, cfg attribution.Config) (attribution.Config, error) {
	cfg = cfg.Normalize()
	query := `
		INSERT INTO attribution_settings (id, inject, frontend_fill, ttl_days, shortcode, dynamic_tag, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			inject = EXCLUDED.inject,
			frontend_fill = EXCLUDED.frontend_fill,
			ttl_days = EXCLUDED.ttl_days,
			shortcode = EXCLUDED.shortcode,
			dynamic_tag = EXCLUDED.dynamic_tag,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := s.db.ExecContext(ctx, query, cfg.Inject, cfg.FrontendFill, cfg.TTLDays, cfg.Shortcode, cfg.DynamicTag); err != nil {
		return attribution.Config{}, fmt.Errorf("failed to save settings: %w", err)
	}

	s.mu.Lock()
	s.cached = &cfg
	s.mu.Unlock()

	log.Infof("Attribution settings saved: %+v", cfg)
	return cfg, nil
}
