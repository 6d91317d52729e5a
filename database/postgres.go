package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/lib/pq"
)

type DBClient struct {
	DB *sql.DB
}

// NewPostgresDB opens the settings/admin database and makes sure its tables exist.
func NewPostgresDB(ctx context.Context, dbURL string) (*DBClient, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("error opening database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database (ping failed): %w", err)
	}

	if err := ensurePostgresSchema(pingCtx, db); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("Successfully connected to PostgreSQL database")
	return &DBClient{DB: db}, nil
}

func (c *DBClient) Close() {
	if c.DB != nil {
		err := c.DB.Close()
		if err != nil {
			log.Errorf("Error closing database connection: %v", err)
		} else {
			log.Info("PostgreSQL database connection closed")
		}
	}
}
