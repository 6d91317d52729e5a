package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/charmbracelet/log"
)

type ClickHouseClient struct {
	Conn clickhouse.Conn
}

// ClickHouseOptions selects the submission sink.
type ClickHouseOptions struct {
	Host       string
	NativePort int
	Database   string
	Username   string
	Password   string
}

func NewClickHouseDB(ctx context.Context, o ClickHouseOptions) (*ClickHouseClient, error) {
	if o.Host == "" || o.NativePort == 0 || o.Database == "" {
		return nil, fmt.Errorf("CLICKHOUSE_HOST, CLICKHOUSE_NATIVE_PORT, or CLICKHOUSE_DB_NAME environment variables are not set")
	}

	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", o.Host, o.NativePort)},
		Auth: clickhouse.Auth{
			Database: o.Database,
			Username: o.Username,
			Password: o.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "utm-attribution-api", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: time.Second * 5,
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse via Native TCP: %w", err)
	}

	if err := conn.Ping(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	if err := ensureClickHouseSchema(pingCtx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	log.Info("Successfully connected to ClickHouse database via Native TCP")
	return &ClickHouseClient{Conn: conn}, nil
}

func (c *ClickHouseClient) Close() {
	if c.Conn != nil {
		c.Conn.Close()
		log.Info("ClickHouse connection closed")
	}
}
