package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	GinMode  string `env:"GIN_MODE"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL"`

	ClickHouseHost       string `env:"CLICKHOUSE_HOST"`
	ClickHouseNativePort int    `env:"CLICKHOUSE_NATIVE_PORT" envDefault:"9000"`
	ClickHouseDBName     string `env:"CLICKHOUSE_DB_NAME"`
	ClickHouseUsername   string `env:"CLICKHOUSE_USERNAME"`
	ClickHousePassword   string `env:"CLICKHOUSE_PASSWORD"`

	JWTSecret   string `env:"JWT_SECRET_KEY"`
	AuthDefault string `env:"AUTH_DEFAULT"`
	FEOrigin    string `env:"FE_ORIGIN" envDefault:"http://localhost:3000"`

	AdminCookieSecure bool `env:"ADMIN_COOKIE_SECURE"`

	CookiePrefix        string `env:"COOKIE_PREFIX" envDefault:"utm_"`
	CookieDomain        string `env:"COOKIE_DOMAIN"`
	TrustForwardedProto bool   `env:"TRUST_FORWARDED_PROTO"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file found or error loading .env: %v", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ClickHouseEnabled reports whether a submission sink is configured.
func (c Config) ClickHouseEnabled() bool {
	return c.ClickHouseHost != "" && c.ClickHouseDBName != ""
}

// ApplyLogLevel sets the global logger level, defaulting to info on bad input.
func (c Config) ApplyLogLevel() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
