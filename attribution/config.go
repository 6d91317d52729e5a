package attribution

import "time"

const (
	DefaultTTLDays = 90
	MinTTLDays     = 1
	MaxTTLDays     = 3650
)

// Config holds the host-editable toggles and the retention period.
type Config struct {
	Inject       bool `json:"inject"`
	FrontendFill bool `json:"frontendFill"`
	TTLDays      int  `json:"ttlDays"`
	Shortcode    bool `json:"shortcode"`
	DynamicTag   bool `json:"dynamicTag"`
}

// DefaultConfig enables every feature with a 90 day retention.
func DefaultConfig() Config {
	return Config{
		Inject:       true,
		FrontendFill: true,
		TTLDays:      DefaultTTLDays,
		Shortcode:    true,
		DynamicTag:   true,
	}
}

// ClampTTLDays bounds days to [MinTTLDays, MaxTTLDays].
func ClampTTLDays(days int) int {
	return max(MinTTLDays, min(MaxTTLDays, days))
}

// Normalize returns a copy with TTLDays clamped.
func (c Config) Normalize() Config {
	c.TTLDays = ClampTTLDays(c.TTLDays)
	return c
}

// TTL is the expiry applied to every write.
func (c Config) TTL() time.Duration {
	return time.Duration(ClampTTLDays(c.TTLDays)) * 24 * time.Hour
}
