package models

import (
	"time"

	"utmattribution/api/attribution"
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// User is an admin allowed to change attribution settings.
type User struct {
	ID             int       `json:"id"`
	Email          string    `json:"email"`
	HashedPassword []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SettingsRequest mirrors the settings form; missing toggles are off.
type SettingsRequest struct {
	Inject       bool `json:"inject"`
	FrontendFill bool `json:"frontendFill"`
	TTLDays      *int `json:"ttlDays"`
	Shortcode    bool `json:"shortcode"`
	DynamicTag   bool `json:"dynamicTag"`
}

// Config converts the request into settings, defaulting ttl to 90 days.
func (r SettingsRequest) Config() attribution.Config {
	ttl := attribution.DefaultTTLDays
	if r.TTLDays != nil {
		ttl = *r.TTLDays
	}
	return attribution.Config{
		Inject:       r.Inject,
		FrontendFill: r.FrontendFill,
		TTLDays:      ttl,
		Shortcode:    r.Shortcode,
		DynamicTag:   r.DynamicTag,
	}.Normalize()
}
