package session

import (
	"encoding/json"
	"time"
)

// Profile is the user snapshot the original client kept in browser storage.
// It is persisted alongside the session so checkout can fill in customer
// name/phone without another upstream round trip.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Image string `json:"image,omitempty"`
}

// Session is one storefront login: the gateway session id, the upstream
// bearer token it proxies with, and the profile snapshot.
type Session struct {
	ID            string `gorm:"primaryKey;size:36"`
	UserID        int64  `gorm:"index"`
	UpstreamToken string
	ProfileJSON   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ExpiresAt     time.Time `gorm:"index"`
}

// Profile decodes the stored snapshot. A corrupt snapshot yields the zero
// profile rather than an error; the snapshot is a convenience copy, not the
// source of truth.
func (s *Session) Profile() Profile {
	var p Profile
	if s == nil || s.ProfileJSON == "" {
		return p
	}
	_ = json.Unmarshal([]byte(s.ProfileJSON), &p)
	return p
}

// SetProfile encodes the snapshot onto the session row.
func (s *Session) SetProfile(p Profile) error {
	encoded, err := json.Marshal(p)
	if err != nil {
		return err
	}
	s.ProfileJSON = string(encoded)
	return nil
}

// Expired reports whether the session has passed its TTL.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
