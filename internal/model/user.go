// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account with per-tier refine quotas.
// PasswordHash holds an argon2id PHC string; the plaintext password
// never reaches this struct.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"`
	BasicRemaining int       `json:"basic_remaining"`
	ProRemaining   int       `json:"pro_remaining"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Remaining returns the quota counter for the given tier.
func (u *User) Remaining(tier Tier) int {
	if tier == TierPro {
		return u.ProRemaining
	}
	return u.BasicRemaining
}
