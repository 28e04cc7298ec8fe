// Package model defines domain entities for the application.
package model

import "time"

// Identity is a registered account. It is created on registration and never
// mutated afterwards.
type Identity struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
}
