// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Email is unique across users and is the login identifier. PasswordHash is
// the full bcrypt output (salt and cost included) and is never serialized.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
