// Package model defines the data structures used throughout the application.
package model

import "time"

// Visibility is the access class of a snippet.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the two known visibility values.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Snippet is the persisted record. Owner holds the creating user's ID and
// never changes after creation.
//
// Tags are stored as a JSON array in a single TEXT column, so the db tag
// points at the Tags type which implements sql.Scanner / driver.Valuer.
type Snippet struct {
	ID         string     `json:"id"         db:"id"`
	Owner      string     `json:"owner"      db:"user_id"`
	Title      string     `json:"title"      db:"title"`
	Code       string     `json:"code"       db:"code"`
	Language   string     `json:"language"   db:"language"`
	Tags       Tags       `json:"tags"       db:"tags"`
	Visibility Visibility `json:"visibility" db:"visibility"`
	CreatedAt  time.Time  `json:"createdAt"  db:"created_at"`
}

// OwnerRef is the presentation form of a snippet's owner.
type OwnerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SnippetView is the read-side shape: a Snippet with its owner resolved to a
// display name. It is never written back to the store.
type SnippetView struct {
	ID         string     `json:"id"`
	Owner      OwnerRef   `json:"owner"`
	Title      string     `json:"title"`
	Code       string     `json:"code"`
	Language   string     `json:"language"`
	Tags       Tags       `json:"tags"`
	Visibility Visibility `json:"visibility"`
	CreatedAt  time.Time  `json:"createdAt"`
}
