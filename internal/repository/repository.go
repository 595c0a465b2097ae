// Package repository declares the storage contracts the service layer
// depends on. Implementations live in sub-packages.
package repository

import (
	"context"

	"github.com/sakif/snippet-manager/internal/model"
)

// ListOptions pages a listing. Limit 0 means "no limit".
type ListOptions struct {
	Limit  int
	Offset int
}

// SnippetRepository persists snippets.
//
// GetByID and ListPublic return the read-side view with the owner's display
// name resolved. GetByID reports both unknown and malformed IDs as
// apperror.ErrNotFound.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.SnippetView, error)
	ListPublic(ctx context.Context, opts ListOptions) ([]model.SnippetView, error)
}

// UserRepository persists user accounts. CreateUser reports a duplicate
// email as apperror.ErrConflict.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}
