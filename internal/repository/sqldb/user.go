package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/model"
	"github.com/sakif/snippet-manager/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `SELECT id, name, email, password_hash, created_at FROM users`

// CreateUser inserts user and fills in its ID and CreatedAt. Emails are
// compared exactly; callers normalise case before calling.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = now()

	_, err := db.conn.ExecContext(ctx, db.conn.Rebind(
		`INSERT INTO users (id, name, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`),
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.AlreadyExists("user", "email", user.Email)
		}
		return fmt.Errorf("sqldb: inserting user %s: %w", user.Email, err)
	}

	return nil
}

// GetUserByID returns apperror.ErrNotFound if no user has that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, "id", id)
}

// GetUserByEmail returns apperror.ErrNotFound if no user has that email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, "email", email)
}

// getUser looks a user up by column. column is always a literal from this
// file, never caller input.
func (db *DB) getUser(ctx context.Context, column, value string) (*model.User, error) {
	var u model.User
	err := db.conn.GetContext(ctx, &u, db.conn.Rebind(userColumns+` WHERE `+column+` = ?`), value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", value)
		}
		return nil, fmt.Errorf("sqldb: getting user by %s: %w", column, err)
	}
	return &u, nil
}
