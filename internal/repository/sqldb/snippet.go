package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/model"
	"github.com/sakif/snippet-manager/internal/repository"
)

// compile-time check that *DB implements repository.SnippetRepository
var _ repository.SnippetRepository = (*DB)(nil)

// snippetViewColumns selects a snippet joined with its owner's name. A LEFT
// JOIN keeps the snippet visible even if the owner row were ever missing;
// the name then reads as "".
const snippetViewColumns = `
	SELECT s.id, s.user_id, s.title, s.code, s.language, s.tags, s.visibility, s.created_at,
	       COALESCE(u.name, '') AS owner_name
	FROM snippets s
	LEFT JOIN users u ON u.id = s.user_id`

// snippetRow is the scan target for snippetViewColumns. sqlx maps the
// embedded Snippet's db tags and the extra owner_name column.
type snippetRow struct {
	model.Snippet
	OwnerName string `db:"owner_name"`
}

func (r snippetRow) view() model.SnippetView {
	return model.SnippetView{
		ID:         r.ID,
		Owner:      model.OwnerRef{ID: r.Owner, Name: r.OwnerName},
		Title:      r.Title,
		Code:       r.Code,
		Language:   r.Language,
		Tags:       r.Tags,
		Visibility: r.Visibility,
		CreatedAt:  r.CreatedAt,
	}
}

// Create inserts snippet and fills in its ID and CreatedAt.
//
// Owner must reference an existing user; a dangling owner is reported as
// apperror.ErrNotFound for the user.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()
	snippet.CreatedAt = now()
	if snippet.Tags == nil {
		snippet.Tags = model.Tags{}
	}

	_, err := db.conn.ExecContext(ctx, db.conn.Rebind(
		`INSERT INTO snippets (id, user_id, title, code, language, tags, visibility, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		snippet.ID,
		snippet.Owner,
		snippet.Title,
		snippet.Code,
		snippet.Language,
		snippet.Tags,
		snippet.Visibility,
		snippet.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", snippet.Owner)
		}
		return fmt.Errorf("sqldb: creating snippet: %w", err)
	}

	return nil
}

// GetByID returns the snippet with its owner's name resolved.
//
// IDs are xids. Anything that does not parse as one cannot exist, so it is
// reported as not found without a round trip to the database.
func (db *DB) GetByID(ctx context.Context, id string) (*model.SnippetView, error) {
	if _, err := xid.FromString(id); err != nil {
		return nil, apperror.NotFound("snippet", id)
	}

	var row snippetRow
	err := db.conn.GetContext(ctx, &row, db.conn.Rebind(snippetViewColumns+` WHERE s.id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqldb: getting snippet %s: %w", id, err)
	}

	v := row.view()
	return &v, nil
}

// ListPublic returns public snippets, newest first. Ties on created_at are
// broken by id so the order is total and repeatable.
//
// opts.Limit <= 0 means no limit. OFFSET needs a LIMIT in SQLite, so an
// unbounded page uses the largest 32-bit value instead of omitting it.
func (db *DB) ListPublic(ctx context.Context, opts repository.ListOptions) ([]model.SnippetView, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = math.MaxInt32
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	var rows []snippetRow
	err := db.conn.SelectContext(ctx, &rows, db.conn.Rebind(snippetViewColumns+`
		WHERE s.visibility = ?
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT ? OFFSET ?`),
		model.VisibilityPublic, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing public snippets: %w", err)
	}

	views := make([]model.SnippetView, 0, len(rows))
	for _, r := range rows {
		views = append(views, r.view())
	}
	return views, nil
}

// now is the single source of persisted timestamps.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
