// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services take repository interfaces, not concrete stores, so tests inject
// in-memory fakes and the server injects *sqldb.DB. Nothing in this package
// knows about HTTP or SQL.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippet-manager/internal/access"
	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/metrics"
	"github.com/sakif/snippet-manager/internal/model"
	"github.com/sakif/snippet-manager/internal/repository"
	"github.com/sakif/snippet-manager/internal/validate"
)

// MaxListLimit caps a single page of the public listing. A request with no
// limit is unbounded.
const MaxListLimit = 100

const msgSnippetNotFound = "Snippet not found"

// CreateSnippetInput is what a caller supplies to create a snippet. The
// owner is never part of the input; it always comes from the verified
// identity.
type CreateSnippetInput struct {
	Title      string           `json:"title"      validate:"required"`
	Code       string           `json:"code"       validate:"required"`
	Language   string           `json:"language"   validate:"required"`
	Tags       []string         `json:"tags"`
	Visibility model.Visibility `json:"visibility" validate:"oneof=public private"`
}

var createSnippetMessages = map[string]string{
	"title":      "Title is required",
	"code":       "Code content is required",
	"language":   "Language is required",
	"visibility": "Visibility must be either public or private",
}

// SnippetService handles business logic for code snippets.
type SnippetService struct {
	repo   repository.SnippetRepository
	logger *slog.Logger
}

// NewSnippetService creates a new SnippetService.
func NewSnippetService(repo repository.SnippetRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates in and stores a new snippet owned by ownerID.
//
// Normalisation happens before validation:
//   - title and language are trimmed; code is stored verbatim
//   - an omitted visibility becomes private
//   - tags are trimmed, blank tags dropped, and nil becomes []
//
// Every failing field is reported in a single validation error.
func (s *SnippetService) Create(ctx context.Context, ownerID string, in CreateSnippetInput) (*model.Snippet, error) {
	if ownerID == "" {
		return nil, apperror.Unauthenticated("No token, authorization denied")
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Language = strings.TrimSpace(in.Language)
	if in.Visibility == "" {
		in.Visibility = model.VisibilityPrivate
	}

	if err := validate.Struct(&in, createSnippetMessages); err != nil {
		return nil, err
	}

	snippet := &model.Snippet{
		Owner:      ownerID,
		Title:      in.Title,
		Code:       in.Code,
		Language:   in.Language,
		Tags:       cleanTags(in.Tags),
		Visibility: in.Visibility,
	}

	if err := s.repo.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("owner", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	metrics.SnippetsCreatedTotal.WithLabelValues(string(snippet.Visibility)).Inc()
	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("owner", ownerID),
		slog.String("visibility", string(snippet.Visibility)),
	)

	return snippet, nil
}

// Get fetches a snippet and applies the access policy for viewerID. An
// empty viewerID is an anonymous caller.
//
// Unknown and malformed IDs are both apperror.ErrNotFound; a private
// snippet read by anyone but its owner is apperror.ErrForbidden.
func (s *SnippetService) Get(ctx context.Context, id, viewerID string) (*model.SnippetView, error) {
	snippet, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: msgSnippetNotFound, Field: "id"}
		}
		s.logger.Error("failed to fetch snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("fetching snippet: %w", err)
	}

	if err := access.Authorize(snippet, viewerID); err != nil {
		metrics.AccessDeniedTotal.Inc()
		s.logger.Debug("private snippet access denied",
			slog.String("id", snippet.ID),
			slog.Bool("anonymous", viewerID == ""),
		)
		return nil, err
	}

	return snippet, nil
}

// ListPublic returns public snippets newest first.
//
// limit <= 0 returns every public snippet; a positive limit is capped at
// MaxListLimit. Negative offsets are treated as 0.
func (s *SnippetService) ListPublic(ctx context.Context, limit, offset int) ([]model.SnippetView, error) {
	if limit < 0 {
		limit = 0
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	snippets, err := s.repo.ListPublic(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list public snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing public snippets: %w", err)
	}

	return snippets, nil
}

func cleanTags(in []string) model.Tags {
	out := make(model.Tags, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
