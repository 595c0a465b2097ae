// Package access decides who may read a snippet.
//
// Public snippets are readable by anyone, private snippets only by their
// owner.
package access

import (
	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/model"
)

// Decision is the outcome of a policy check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// DeniedMessage is the single outward message for every denial, whether the
// caller is anonymous or another user.
const DeniedMessage = "Access denied: Private snippet"

// Decide returns Allow when visibility is public, or when viewerID is
// non-empty and equal to ownerID. Everything else, including unknown
// visibility values, is denied.
func Decide(visibility model.Visibility, ownerID, viewerID string) Decision {
	switch visibility {
	case model.VisibilityPublic:
		return Allow
	case model.VisibilityPrivate:
		if viewerID != "" && viewerID == ownerID {
			return Allow
		}
	}
	return Deny
}

// Authorize applies Decide to a resolved snippet and converts a denial into
// an apperror.ErrForbidden.
func Authorize(s *model.SnippetView, viewerID string) error {
	if Decide(s.Visibility, s.Owner.ID, viewerID) == Allow {
		return nil
	}
	return apperror.Forbidden(DeniedMessage)
}
