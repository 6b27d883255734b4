// Package corpus holds read-only snapshots of the boards, lists, cards and
// users that search runs over. They are owned by the workspace CRUD layer.
package corpus

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/boardsearch/internal/domain"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/score"
)

// Visibility controls who besides the owner and members may see a board.
type Visibility string

// Visibility constants.
const (
	Private Visibility = "private"
	Team    Visibility = "team"
	Public  Visibility = "public"
)

// IsValid checks if the visibility is one of the supported values.
func (v Visibility) IsValid() bool {
	return v == Private || v == Team || v == Public
}

// Board is a workspace board.
type Board struct {
	id          string
	title       string
	description string
	owner       string
	members     []string
	visibility  Visibility
	createdAt   time.Time
	updatedAt   time.Time
}

// NewBoard validates and creates a Board. Empty visibility defaults to private.
func NewBoard(
	id, title, description, owner string, members []string,
	visibility Visibility, createdAt, updatedAt time.Time,
) (Board, error) {
	if err := validateID("board id", id); err != nil {
		return Board{}, err
	}
	if err := validateID("board owner", owner); err != nil {
		return Board{}, err
	}
	for i, m := range members {
		if err := validateID(fmt.Sprintf("board members[%d]", i), m); err != nil {
			return Board{}, err
		}
	}
	if strings.TrimSpace(title) == "" {
		return Board{}, fmt.Errorf("%w: board title is required", domain.ErrValidation)
	}
	if visibility == "" {
		visibility = Private
	}
	if !visibility.IsValid() {
		return Board{}, fmt.Errorf("%w: board visibility %q", domain.ErrValidation, visibility)
	}
	return Board{
		id: id, title: title, description: description, owner: owner,
		members: slices.Clone(members), visibility: visibility,
		createdAt: createdAt, updatedAt: updatedAt,
	}, nil
}

// ReconstructBoard creates a Board without validation (storage hydration).
func ReconstructBoard(
	id, title, description, owner string, members []string,
	visibility Visibility, createdAt, updatedAt time.Time,
) Board {
	return Board{
		id: id, title: title, description: description, owner: owner,
		members: members, visibility: visibility,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the board identifier.
func (b *Board) ID() string { return b.id }

// Title returns the board title.
func (b *Board) Title() string { return b.title }

// Description returns the board description.
func (b *Board) Description() string { return b.description }

// Owner returns the owning user ID.
func (b *Board) Owner() string { return b.owner }

// Members returns member user IDs.
func (b *Board) Members() []string { return b.members }

// Visibility returns the board visibility.
func (b *Board) Visibility() Visibility { return b.visibility }

// CreatedAt returns the creation time.
func (b *Board) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last modification time.
func (b *Board) UpdatedAt() time.Time { return b.updatedAt }

// Tags is always empty for boards.
func (b *Board) Tags() []string { return nil }

// LabelNames is always empty for boards.
func (b *Board) LabelNames() []string { return nil }

// VisibleTo reports whether user may see the board and everything on it.
// Team boards are treated like private ones for non-members.
func (b *Board) VisibleTo(user string) bool {
	if b.visibility == Public || b.owner == user {
		return true
	}
	return slices.Contains(b.members, user)
}

// Score evaluates the board against query.
func (b *Board) Score(query string, now time.Time) score.Outcome {
	return score.Evaluate(b, query, now)
}

// Values implements filter.Target. Boards carry no filterable fields.
func (b *Board) Values(filter.Field) []string { return nil }

// Time implements filter.Target.
func (b *Board) Time(filter.Field) (time.Time, bool) { return time.Time{}, false }

// Flag implements filter.Target.
func (b *Board) Flag(filter.Field) bool { return false }

// Count implements filter.Target.
func (b *Board) Count(filter.Field) int { return 0 }

func validateID(what, id string) error {
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("%w: %s %q is not a valid id", domain.ErrValidation, what, id)
	}
	return nil
}

// MatchesText reports whether title or description contains query.
func (b *Board) MatchesText(query string) bool {
	q := strings.ToLower(query)
	return containsFold(b.title, q) || containsFold(b.description, q)
}

// SortKeys returns the board's sortable attributes.
func (b *Board) SortKeys() order.Keys {
	return order.Keys{Title: b.title, CreatedAt: b.createdAt, UpdatedAt: b.updatedAt}
}
