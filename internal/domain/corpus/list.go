package corpus

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/boardsearch/internal/domain"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/score"
)

// List is a column on a board.
type List struct {
	id        string
	title     string
	board     string
	createdAt time.Time
	updatedAt time.Time
}

// NewList validates and creates a List.
func NewList(id, title, board string, createdAt, updatedAt time.Time) (List, error) {
	if err := validateID("list id", id); err != nil {
		return List{}, err
	}
	if err := validateID("list board", board); err != nil {
		return List{}, err
	}
	if strings.TrimSpace(title) == "" {
		return List{}, fmt.Errorf("%w: list title is required", domain.ErrValidation)
	}
	return List{id: id, title: title, board: board, createdAt: createdAt, updatedAt: updatedAt}, nil
}

// ReconstructList creates a List without validation (storage hydration).
func ReconstructList(id, title, board string, createdAt, updatedAt time.Time) List {
	return List{id: id, title: title, board: board, createdAt: createdAt, updatedAt: updatedAt}
}

// ID returns the list identifier.
func (l *List) ID() string { return l.id }

// Title returns the list title.
func (l *List) Title() string { return l.title }

// Description is always empty for lists.
func (l *List) Description() string { return "" }

// Board returns the parent board ID.
func (l *List) Board() string { return l.board }

// CreatedAt returns the creation time.
func (l *List) CreatedAt() time.Time { return l.createdAt }

// UpdatedAt returns the last modification time.
func (l *List) UpdatedAt() time.Time { return l.updatedAt }

// Tags is always empty for lists.
func (l *List) Tags() []string { return nil }

// LabelNames is always empty for lists.
func (l *List) LabelNames() []string { return nil }

// Score evaluates the list against query.
func (l *List) Score(query string, now time.Time) score.Outcome {
	return score.Evaluate(l, query, now)
}

// Values implements filter.Target.
func (l *List) Values(f filter.Field) []string {
	if f == filter.FieldBoard {
		return []string{l.board}
	}
	return nil
}

// Time implements filter.Target.
func (l *List) Time(filter.Field) (time.Time, bool) { return time.Time{}, false }

// Flag implements filter.Target.
func (l *List) Flag(filter.Field) bool { return false }

// Count implements filter.Target.
func (l *List) Count(filter.Field) int { return 0 }

// MatchesText reports whether the title contains query.
func (l *List) MatchesText(query string) bool {
	return containsFold(l.title, strings.ToLower(query))
}

// SortKeys returns the list's sortable attributes.
func (l *List) SortKeys() order.Keys {
	return order.Keys{Title: l.title, CreatedAt: l.createdAt, UpdatedAt: l.updatedAt}
}
