package corpus

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/boardsearch/internal/domain"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/score"
)

// Label is a coloured card label.
type Label struct {
	Name  string
	Color string
}

// CardFields carries every attribute of a card.
type CardFields struct {
	ID              string
	Title           string
	Description     string
	List            string
	Board           string
	Assignees       []string
	Labels          []Label
	Priority        filter.Priority
	DueDate         *time.Time
	IsCompleted     bool
	AttachmentCount int
	CommentCount    int
	ChecklistCount  int
	Tags            []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Card is a work item inside a list.
type Card struct {
	f CardFields
}

// NewCard validates and creates a Card. Empty priority defaults to medium.
func NewCard(f CardFields) (Card, error) {
	if err := validateID("card id", f.ID); err != nil {
		return Card{}, err
	}
	if err := validateID("card list", f.List); err != nil {
		return Card{}, err
	}
	if err := validateID("card board", f.Board); err != nil {
		return Card{}, err
	}
	for i, a := range f.Assignees {
		if err := validateID(fmt.Sprintf("card assignees[%d]", i), a); err != nil {
			return Card{}, err
		}
	}
	if strings.TrimSpace(f.Title) == "" {
		return Card{}, fmt.Errorf("%w: card title is required", domain.ErrValidation)
	}
	if f.Priority == "" {
		f.Priority = filter.PriorityMedium
	}
	if !f.Priority.IsValid() {
		return Card{}, fmt.Errorf("%w: card priority %q", domain.ErrValidation, f.Priority)
	}
	if f.AttachmentCount < 0 || f.CommentCount < 0 || f.ChecklistCount < 0 {
		return Card{}, fmt.Errorf("%w: card collection counts must be non-negative", domain.ErrValidation)
	}

	f.Assignees = slices.Clone(f.Assignees)
	f.Labels = slices.Clone(f.Labels)
	f.Tags = slices.Clone(f.Tags)
	if f.DueDate != nil {
		d := *f.DueDate
		f.DueDate = &d
	}
	return Card{f: f}, nil
}

// ReconstructCard creates a Card without validation (storage hydration).
func ReconstructCard(f CardFields) Card { return Card{f: f} }

// Fields returns a copy of the card attributes.
func (c *Card) Fields() CardFields { return c.f }

// ID returns the card identifier.
func (c *Card) ID() string { return c.f.ID }

// Title returns the card title.
func (c *Card) Title() string { return c.f.Title }

// Description returns the card description.
func (c *Card) Description() string { return c.f.Description }

// List returns the parent list ID.
func (c *Card) List() string { return c.f.List }

// Board returns the parent board ID.
func (c *Card) Board() string { return c.f.Board }

// Assignees returns assigned user IDs.
func (c *Card) Assignees() []string { return c.f.Assignees }

// Labels returns the card labels.
func (c *Card) Labels() []Label { return c.f.Labels }

// Priority returns the card priority.
func (c *Card) Priority() filter.Priority { return c.f.Priority }

// DueDate returns the due date, nil when unset.
func (c *Card) DueDate() *time.Time { return c.f.DueDate }

// IsCompleted reports whether the card is done.
func (c *Card) IsCompleted() bool { return c.f.IsCompleted }

// Tags returns free-form tags.
func (c *Card) Tags() []string { return c.f.Tags }

// CreatedAt returns the creation time.
func (c *Card) CreatedAt() time.Time { return c.f.CreatedAt }

// UpdatedAt returns the last modification time.
func (c *Card) UpdatedAt() time.Time { return c.f.UpdatedAt }

// LabelNames returns label names in order.
func (c *Card) LabelNames() []string {
	if len(c.f.Labels) == 0 {
		return nil
	}
	names := make([]string, len(c.f.Labels))
	for i, l := range c.f.Labels {
		names[i] = l.Name
	}
	return names
}

// Score evaluates the card against query.
func (c *Card) Score(query string, now time.Time) score.Outcome {
	return score.Evaluate(c, query, now)
}

// MatchesText reports whether title, description or any tag contains query.
func (c *Card) MatchesText(query string) bool {
	q := strings.ToLower(query)
	if containsFold(c.f.Title, q) || containsFold(c.f.Description, q) {
		return true
	}
	for _, t := range c.f.Tags {
		if containsFold(t, q) {
			return true
		}
	}
	return false
}

// Values implements filter.Target.
func (c *Card) Values(f filter.Field) []string {
	switch f {
	case filter.FieldBoard:
		return []string{c.f.Board}
	case filter.FieldList:
		return []string{c.f.List}
	case filter.FieldAssignees:
		return c.f.Assignees
	case filter.FieldLabels:
		return c.LabelNames()
	case filter.FieldPriority:
		return []string{string(c.f.Priority)}
	}
	return nil
}

// Time implements filter.Target.
func (c *Card) Time(f filter.Field) (time.Time, bool) {
	if f == filter.FieldDueDate && c.f.DueDate != nil {
		return *c.f.DueDate, true
	}
	return time.Time{}, false
}

// Flag implements filter.Target.
func (c *Card) Flag(f filter.Field) bool {
	return f == filter.FieldCompleted && c.f.IsCompleted
}

// Count implements filter.Target.
func (c *Card) Count(f filter.Field) int {
	switch f {
	case filter.FieldAttachments:
		return c.f.AttachmentCount
	case filter.FieldComments:
		return c.f.CommentCount
	case filter.FieldChecklists:
		return c.f.ChecklistCount
	}
	return 0
}

// containsFold checks s for an already lower-cased needle.
func containsFold(s, lowerNeedle string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerNeedle)
}

// SortKeys returns the card's sortable attributes.
func (c *Card) SortKeys() order.Keys {
	k := order.Keys{
		Title:     c.f.Title,
		CreatedAt: c.f.CreatedAt,
		UpdatedAt: c.f.UpdatedAt,
		Priority:  c.f.Priority.Rank(),
	}
	if c.f.DueDate != nil {
		k.DueDate = *c.f.DueDate
	}
	return k
}
