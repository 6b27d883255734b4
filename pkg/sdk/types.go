package boardsearch

import (
	"time"

	"github.com/kailas-cloud/boardsearch/internal/domain/corpus"
	domhistory "github.com/kailas-cloud/boardsearch/internal/domain/history"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/result"
)

// Filter, result and insight types shared with the HTTP API.
type (
	Filters     = filter.Spec
	DateRange   = filter.DateRange
	Status      = filter.Status
	Priority    = filter.Priority
	SortField   = order.Field
	SortOrder   = order.Direction
	Result      = result.Result
	Pagination  = result.Pagination
	Suggestions = domhistory.Suggestions
	Stats       = domhistory.Stats
	Visibility  = corpus.Visibility
)

// Status constants.
const (
	StatusAll       = filter.StatusAll
	StatusOpen      = filter.StatusOpen
	StatusCompleted = filter.StatusCompleted
	StatusOverdue   = filter.StatusOverdue
)

// Priority constants.
const (
	PriorityLow    = filter.PriorityLow
	PriorityMedium = filter.PriorityMedium
	PriorityHigh   = filter.PriorityHigh
	PriorityUrgent = filter.PriorityUrgent
)

// Sort constants.
const (
	SortRelevance = order.Relevance
	SortTitle     = order.Title
	SortCreatedAt = order.CreatedAt
	SortUpdatedAt = order.UpdatedAt
	SortDueDate   = order.DueDate
	SortPriority  = order.Priority
	Asc           = order.Asc
	Desc          = order.Desc
)

// Visibility constants.
const (
	Private = corpus.Private
	Team    = corpus.Team
	Public  = corpus.Public
)

// Query is a search request. Zero values take the defaults:
// relevance, desc, page 1, limit 20.
type Query struct {
	Text      string
	Filters   Filters
	SortBy    SortField
	SortOrder SortOrder
	Page      int
	Limit     int
}

// SearchPage is one page of merged results.
type SearchPage struct {
	Results    []Result
	Pagination Pagination
	SearchTime time.Duration
	SearchID   string
}

// Record is one stored search.
type Record struct {
	ID         string
	Query      string
	Filters    Filters
	SortBy     SortField
	SortOrder  SortOrder
	Boards     []Result
	Lists      []Result
	Cards      []Result
	Total      int
	SearchTime time.Duration
	SavedAt    *time.Time // nil when not saved
	CreatedAt  time.Time
}

// HistoryPage is one page of stored searches.
type HistoryPage struct {
	Records    []Record
	Pagination Pagination
}

// Board is a corpus board snapshot. Empty Visibility means private.
type Board struct {
	ID          string
	Title       string
	Description string
	Owner       string
	Members     []string
	Visibility  Visibility
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// List is a corpus list snapshot.
type List struct {
	ID        string
	Title     string
	Board     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Label is a named card label.
type Label struct {
	Name  string
	Color string
}

// Card is a corpus card snapshot. Empty Priority means medium.
type Card struct {
	ID              string
	Title           string
	Description     string
	List            string
	Board           string
	Assignees       []string
	Labels          []Label
	Priority        Priority
	DueDate         *time.Time
	IsCompleted     bool
	AttachmentCount int
	CommentCount    int
	ChecklistCount  int
	Tags            []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// User is a corpus user snapshot used for assignee display names.
type User struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
}

func recordFromDomain(rec *domhistory.Record) Record {
	s := rec.Results()
	return Record{
		ID:         rec.ID(),
		Query:      rec.Query(),
		Filters:    rec.Filters(),
		SortBy:     rec.SortBy(),
		SortOrder:  rec.Direction(),
		Boards:     s.Boards,
		Lists:      s.Lists,
		Cards:      s.Cards,
		Total:      s.TotalResults,
		SearchTime: time.Duration(rec.SearchTime()) * time.Millisecond,
		SavedAt:    rec.SavedAt(),
		CreatedAt:  rec.CreatedAt(),
	}
}

func cardToDomain(c *Card) (corpus.Card, error) {
	labels := make([]corpus.Label, len(c.Labels))
	for i, l := range c.Labels {
		labels[i] = corpus.Label{Name: l.Name, Color: l.Color}
	}
	return corpus.NewCard(corpus.CardFields{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		List:            c.List,
		Board:           c.Board,
		Assignees:       c.Assignees,
		Labels:          labels,
		Priority:        c.Priority,
		DueDate:         c.DueDate,
		IsCompleted:     c.IsCompleted,
		AttachmentCount: c.AttachmentCount,
		CommentCount:    c.CommentCount,
		ChecklistCount:  c.ChecklistCount,
		Tags:            c.Tags,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	})
}
