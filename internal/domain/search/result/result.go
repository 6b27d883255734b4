package result

import (
	"math"
	"time"

	"github.com/kailas-cloud/boardsearch/internal/domain/entity"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/score"
)

// Ref is a resolved parent reference.
type Ref struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// UserRef is a resolved assignee.
type UserRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Result is a single scored search hit. Optional fields are set per entity type.
type Result struct {
	Type        entity.Type     `json:"type"`
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	List        *Ref            `json:"list,omitempty"`
	Board       *Ref            `json:"board,omitempty"`
	Assignees   []UserRef       `json:"assignees,omitempty"`
	Labels      []string        `json:"labels,omitempty"`
	Priority    filter.Priority `json:"priority,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Relevance   float64         `json:"relevance"`
	MatchType   score.MatchType `json:"matchType"`
	Highlights  []string        `json:"highlights"`
	URL         string          `json:"url"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// BoardURL is the client route of a board.
func BoardURL(boardID string) string { return "/board/" + boardID }

// CardURL is the client route of a card.
func CardURL(boardID, cardID string) string { return "/board/" + boardID + "/card/" + cardID }

// Pagination describes one page of a larger sequence.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes the page count for total items at limit per page.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Offset returns the index of the first item on page at limit per page.
// Offsets too large for an int saturate at math.MaxInt, which is past the
// end of any sequence.
func Offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// Window returns the [lo, hi) bounds of the limit items starting at offset
// within n items. An offset at or beyond n yields lo == hi == n.
func Window(offset, limit, n int) (lo, hi int) {
	lo = min(max(offset, 0), n)
	return lo, lo + min(max(limit, 0), n-lo)
}
