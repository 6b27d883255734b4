// Package candidate holds the per-type entity sets returned by the gateway,
// with parent references already resolved.
package candidate

import (
	"time"

	"github.com/kailas-cloud/boardsearch/internal/domain/corpus"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/result"
)

// Query is one gateway lookup on behalf of a user.
type Query struct {
	User      string
	Text      string
	Filters   filter.Spec
	SortBy    order.Field
	Direction order.Direction
	Now       time.Time
}

// Card is a card candidate with its list, board and assignees resolved.
type Card struct {
	Card      corpus.Card
	List      result.Ref
	Board     result.Ref
	Assignees []result.UserRef
}

// List is a list candidate with its board resolved.
type List struct {
	List  corpus.List
	Board result.Ref
}

// Set is the capped, pre-sorted output of one gateway query.
type Set struct {
	Cards  []Card
	Lists  []List
	Boards []corpus.Board
}

// Len returns the total number of candidates.
func (s *Set) Len() int { return len(s.Cards) + len(s.Lists) + len(s.Boards) }
