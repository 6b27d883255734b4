package search

import (
	"cmp"
	"slices"
	"time"

	"github.com/kailas-cloud/boardsearch/internal/domain/corpus"
	"github.com/kailas-cloud/boardsearch/internal/domain/entity"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/candidate"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/request"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/result"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/score"
)

// scoreAll scores every candidate and returns results in cards, lists,
// boards order.
func scoreAll(set candidate.Set, query string, now time.Time) []result.Result {
	out := make([]result.Result, 0, set.Len())
	for i := range set.Cards {
		c := &set.Cards[i]
		out = append(out, fromCard(c, c.Card.Score(query, now)))
	}
	for i := range set.Lists {
		l := &set.Lists[i]
		out = append(out, fromList(l, l.List.Score(query, now)))
	}
	for i := range set.Boards {
		b := &set.Boards[i]
		out = append(out, fromBoard(b, b.Score(query, now)))
	}
	return out
}

func fromCard(c *candidate.Card, o score.Outcome) result.Result {
	list, board := c.List, c.Board
	return result.Result{
		Type:        entity.Card,
		ID:          c.Card.ID(),
		Title:       c.Card.Title(),
		Description: c.Card.Description(),
		List:        &list,
		Board:       &board,
		Assignees:   c.Assignees,
		Labels:      c.Card.LabelNames(),
		Priority:    c.Card.Priority(),
		DueDate:     c.Card.DueDate(),
		Relevance:   o.Score,
		MatchType:   o.MatchType,
		Highlights:  o.Highlights,
		URL:         result.CardURL(c.Card.Board(), c.Card.ID()),
		CreatedAt:   c.Card.CreatedAt(),
		UpdatedAt:   c.Card.UpdatedAt(),
	}
}

func fromList(l *candidate.List, o score.Outcome) result.Result {
	board := l.Board
	return result.Result{
		Type:       entity.List,
		ID:         l.List.ID(),
		Title:      l.List.Title(),
		Board:      &board,
		Relevance:  o.Score,
		MatchType:  o.MatchType,
		Highlights: o.Highlights,
		URL:        result.BoardURL(l.List.Board()),
		CreatedAt:  l.List.CreatedAt(),
		UpdatedAt:  l.List.UpdatedAt(),
	}
}

func fromBoard(b *corpus.Board, o score.Outcome) result.Result {
	return result.Result{
		Type:        entity.Board,
		ID:          b.ID(),
		Title:       b.Title(),
		Description: b.Description(),
		Relevance:   o.Score,
		MatchType:   o.MatchType,
		Highlights:  o.Highlights,
		URL:         result.BoardURL(b.ID()),
		CreatedAt:   b.CreatedAt(),
		UpdatedAt:   b.UpdatedAt(),
	}
}

// rank orders merged results in place. Relevance is always highest first
// with ties going to the most recently updated; other fields honour d.
// The sort is stable so equal keys keep cards, lists, boards order.
func rank(results []result.Result, f order.Field, d order.Direction) {
	if f == order.Relevance {
		slices.SortStableFunc(results, func(a, b result.Result) int {
			if c := cmp.Compare(b.Relevance, a.Relevance); c != 0 {
				return c
			}
			return b.UpdatedAt.Compare(a.UpdatedAt)
		})
		return
	}
	slices.SortStableFunc(results, func(a, b result.Result) int {
		return d.Apply(order.Compare(f, keys(&a), keys(&b)))
	})
}

func keys(r *result.Result) order.Keys {
	k := order.Keys{
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Priority:  r.Priority.Rank(),
	}
	if r.DueDate != nil {
		k.DueDate = *r.DueDate
	}
	return k
}

// paginate returns the requested page of results. Pages past the end
// are empty.
func paginate(results []result.Result, req *request.Request) ([]result.Result, result.Pagination) {
	lo, hi := result.Window(req.Offset(), req.Limit(), len(results))
	return results[lo:hi], result.NewPagination(req.Page(), req.Limit(), len(results))
}
