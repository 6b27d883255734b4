package history

import (
	"github.com/kailas-cloud/boardsearch/internal/domain/entity"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/result"
)

// Caps bounds how many results of each type a record keeps.
type Caps struct {
	Boards int
	Lists  int
	Cards  int
}

// DefaultCaps matches the gateway candidate caps.
var DefaultCaps = Caps{Boards: 20, Lists: 50, Cards: 100}

// Summary is the per-type result snapshot stored with a record.
// TotalResults always equals the sum of the three slice lengths.
type Summary struct {
	Boards       []result.Result
	Lists        []result.Result
	Cards        []result.Result
	TotalResults int
}

// NewSummary splits results by type, keeping at most caps of each in order.
func NewSummary(results []result.Result, caps Caps) Summary {
	var s Summary
	for _, r := range results {
		switch r.Type {
		case entity.Board:
			if len(s.Boards) < caps.Boards {
				s.Boards = append(s.Boards, r)
			}
		case entity.List:
			if len(s.Lists) < caps.Lists {
				s.Lists = append(s.Lists, r)
			}
		case entity.Card:
			if len(s.Cards) < caps.Cards {
				s.Cards = append(s.Cards, r)
			}
		}
	}
	s.TotalResults = len(s.Boards) + len(s.Lists) + len(s.Cards)
	return s
}
