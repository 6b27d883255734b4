package corpus

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	domcorpus "github.com/kailas-cloud/boardsearch/internal/domain/corpus"
	"github.com/kailas-cloud/boardsearch/internal/domain/entity"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/candidate"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/result"
)

// Find returns capped, pre-sorted candidates of every type visible to the
// user that match the text and filters. The three per-type reads run
// concurrently once visible boards are known.
func (r *Repo) Find(ctx context.Context, q candidate.Query) (candidate.Set, error) {
	boards, err := r.visibleBoards(ctx, q.User)
	if err != nil {
		return candidate.Set{}, err
	}
	if len(boards) == 0 {
		return candidate.Set{}, nil
	}

	refs := make(map[string]result.Ref, len(boards))
	for i := range boards {
		refs[boards[i].ID()] = result.Ref{ID: boards[i].ID(), Title: boards[i].Title()}
	}

	// Lists and cards only live on boards the filter could accept.
	scope := boards
	if len(q.Filters.Boards) > 0 {
		scope = slices.DeleteFunc(slices.Clone(boards), func(b domcorpus.Board) bool {
			return !slices.Contains(q.Filters.Boards, b.ID())
		})
	}

	var set candidate.Set
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cards, err := r.findCards(gctx, q, scope, refs)
		set.Cards = cards
		return err
	})
	g.Go(func() error {
		lists, err := r.findLists(gctx, q, scope, refs)
		set.Lists = lists
		return err
	})
	g.Go(func() error {
		set.Boards = r.findBoards(q, boards)
		return nil
	})
	if err := g.Wait(); err != nil {
		return candidate.Set{}, err
	}
	return set, nil
}

func (r *Repo) findCards(
	ctx context.Context, q candidate.Query, scope []domcorpus.Board, refs map[string]result.Ref,
) ([]candidate.Card, error) {
	all, err := r.loadCards(ctx, scope)
	if err != nil {
		return nil, err
	}

	pred := filter.Build(q.Filters, entity.Card, q.Now)
	matched := slices.DeleteFunc(all, func(c domcorpus.Card) bool {
		_, visible := refs[c.Board()]
		return !visible || !c.MatchesText(q.Text) || !pred.Matches(&c)
	})
	presort(matched, (*domcorpus.Card).SortKeys, q.SortBy, q.Direction)
	matched = capped(matched, r.caps.Cards)
	if len(matched) == 0 {
		return []candidate.Card{}, nil
	}

	listTitles, names, err := r.cardRefs(ctx, matched)
	if err != nil {
		return nil, err
	}

	out := make([]candidate.Card, len(matched))
	for i, c := range matched {
		cc := candidate.Card{
			Card:  c,
			List:  result.Ref{ID: c.List(), Title: listTitles[c.List()]},
			Board: refs[c.Board()],
		}
		for _, a := range c.Assignees() {
			if n, ok := names[a]; ok {
				cc.Assignees = append(cc.Assignees, result.UserRef{ID: a, DisplayName: n})
			}
		}
		out[i] = cc
	}
	return out, nil
}

// cardRefs resolves list titles and assignee display names for cards.
func (r *Repo) cardRefs(ctx context.Context, cards []domcorpus.Card) (map[string]string, map[string]string, error) {
	var listIDs, userIDs []string
	for i := range cards {
		listIDs = append(listIDs, cards[i].List())
		userIDs = append(userIDs, cards[i].Assignees()...)
	}
	slices.Sort(listIDs)
	slices.Sort(userIDs)

	lists, err := r.listsByID(ctx, slices.Compact(listIDs))
	if err != nil {
		return nil, nil, err
	}
	titles := make(map[string]string, len(lists))
	for i := range lists {
		titles[lists[i].ID()] = lists[i].Title()
	}

	users, err := r.usersByID(ctx, slices.Compact(userIDs))
	if err != nil {
		return nil, nil, fmt.Errorf("resolve assignees: %w", err)
	}
	names := make(map[string]string, len(users))
	for i := range users {
		names[users[i].ID()] = users[i].DisplayName()
	}
	return titles, names, nil
}

func (r *Repo) findLists(
	ctx context.Context, q candidate.Query, scope []domcorpus.Board, refs map[string]result.Ref,
) ([]candidate.List, error) {
	all, err := r.loadLists(ctx, scope)
	if err != nil {
		return nil, err
	}

	pred := filter.Build(q.Filters, entity.List, q.Now)
	matched := slices.DeleteFunc(all, func(l domcorpus.List) bool {
		_, visible := refs[l.Board()]
		return !visible || !l.MatchesText(q.Text) || !pred.Matches(&l)
	})
	presort(matched, (*domcorpus.List).SortKeys, q.SortBy, q.Direction)
	matched = capped(matched, r.caps.Lists)

	out := make([]candidate.List, len(matched))
	for i, l := range matched {
		out[i] = candidate.List{List: l, Board: refs[l.Board()]}
	}
	return out, nil
}

func (r *Repo) findBoards(q candidate.Query, visible []domcorpus.Board) []domcorpus.Board {
	pred := filter.Build(q.Filters, entity.Board, q.Now)
	matched := slices.DeleteFunc(slices.Clone(visible), func(b domcorpus.Board) bool {
		return !b.MatchesText(q.Text) || !pred.Matches(&b)
	})
	presort(matched, (*domcorpus.Board).SortKeys, q.SortBy, q.Direction)
	return capped(matched, r.caps.Boards)
}

// presort orders items by the requested field, or by updatedAt desc when
// the final order is relevance. The sort is stable over id order.
func presort[T any](items []T, keys func(*T) order.Keys, f order.Field, d order.Direction) {
	slices.SortStableFunc(items, func(a, b T) int {
		ka, kb := keys(&a), keys(&b)
		if f == order.Relevance {
			return order.Desc.Apply(order.Compare(order.UpdatedAt, ka, kb))
		}
		return d.Apply(order.Compare(f, ka, kb))
	})
}

func capped[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
