package corpus

import (
	"cmp"
	"context"
	"slices"
	"strings"

	domcorpus "github.com/kailas-cloud/boardsearch/internal/domain/corpus"
)

// SuggestCards returns up to limit visible cards whose title or any tag
// contains partial, most recently updated first.
func (r *Repo) SuggestCards(ctx context.Context, user, partial string, limit int) ([]domcorpus.Card, error) {
	cards, err := r.visibleCards(ctx, user)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(partial)
	matched := slices.DeleteFunc(cards, func(c domcorpus.Card) bool {
		if strings.Contains(strings.ToLower(c.Title()), q) {
			return false
		}
		return !slices.ContainsFunc(c.Tags(), func(t string) bool {
			return strings.Contains(strings.ToLower(t), q)
		})
	})
	slices.SortStableFunc(matched, func(a, b domcorpus.Card) int {
		return b.UpdatedAt().Compare(a.UpdatedAt())
	})
	return capped(matched, limit), nil
}

// SuggestLabels returns up to limit label names containing partial, ranked
// by how many visible cards carry them. Ties sort alphabetically.
func (r *Repo) SuggestLabels(ctx context.Context, user, partial string, limit int) ([]string, error) {
	cards, err := r.visibleCards(ctx, user)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(partial)
	counts := make(map[string]int)
	for i := range cards {
		for _, name := range cards[i].LabelNames() {
			if name != "" && strings.Contains(strings.ToLower(name), q) {
				counts[name]++
			}
		}
	}

	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return capped(names, limit), nil
}

func (r *Repo) visibleCards(ctx context.Context, user string) ([]domcorpus.Card, error) {
	boards, err := r.visibleBoards(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(boards) == 0 {
		return []domcorpus.Card{}, nil
	}
	ids := make(map[string]struct{}, len(boards))
	for i := range boards {
		ids[boards[i].ID()] = struct{}{}
	}
	cards, err := r.loadCards(ctx, boards)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(cards, func(c domcorpus.Card) bool {
		_, ok := ids[c.Board()]
		return !ok
	}), nil
}
