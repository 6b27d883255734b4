package boardsearch

import (
	"context"
	"fmt"
	"time"

	domcorpus "github.com/kailas-cloud/boardsearch/internal/domain/corpus"
)

// CorpusService writes the board, list, card and user snapshots that searches
// run over. Each Put validates its input and reports whether the entity was new.
type CorpusService struct {
	store corpusWriter
	obs   *observer
}

// PutBoard stores a board.
func (s *CorpusService) PutBoard(ctx context.Context, b Board) (created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("put_board", start, err) }()

	board, err := domcorpus.NewBoard(b.ID, b.Title, b.Description, b.Owner, b.Members,
		b.Visibility, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("board %s: %w", b.ID, err)
	}
	created, err = s.store.PutBoard(ctx, board)
	if err != nil {
		return false, fmt.Errorf("put board %s: %w", b.ID, err)
	}
	return created, nil
}

// PutList stores a list.
func (s *CorpusService) PutList(ctx context.Context, l List) (created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("put_list", start, err) }()

	list, err := domcorpus.NewList(l.ID, l.Title, l.Board, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("list %s: %w", l.ID, err)
	}
	created, err = s.store.PutList(ctx, list)
	if err != nil {
		return false, fmt.Errorf("put list %s: %w", l.ID, err)
	}
	return created, nil
}

// PutCard stores a card. Moving a card to another list or board re-indexes it.
func (s *CorpusService) PutCard(ctx context.Context, c Card) (created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("put_card", start, err) }()

	card, err := cardToDomain(&c)
	if err != nil {
		return false, fmt.Errorf("card %s: %w", c.ID, err)
	}
	created, err = s.store.PutCard(ctx, card)
	if err != nil {
		return false, fmt.Errorf("put card %s: %w", c.ID, err)
	}
	return created, nil
}

// PutUser stores a user.
func (s *CorpusService) PutUser(ctx context.Context, u User) (created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("put_user", start, err) }()

	user, err := domcorpus.NewUser(u.ID, u.Username, u.FirstName, u.LastName)
	if err != nil {
		return false, fmt.Errorf("user %s: %w", u.ID, err)
	}
	created, err = s.store.PutUser(ctx, user)
	if err != nil {
		return false, fmt.Errorf("put user %s: %w", u.ID, err)
	}
	return created, nil
}
