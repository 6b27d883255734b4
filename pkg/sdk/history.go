package boardsearch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	historyuc "github.com/kailas-cloud/boardsearch/internal/usecase/history"
)

// HistoryService manages a user's stored searches.
type HistoryService struct {
	svc historyUseCase
	obs *observer
}

// List returns the user's searches, newest first. page is 1-based.
func (s *HistoryService) List(ctx context.Context, user string, page, limit int) (hp HistoryPage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("history_list", start, err) }()

	p, err := s.svc.History(ctx, user, page, limit)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("list history: %w", err)
	}
	return pageFromDomain(p), nil
}

// Saved returns the user's saved searches, most recently saved first.
func (s *HistoryService) Saved(ctx context.Context, user string, page, limit int) (hp HistoryPage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("history_saved", start, err) }()

	p, err := s.svc.Saved(ctx, user, page, limit)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("list saved: %w", err)
	}
	return pageFromDomain(p), nil
}

// Save bookmarks a search. Saving twice keeps the first save time.
func (s *HistoryService) Save(ctx context.Context, id, user string) (rec Record, err error) {
	start := time.Now()
	defer func() { s.obs.observe("history_save", start, err, slog.String("search_id", id)) }()

	r, err := s.svc.Save(ctx, id, user)
	if err != nil {
		return Record{}, fmt.Errorf("save %s: %w", id, err)
	}
	return recordFromDomain(&r), nil
}

// Unsave removes a bookmark.
func (s *HistoryService) Unsave(ctx context.Context, id, user string) (rec Record, err error) {
	start := time.Now()
	defer func() { s.obs.observe("history_unsave", start, err, slog.String("search_id", id)) }()

	r, err := s.svc.Unsave(ctx, id, user)
	if err != nil {
		return Record{}, fmt.Errorf("unsave %s: %w", id, err)
	}
	return recordFromDomain(&r), nil
}

// Delete permanently removes a search.
func (s *HistoryService) Delete(ctx context.Context, id, user string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("history_delete", start, err, slog.String("search_id", id)) }()

	if err = s.svc.Delete(ctx, id, user); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// Suggest returns recent, popular, card and label suggestions for partial.
// A non-positive limit uses the default card suggestion count.
func (s *HistoryService) Suggest(ctx context.Context, user, partial string, limit int) (out Suggestions, err error) {
	start := time.Now()
	defer func() { s.obs.observe("suggest", start, err) }()

	out, err = s.svc.Suggest(ctx, user, partial, limit)
	if err != nil {
		return Suggestions{}, fmt.Errorf("suggest: %w", err)
	}
	return out, nil
}

// Stats aggregates the user's recent searches.
func (s *HistoryService) Stats(ctx context.Context, user string) (st Stats, err error) {
	start := time.Now()
	defer func() { s.obs.observe("stats", start, err) }()

	st, err = s.svc.Stats(ctx, user)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}

func pageFromDomain(p historyuc.Page) HistoryPage {
	out := HistoryPage{Records: make([]Record, len(p.Records)), Pagination: p.Pagination}
	for i := range p.Records {
		out.Records[i] = recordFromDomain(&p.Records[i])
	}
	return out
}
