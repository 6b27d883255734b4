package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/boardsearch/internal/domain"
	domhistory "github.com/kailas-cloud/boardsearch/internal/domain/history"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/request"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/result"
	"github.com/kailas-cloud/boardsearch/internal/logger"
	"github.com/kailas-cloud/boardsearch/internal/metrics"
)

// recentScan is how many of the newest records are read to find distinct
// recent queries.
const recentScan = 50

// Page is one page of history records.
type Page struct {
	Records    []domhistory.Record
	Pagination result.Pagination
}

// Service manages the search history of each user.
type Service struct {
	repo   Repository
	corpus CorpusSuggester
	caps   domhistory.Caps
	now    func() time.Time
	newID  func() string
}

// New creates a history service.
func New(repo Repository, corpus CorpusSuggester) *Service {
	return &Service{
		repo:   repo,
		corpus: corpus,
		caps:   domhistory.DefaultCaps,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// WithClock overrides the time source (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithIDGenerator overrides record ID generation (tests).
func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.newID = gen
	return s
}

// Record stores a completed search. Storage failures surface as ErrPersistence.
func (s *Service) Record(
	ctx context.Context, user string, req *request.Request,
	results []result.Result, elapsed time.Duration,
) (domhistory.Record, error) {
	rec, err := domhistory.New(
		s.newID(), user, req.Query(), req.Filters(), req.SortBy(), req.Direction(),
		domhistory.NewSummary(results, s.caps), elapsed.Milliseconds(), s.now(),
	)
	if err != nil {
		return domhistory.Record{}, fmt.Errorf("build history record: %w", err)
	}

	err = s.repo.Insert(ctx, rec)
	metrics.HistoryWritesTotal.WithLabelValues("insert", metrics.StatusLabel(err)).Inc()
	if err != nil {
		logger.FromContext(ctx).Error("history insert failed", logger.SearchID(rec.ID()), zap.Error(err))
		return domhistory.Record{}, fmt.Errorf("%w: insert history: %w", domain.ErrPersistence, err)
	}
	return rec, nil
}

// Save bookmarks a record owned by user. Saving twice keeps the first savedAt.
func (s *Service) Save(ctx context.Context, id, user string) (domhistory.Record, error) {
	return s.update(ctx, "save", id, user, func(rec *domhistory.Record) bool {
		return rec.Save(s.now())
	})
}

// Unsave removes the bookmark from a record owned by user.
func (s *Service) Unsave(ctx context.Context, id, user string) (domhistory.Record, error) {
	return s.update(ctx, "unsave", id, user, (*domhistory.Record).Unsave)
}

// Delete permanently removes a record owned by user.
func (s *Service) Delete(ctx context.Context, id, user string) error {
	if err := checkID(id); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, id, func(rec domhistory.Record) error {
		return checkOwner(rec, user)
	})
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("search %q: %w", id, domain.ErrNotFound)
	}
	metrics.HistoryWritesTotal.WithLabelValues("delete", metrics.StatusLabel(err)).Inc()
	if err != nil {
		return fmt.Errorf("%w: delete history %s: %w", domain.ErrPersistence, id, err)
	}
	return nil
}

// History returns the user's records, newest first.
func (s *Service) History(ctx context.Context, user string, page, limit int) (Page, error) {
	return s.page(ctx, user, page, limit, s.repo.List)
}

// Saved returns the user's saved records, most recently saved first.
func (s *Service) Saved(ctx context.Context, user string, page, limit int) (Page, error) {
	return s.page(ctx, user, page, limit, s.repo.ListSaved)
}

// Suggest computes the four suggestion lists independently and concurrently.
// limit bounds card suggestions; a non-positive limit uses the default.
func (s *Service) Suggest(ctx context.Context, user, partial string, limit int) (domhistory.Suggestions, error) {
	partial = strings.TrimSpace(partial)
	if partial == "" {
		return domhistory.Suggestions{}, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}
	if limit <= 0 {
		limit = domhistory.DefaultCardLimit
	}
	limit = min(limit, request.MaxLimit)

	var out domhistory.Suggestions
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := s.repo.Recent(gctx, user, recentScan)
		if err != nil {
			return fmt.Errorf("recent searches: %w", err)
		}
		out.RecentSearches = domhistory.RecentDistinct(recs, domhistory.RecentSuggestions)
		return nil
	})
	g.Go(func() error {
		popular, err := s.repo.Popular(gctx, domhistory.PopularSuggestions)
		if err != nil {
			return fmt.Errorf("popular searches: %w", err)
		}
		out.PopularSearches = popular
		return nil
	})
	g.Go(func() error {
		cards, err := s.corpus.SuggestCards(gctx, user, partial, limit)
		if err != nil {
			return fmt.Errorf("card suggestions: %w", err)
		}
		out.CardSuggestions = make([]domhistory.CardSuggestion, len(cards))
		for i := range cards {
			tags := cards[i].Tags()
			if tags == nil {
				tags = []string{}
			}
			out.CardSuggestions[i] = domhistory.CardSuggestion{ID: cards[i].ID(), Title: cards[i].Title(), Tags: tags}
		}
		return nil
	})
	g.Go(func() error {
		labels, err := s.corpus.SuggestLabels(gctx, user, partial, domhistory.LabelSuggestions)
		if err != nil {
			return fmt.Errorf("label suggestions: %w", err)
		}
		out.LabelSuggestions = labels
		return nil
	})
	if err := g.Wait(); err != nil {
		return domhistory.Suggestions{}, err
	}
	return out, nil
}

// Stats aggregates the user's most recent records.
func (s *Service) Stats(ctx context.Context, user string) (domhistory.Stats, error) {
	recs, err := s.repo.Recent(ctx, user, domhistory.StatsWindow)
	if err != nil {
		return domhistory.Stats{}, fmt.Errorf("load history: %w", err)
	}
	return domhistory.ComputeStats(recs, s.now()), nil
}

// update applies a saved-state transition to a record owned by user. Absent,
// malformed and foreign IDs are all reported as ErrNotFound.
func (s *Service) update(
	ctx context.Context, op, id, user string, apply func(rec *domhistory.Record) bool,
) (domhistory.Record, error) {
	if err := checkID(id); err != nil {
		return domhistory.Record{}, err
	}
	var changed bool
	rec, err := s.repo.Update(ctx, id, func(rec *domhistory.Record) (bool, error) {
		if err := checkOwner(*rec, user); err != nil {
			return false, err
		}
		changed = apply(rec)
		return changed, nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return domhistory.Record{}, fmt.Errorf("search %q: %w", id, domain.ErrNotFound)
	}
	if changed || err != nil {
		metrics.HistoryWritesTotal.WithLabelValues(op, metrics.StatusLabel(err)).Inc()
	}
	if err != nil {
		return domhistory.Record{}, fmt.Errorf("%w: %s history %s: %w", domain.ErrPersistence, op, id, err)
	}
	return rec, nil
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("search %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

func checkOwner(rec domhistory.Record, user string) error {
	if rec.User() != user {
		return domain.ErrNotFound
	}
	return nil
}

type lister func(ctx context.Context, user string, offset, limit int) ([]domhistory.Record, int, error)

func (s *Service) page(ctx context.Context, user string, page, limit int, list lister) (Page, error) {
	if page < 1 {
		return Page{}, fmt.Errorf("%w: page must be at least 1", domain.ErrValidation)
	}
	if limit < 1 || limit > request.MaxLimit {
		return Page{}, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrValidation, request.MaxLimit)
	}
	recs, total, err := list(ctx, user, result.Offset(page, limit), limit)
	if err != nil {
		return Page{}, fmt.Errorf("list history: %w", err)
	}
	return Page{Records: recs, Pagination: result.NewPagination(page, limit, total)}, nil
}
