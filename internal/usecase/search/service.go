package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/boardsearch/internal/domain/entity"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/candidate"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/request"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/result"
	"github.com/kailas-cloud/boardsearch/internal/logger"
	"github.com/kailas-cloud/boardsearch/internal/metrics"
)

// Response is one page of a completed search.
type Response struct {
	Results    []result.Result
	Pagination result.Pagination
	// SearchTime is the elapsed time in milliseconds, never negative.
	SearchTime int64
	SearchID   string
}

// Service runs cross-entity searches: candidates, scoring, merge, page, history.
type Service struct {
	gateway Gateway
	history HistoryRecorder
	now     func() time.Time
}

// New creates a search service.
func New(gateway Gateway, history HistoryRecorder) *Service {
	return &Service{gateway: gateway, history: history, now: time.Now}
}

// WithClock overrides the time source (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Search executes req on behalf of user. Any stage failure aborts the whole
// search; a failed history write is returned as an error even though the
// results were computed.
func (s *Service) Search(ctx context.Context, user string, req *request.Request) (Response, error) {
	start := s.now()
	resp, err := s.search(ctx, user, req, start)
	metrics.SearchDuration.WithLabelValues(metrics.StatusLabel(err)).Observe(s.now().Sub(start).Seconds())
	return resp, err
}

func (s *Service) search(ctx context.Context, user string, req *request.Request, start time.Time) (Response, error) {
	set, err := s.gateway.Find(ctx, candidate.Query{
		User:      user,
		Text:      req.Query(),
		Filters:   req.Filters(),
		SortBy:    req.SortBy(),
		Direction: req.Direction(),
		Now:       start,
	})
	if err != nil {
		return Response{}, fmt.Errorf("find candidates: %w", err)
	}
	metrics.SearchCandidates.WithLabelValues(string(entity.Card)).Observe(float64(len(set.Cards)))
	metrics.SearchCandidates.WithLabelValues(string(entity.List)).Observe(float64(len(set.Lists)))
	metrics.SearchCandidates.WithLabelValues(string(entity.Board)).Observe(float64(len(set.Boards)))

	results := scoreAll(set, req.Query(), start)
	rank(results, req.SortBy(), req.Direction())
	metrics.SearchResults.Observe(float64(len(results)))
	page, pagination := paginate(results, req)

	elapsed := max(s.now().Sub(start), 0)
	rec, err := s.history.Record(ctx, user, req, results, elapsed)
	if err != nil {
		return Response{}, fmt.Errorf("record search: %w", err)
	}

	logger.FromContext(ctx).Debug("search completed",
		logger.SearchID(rec.ID()),
		zap.Int("candidates", set.Len()),
		zap.Int("results", len(results)),
		zap.Duration("elapsed", elapsed),
	)

	return Response{
		Results:    page,
		Pagination: pagination,
		SearchTime: rec.SearchTime(),
		SearchID:   rec.ID(),
	}, nil
}
