package boardsearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kailas-cloud/boardsearch/internal/db"
	dbRedis "github.com/kailas-cloud/boardsearch/internal/db/redis"
	"github.com/kailas-cloud/boardsearch/internal/domain"
	domcorpus "github.com/kailas-cloud/boardsearch/internal/domain/corpus"
	domhistory "github.com/kailas-cloud/boardsearch/internal/domain/history"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/request"
	corpusrepo "github.com/kailas-cloud/boardsearch/internal/repository/corpus"
	historyrepo "github.com/kailas-cloud/boardsearch/internal/repository/history"
	healthuc "github.com/kailas-cloud/boardsearch/internal/usecase/health"
	historyuc "github.com/kailas-cloud/boardsearch/internal/usecase/history"
	searchuc "github.com/kailas-cloud/boardsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "boardsearch:"
)

// Internal interfaces, swapped for mocks in tests.
type searchUseCase interface {
	Search(ctx context.Context, user string, req *request.Request) (searchuc.Response, error)
}

type historyUseCase interface {
	Save(ctx context.Context, id, user string) (domhistory.Record, error)
	Unsave(ctx context.Context, id, user string) (domhistory.Record, error)
	Delete(ctx context.Context, id, user string) error
	History(ctx context.Context, user string, page, limit int) (historyuc.Page, error)
	Saved(ctx context.Context, user string, page, limit int) (historyuc.Page, error)
	Suggest(ctx context.Context, user, partial string, limit int) (domhistory.Suggestions, error)
	Stats(ctx context.Context, user string) (domhistory.Stats, error)
}

type corpusWriter interface {
	PutBoard(ctx context.Context, b domcorpus.Board) (bool, error)
	PutList(ctx context.Context, l domcorpus.List) (bool, error)
	PutCard(ctx context.Context, c domcorpus.Card) (bool, error)
	PutUser(ctx context.Context, u domcorpus.User) (bool, error)
}

// Client is the boardsearch SDK entry point.
type Client struct {
	store      db.Store
	searchSvc  searchUseCase
	historySvc historyUseCase
	corpus     corpusWriter
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("boardsearch: database address required (use WithValkey or WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("boardsearch: database not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.addrs,
			Password:   cfg.password,
			ClientName: "boardsearch-sdk",
		})
		if err != nil {
			return nil, fmt.Errorf("boardsearch: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("boardsearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	corpusRepo := corpusrepo.New(store, cfg.keyPrefix).WithCaps(corpusrepo.Caps{
		Cards:  cfg.maxCards,
		Lists:  cfg.maxLists,
		Boards: cfg.maxBoards,
	})
	historySvc := historyuc.New(historyrepo.New(store, cfg.keyPrefix), corpusRepo)

	return &Client{
		store:      store,
		searchSvc:  searchuc.New(corpusRepo, historySvc),
		historySvc: historySvc,
		corpus:     corpusRepo,
		healthSvc:  healthuc.New(store),
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs q on behalf of user and records it in the user's history.
func (c *Client) Search(ctx context.Context, user string, q Query) (page SearchPage, err error) {
	start := time.Now()
	defer func() {
		c.obs.observe("search", start, err, slog.String("user", user), slog.String("search_id", page.SearchID))
	}()

	if user == "" {
		return SearchPage{}, fmt.Errorf("%w: user is required", domain.ErrValidation)
	}
	pageNo, limit := q.Page, q.Limit
	if pageNo == 0 {
		pageNo = request.DefaultPage
	}
	if limit == 0 {
		limit = request.DefaultLimit
	}

	req, err := request.New(q.Text, q.Filters, q.SortBy, q.SortOrder, pageNo, limit)
	if err != nil {
		return SearchPage{}, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.searchSvc.Search(ctx, user, &req)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}
	return SearchPage{
		Results:    resp.Results,
		Pagination: resp.Pagination,
		SearchTime: time.Duration(resp.SearchTime) * time.Millisecond,
		SearchID:   resp.SearchID,
	}, nil
}

// History returns the search history service.
func (c *Client) History() *HistoryService {
	return &HistoryService{svc: c.historySvc, obs: c.obs}
}

// Corpus returns the service that writes board, list, card and user snapshots.
func (c *Client) Corpus() *CorpusService {
	return &CorpusService{store: c.corpus, obs: c.obs}
}
