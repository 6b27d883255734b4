package chi

import (
	"context"

	domhistory "github.com/kailas-cloud/boardsearch/internal/domain/history"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/boardsearch/internal/usecase/health"
	historyuc "github.com/kailas-cloud/boardsearch/internal/usecase/history"
	searchuc "github.com/kailas-cloud/boardsearch/internal/usecase/search"
)

// Searcher runs a search for a user.
type Searcher interface {
	Search(ctx context.Context, user string, req *request.Request) (searchuc.Response, error)
}

// HistoryManager exposes the user-facing history operations.
type HistoryManager interface {
	Save(ctx context.Context, id, user string) (domhistory.Record, error)
	Unsave(ctx context.Context, id, user string) (domhistory.Record, error)
	Delete(ctx context.Context, id, user string) error
	History(ctx context.Context, user string, page, limit int) (historyuc.Page, error)
	Saved(ctx context.Context, user string, page, limit int) (historyuc.Page, error)
	Suggest(ctx context.Context, user, partial string, limit int) (domhistory.Suggestions, error)
	Stats(ctx context.Context, user string) (domhistory.Stats, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
