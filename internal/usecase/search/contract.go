package search

import (
	"context"
	"time"

	domhistory "github.com/kailas-cloud/boardsearch/internal/domain/history"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/candidate"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/request"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/result"
)

// Gateway finds visible, filtered and capped candidates of every entity type.
type Gateway interface {
	Find(ctx context.Context, q candidate.Query) (candidate.Set, error)
}

// HistoryRecorder persists one executed search and returns the stored record.
type HistoryRecorder interface {
	Record(
		ctx context.Context, user string, req *request.Request,
		results []result.Result, elapsed time.Duration,
	) (domhistory.Record, error)
}
