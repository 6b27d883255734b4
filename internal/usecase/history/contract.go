package history

import (
	"context"

	"github.com/kailas-cloud/boardsearch/internal/domain/corpus"
	domhistory "github.com/kailas-cloud/boardsearch/internal/domain/history"
)

// Repository defines the storage contract for search history.
type Repository interface {
	Insert(ctx context.Context, rec domhistory.Record) error
	// Update atomically applies mutate to the current record. mutate reports
	// whether it changed anything and may run more than once.
	Update(ctx context.Context, id string, mutate func(rec *domhistory.Record) (bool, error)) (domhistory.Record, error)
	// Delete atomically removes the record once check accepts its current state.
	Delete(ctx context.Context, id string, check func(rec domhistory.Record) error) error
	List(ctx context.Context, user string, offset, limit int) ([]domhistory.Record, int, error)
	ListSaved(ctx context.Context, user string, offset, limit int) ([]domhistory.Record, int, error)
	Recent(ctx context.Context, user string, n int) ([]domhistory.Record, error)
	Popular(ctx context.Context, n int) ([]string, error)
}

// CorpusSuggester looks up cards and labels visible to a user by partial text.
type CorpusSuggester interface {
	SuggestCards(ctx context.Context, user, partial string, limit int) ([]corpus.Card, error)
	SuggestLabels(ctx context.Context, user, partial string, limit int) ([]string, error)
}
