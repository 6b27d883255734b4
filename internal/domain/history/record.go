// Package history models persisted search history records.
package history

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/boardsearch/internal/domain"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
)

// Record is one executed search owned by a user.
// Query and filters never change after creation.
type Record struct {
	id         string
	user       string
	query      string
	filters    filter.Spec
	sortBy     order.Field
	direction  order.Direction
	results    Summary
	searchTime int64
	isSaved    bool
	savedAt    *time.Time
	createdAt  time.Time
}

// New creates an unsaved Record.
func New(
	id, user, query string,
	filters filter.Spec,
	sortBy order.Field, direction order.Direction,
	results Summary, searchTime int64, createdAt time.Time,
) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("%w: history record id is required", domain.ErrValidation)
	}
	if user == "" {
		return Record{}, fmt.Errorf("%w: history record user is required", domain.ErrValidation)
	}
	if query == "" {
		return Record{}, fmt.Errorf("%w: history record query is required", domain.ErrValidation)
	}
	if searchTime < 0 {
		searchTime = 0
	}
	return Record{
		id: id, user: user, query: query, filters: filters,
		sortBy: sortBy, direction: direction, results: results,
		searchTime: searchTime, createdAt: createdAt,
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(
	id, user, query string,
	filters filter.Spec,
	sortBy order.Field, direction order.Direction,
	results Summary, searchTime int64,
	isSaved bool, savedAt *time.Time, createdAt time.Time,
) Record {
	return Record{
		id: id, user: user, query: query, filters: filters,
		sortBy: sortBy, direction: direction, results: results,
		searchTime: searchTime, isSaved: isSaved, savedAt: savedAt, createdAt: createdAt,
	}
}

// ID returns the record identifier.
func (r *Record) ID() string { return r.id }

// User returns the owning user ID.
func (r *Record) User() string { return r.user }

// Query returns the search text.
func (r *Record) Query() string { return r.query }

// Filters returns the filters the search ran with.
func (r *Record) Filters() filter.Spec { return r.filters }

// SortBy returns the sort key.
func (r *Record) SortBy() order.Field { return r.sortBy }

// Direction returns the sort direction.
func (r *Record) Direction() order.Direction { return r.direction }

// Results returns the capped result summary.
func (r *Record) Results() Summary { return r.results }

// SearchTime returns the elapsed search time in milliseconds.
func (r *Record) SearchTime() int64 { return r.searchTime }

// IsSaved reports whether the user bookmarked this search.
func (r *Record) IsSaved() bool { return r.isSaved }

// SavedAt returns when the record was saved, nil when unsaved.
func (r *Record) SavedAt() *time.Time { return r.savedAt }

// CreatedAt returns when the search ran.
func (r *Record) CreatedAt() time.Time { return r.createdAt }

// HasResults reports whether the search matched anything.
func (r *Record) HasResults() bool { return r.results.TotalResults > 0 }

// FormattedSearchTime renders the search time as "123ms" or "1.23s".
// Zero renders as empty.
func (r *Record) FormattedSearchTime() string {
	switch {
	case r.searchTime <= 0:
		return ""
	case r.searchTime < 1000:
		return fmt.Sprintf("%dms", r.searchTime)
	}
	return fmt.Sprintf("%.2fs", float64(r.searchTime)/1000)
}

// Save marks the record saved. Saving twice keeps the first savedAt.
// Reports whether the state changed.
func (r *Record) Save(now time.Time) bool {
	if r.isSaved {
		return false
	}
	r.isSaved = true
	r.savedAt = &now
	return true
}

// Unsave clears the saved flag and savedAt. Reports whether the state changed.
func (r *Record) Unsave() bool {
	if !r.isSaved {
		return false
	}
	r.isSaved = false
	r.savedAt = nil
	return true
}
