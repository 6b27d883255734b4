package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/boardsearch/internal/domain"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/result"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length in bytes.
	MaxQueryLength = 4096
	DefaultPage    = 1
	DefaultLimit   = 20
	MaxLimit       = 100
)

// Request is a validated search query.
type Request struct {
	query     string
	filters   filter.Spec
	sortBy    order.Field
	direction order.Direction
	page      int
	limit     int
}

// New validates and normalizes search parameters.
// The query is trimmed. Empty sortBy means relevance, empty direction means desc.
// Page and limit are not defaulted: callers resolve absent values first.
func New(
	query string,
	filters filter.Spec,
	sortBy order.Field,
	direction order.Direction,
	page, limit int,
) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("%w: search query is required", domain.ErrValidation)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrValidation, MaxQueryLength)
	}
	if sortBy == "" {
		sortBy = order.Relevance
	}
	if !sortBy.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid sortBy %q", domain.ErrValidation, sortBy)
	}
	if direction == "" {
		direction = order.Desc
	}
	if !direction.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid sortOrder %q", domain.ErrValidation, direction)
	}
	if page < 1 {
		return Request{}, fmt.Errorf("%w: page must be at least 1", domain.ErrValidation)
	}
	if limit < 1 || limit > MaxLimit {
		return Request{}, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrValidation, MaxLimit)
	}
	if err := filters.Validate(); err != nil {
		return Request{}, err
	}

	return Request{
		query:     query,
		filters:   filters,
		sortBy:    sortBy,
		direction: direction,
		page:      page,
		limit:     limit,
	}, nil
}

// Query returns the trimmed search text.
func (r *Request) Query() string { return r.query }

// Filters returns the structured filter spec.
func (r *Request) Filters() filter.Spec { return r.filters }

// SortBy returns the merged sort key.
func (r *Request) SortBy() order.Field { return r.sortBy }

// Direction returns the sort direction.
func (r *Request) Direction() order.Direction { return r.direction }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the index of the first result on the page. Pages too far
// out to address saturate past the end of any result set.
func (r *Request) Offset() int { return result.Offset(r.page, r.limit) }
