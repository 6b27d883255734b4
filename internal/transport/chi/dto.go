package chi

import (
	"time"

	domhistory "github.com/kailas-cloud/boardsearch/internal/domain/history"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/result"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// searchBody is the POST /search request. Pointers distinguish absent values
// from zero values so defaults apply only when a field is omitted.
type searchBody struct {
	Query     string          `json:"query"`
	Filters   filter.Spec     `json:"filters"`
	SortBy    order.Field     `json:"sortBy"`
	SortOrder order.Direction `json:"sortOrder"`
	Page      *int            `json:"page"`
	Limit     *int            `json:"limit"`
}

type searchData struct {
	Results    []result.Result   `json:"results"`
	Pagination result.Pagination `json:"pagination"`
	SearchTime int64             `json:"searchTime"`
	SearchID   string            `json:"searchId"`
}

type summaryJSON struct {
	Boards       []result.Result `json:"boards"`
	Lists        []result.Result `json:"lists"`
	Cards        []result.Result `json:"cards"`
	TotalResults int             `json:"totalResults"`
}

type recordJSON struct {
	ID                  string          `json:"id"`
	User                string          `json:"user"`
	Query               string          `json:"query"`
	Filters             filter.Spec     `json:"filters"`
	SortBy              order.Field     `json:"sortBy"`
	SortOrder           order.Direction `json:"sortOrder"`
	Results             summaryJSON     `json:"results"`
	SearchTime          int64           `json:"searchTime"`
	FormattedSearchTime string          `json:"formattedSearchTime"`
	HasResults          bool            `json:"hasResults"`
	IsSaved             bool            `json:"isSaved"`
	SavedAt             *time.Time      `json:"savedAt,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
}

type pageJSON struct {
	Searches   []recordJSON      `json:"searches"`
	Pagination result.Pagination `json:"pagination"`
}

type healthJSON struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func orEmpty(rs []result.Result) []result.Result {
	if rs == nil {
		return []result.Result{}
	}
	return rs
}

func recordToJSON(rec *domhistory.Record) recordJSON {
	s := rec.Results()
	return recordJSON{
		ID:        rec.ID(),
		User:      rec.User(),
		Query:     rec.Query(),
		Filters:   rec.Filters(),
		SortBy:    rec.SortBy(),
		SortOrder: rec.Direction(),
		Results: summaryJSON{
			Boards:       orEmpty(s.Boards),
			Lists:        orEmpty(s.Lists),
			Cards:        orEmpty(s.Cards),
			TotalResults: s.TotalResults,
		},
		SearchTime:          rec.SearchTime(),
		FormattedSearchTime: rec.FormattedSearchTime(),
		HasResults:          rec.HasResults(),
		IsSaved:             rec.IsSaved(),
		SavedAt:             rec.SavedAt(),
		CreatedAt:           rec.CreatedAt(),
	}
}

func pageToJSON(recs []domhistory.Record, p result.Pagination) pageJSON {
	out := pageJSON{Searches: make([]recordJSON, len(recs)), Pagination: p}
	for i := range recs {
		out.Searches[i] = recordToJSON(&recs[i])
	}
	return out
}
