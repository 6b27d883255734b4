package history

import (
	"encoding/json"
	"fmt"
	"time"

	domhistory "github.com/kailas-cloud/boardsearch/internal/domain/history"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/result"
)

type summaryRow struct {
	Boards       []result.Result `json:"boards"`
	Lists        []result.Result `json:"lists"`
	Cards        []result.Result `json:"cards"`
	TotalResults int             `json:"totalResults"`
}

// recordRow is the stored JSON form of a history record.
type recordRow struct {
	ID         string      `json:"id"`
	User       string      `json:"user"`
	Query      string      `json:"query"`
	Filters    filter.Spec `json:"filters"`
	SortBy     string      `json:"sortBy"`
	SortOrder  string      `json:"sortOrder"`
	Results    summaryRow  `json:"results"`
	SearchTime int64       `json:"searchTime"`
	IsSaved    bool        `json:"isSaved"`
	SavedAt    *time.Time  `json:"savedAt,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func encodeRecord(r *domhistory.Record) ([]byte, error) {
	s := r.Results()
	data, err := json.Marshal(recordRow{
		ID: r.ID(), User: r.User(), Query: r.Query(), Filters: r.Filters(),
		SortBy: string(r.SortBy()), SortOrder: string(r.Direction()),
		Results: summaryRow{
			Boards: s.Boards, Lists: s.Lists, Cards: s.Cards, TotalResults: s.TotalResults,
		},
		SearchTime: r.SearchTime(), IsSaved: r.IsSaved(), SavedAt: r.SavedAt(), CreatedAt: r.CreatedAt(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal history record: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte) (domhistory.Record, error) {
	var row recordRow
	if err := json.Unmarshal(data, &row); err != nil {
		return domhistory.Record{}, fmt.Errorf("unmarshal history record: %w", err)
	}
	return domhistory.Reconstruct(
		row.ID, row.User, row.Query, row.Filters,
		order.Field(row.SortBy), order.Direction(row.SortOrder),
		domhistory.Summary{
			Boards: row.Results.Boards, Lists: row.Results.Lists, Cards: row.Results.Cards,
			TotalResults: row.Results.TotalResults,
		},
		row.SearchTime, row.IsSaved, row.SavedAt, row.CreatedAt,
	), nil
}
