package history

import (
	"cmp"
	"math"
	"slices"
	"time"
)

// Suggestion list sizes.
const (
	RecentSuggestions  = 5
	PopularSuggestions = 5
	LabelSuggestions   = 5
	DefaultCardLimit   = 10
	TopQueries         = 5
	// StatsWindow is how many of the newest records feed Stats.
	StatsWindow = 1000
)

// CardSuggestion is the title+tags projection of a matching card.
type CardSuggestion struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// Suggestions holds four independently computed lists. They are neither
// merged nor deduplicated against each other.
type Suggestions struct {
	RecentSearches   []string         `json:"recentSearches"`
	PopularSearches  []string         `json:"popularSearches"`
	CardSuggestions  []CardSuggestion `json:"cardSuggestions"`
	LabelSuggestions []string         `json:"labelSuggestions"`
}

// QueryCount is a query and how often it ran.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// Stats summarises a user's recent search activity.
type Stats struct {
	Total         int          `json:"total"`
	Saved         int          `json:"saved"`
	Recent        int          `json:"recent"`
	AvgSearchTime int64        `json:"avgSearchTime"`
	TopQueries    []QueryCount `json:"topQueries"`
}

// RecentDistinct returns up to n distinct queries in the given order
// (newest first is expected).
func RecentDistinct(records []Record, n int) []string {
	out := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for i := range records {
		if len(out) == n {
			break
		}
		q := records[i].Query()
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}

// ComputeStats aggregates records at time now. Records created strictly
// within the last seven days count as recent. Top queries are ordered by
// count desc, then query asc.
func ComputeStats(records []Record, now time.Time) Stats {
	st := Stats{Total: len(records), TopQueries: []QueryCount{}}
	if len(records) == 0 {
		return st
	}

	weekAgo := now.AddDate(0, 0, -7)
	counts := make(map[string]int)
	var sum int64
	for i := range records {
		r := &records[i]
		if r.IsSaved() {
			st.Saved++
		}
		if r.CreatedAt().After(weekAgo) {
			st.Recent++
		}
		sum += r.SearchTime()
		counts[r.Query()]++
	}
	st.AvgSearchTime = int64(math.Round(float64(sum) / float64(len(records))))

	for q, c := range counts {
		st.TopQueries = append(st.TopQueries, QueryCount{Query: q, Count: c})
	}
	slices.SortFunc(st.TopQueries, func(a, b QueryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Query, b.Query)
	})
	if len(st.TopQueries) > TopQueries {
		st.TopQueries = st.TopQueries[:TopQueries]
	}
	return st
}
