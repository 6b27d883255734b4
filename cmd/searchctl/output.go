package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	boardsearch "github.com/kailas-cloud/boardsearch/pkg/sdk"
)

const timeLayout = "2006-01-02 15:04:05"

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printResults(w io.Writer, page boardsearch.SearchPage) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tRELEVANCE\tMATCH\tTITLE\tURL")
	for i := range page.Results {
		r := &page.Results[i]
		fmt.Fprintf(tw, "%s\t%.0f\t%s\t%s\t%s\n", r.Type, r.Relevance, r.MatchType, truncate(r.Title, 50), r.URL)
	}
	tw.Flush()
	p := page.Pagination
	fmt.Fprintf(w, "\npage %d/%d, %d results in %s (search %s)\n",
		p.Page, p.Pages, p.Total, page.SearchTime, page.SearchID)
}

func printHistory(w io.Writer, hp boardsearch.HistoryPage) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tQUERY\tRESULTS\tTIME\tSAVED\tCREATED")
	for i := range hp.Records {
		r := &hp.Records[i]
		saved := ""
		if r.SavedAt != nil {
			saved = r.SavedAt.Format(timeLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			r.ID, truncate(r.Query, 40), r.Total, r.SearchTime, saved, r.CreatedAt.Format(timeLayout))
	}
	tw.Flush()
	p := hp.Pagination
	fmt.Fprintf(w, "\npage %d/%d, %d total\n", p.Page, p.Pages, p.Total)
}

func printSuggestions(w io.Writer, s boardsearch.Suggestions) {
	fmt.Fprintf(w, "Recent:  %s\n", strings.Join(s.RecentSearches, ", "))
	fmt.Fprintf(w, "Popular: %s\n", strings.Join(s.PopularSearches, ", "))
	fmt.Fprintf(w, "Labels:  %s\n", strings.Join(s.LabelSuggestions, ", "))
	if len(s.CardSuggestions) == 0 {
		return
	}
	fmt.Fprintln(w, "Cards:")
	for _, c := range s.CardSuggestions {
		line := "  " + c.ID + "  " + c.Title
		if len(c.Tags) > 0 {
			line += "  [" + strings.Join(c.Tags, ", ") + "]"
		}
		fmt.Fprintln(w, line)
	}
}

func printStats(w io.Writer, st boardsearch.Stats) {
	fmt.Fprintf(w, "Total:       %d\n", st.Total)
	fmt.Fprintf(w, "Saved:       %d\n", st.Saved)
	fmt.Fprintf(w, "Last 7 days: %d\n", st.Recent)
	fmt.Fprintf(w, "Avg time:    %dms\n", st.AvgSearchTime)
	if len(st.TopQueries) == 0 {
		return
	}
	fmt.Fprintln(w, "Top queries:")
	for _, q := range st.TopQueries {
		fmt.Fprintf(w, "  %4d  %s\n", q.Count, q.Query)
	}
}

func printSeedCounts(w io.Writer, c seedCounts) {
	for _, kind := range []string{"users", "boards", "lists", "cards"} {
		fmt.Fprintf(w, "%-7s %d created, %d updated\n", kind+":", c.Created[kind], c.Updated[kind])
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
