package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	boardsearch "github.com/kailas-cloud/boardsearch/pkg/sdk"
)

func newQueryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query <text>",
		Short:   "Search boards, lists and cards",
		GroupID: "search",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.requireUser()
			if err != nil {
				return err
			}
			q, err := queryFromFlags(cmd, strings.Join(args, " "))
			if err != nil {
				return err
			}
			page, err := a.client.Search(cmd.Context(), user, q)
			if err != nil {
				return err
			}
			if a.opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), page)
			}
			printResults(cmd.OutOrStdout(), page)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSlice("board", nil, "restrict to board ids (repeatable)")
	f.StringSlice("list", nil, "restrict cards and lists to list ids (repeatable)")
	f.StringSlice("assignee", nil, "cards assigned to any of these user ids (repeatable)")
	f.StringSliceP("label", "l", nil, "cards carrying any of these labels (repeatable)")
	f.StringSliceP("priority", "p", nil, "low, medium, high or urgent (repeatable)")
	f.StringP("status", "s", "", "all, open, completed or overdue")
	f.String("due-from", "", "due date lower bound (RFC3339 or YYYY-MM-DD)")
	f.String("due-to", "", "due date upper bound (RFC3339 or YYYY-MM-DD)")
	f.Bool("has-attachments", false, "cards with (true) or without (false) attachments")
	f.Bool("has-comments", false, "cards with (true) or without (false) comments")
	f.Bool("has-checklists", false, "cards with (true) or without (false) checklists")
	f.String("sort", "", "relevance, title, createdAt, updatedAt, dueDate or priority")
	f.String("order", "", "asc or desc")
	f.Int("page", 0, "page number (default 1)")
	f.Int("limit", 0, "results per page (default 20)")
	return cmd
}

// queryFromFlags maps command flags onto an SDK query. Boolean filters
// apply only when the flag was set explicitly.
func queryFromFlags(cmd *cobra.Command, text string) (boardsearch.Query, error) {
	f := cmd.Flags()
	q := boardsearch.Query{Text: text}

	q.Filters.Boards, _ = f.GetStringSlice("board")
	q.Filters.Lists, _ = f.GetStringSlice("list")
	q.Filters.Assignees, _ = f.GetStringSlice("assignee")
	q.Filters.Labels, _ = f.GetStringSlice("label")
	prios, _ := f.GetStringSlice("priority")
	for _, p := range prios {
		q.Filters.Priorities = append(q.Filters.Priorities, boardsearch.Priority(p))
	}
	status, _ := f.GetString("status")
	q.Filters.Status = boardsearch.Status(status)

	from, err := dateFlag(cmd, "due-from")
	if err != nil {
		return boardsearch.Query{}, err
	}
	to, err := dateFlag(cmd, "due-to")
	if err != nil {
		return boardsearch.Query{}, err
	}
	if from != nil || to != nil {
		q.Filters.DueDate = &boardsearch.DateRange{Start: from, End: to}
	}

	q.Filters.HasAttachments = boolFlag(cmd, "has-attachments")
	q.Filters.HasComments = boolFlag(cmd, "has-comments")
	q.Filters.HasChecklists = boolFlag(cmd, "has-checklists")

	sortBy, _ := f.GetString("sort")
	sortOrder, _ := f.GetString("order")
	q.SortBy = boardsearch.SortField(sortBy)
	q.SortOrder = boardsearch.SortOrder(sortOrder)
	q.Page, _ = f.GetInt("page")
	q.Limit, _ = f.GetInt("limit")
	return q, nil
}

func boolFlag(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

func dateFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("--%s: %q is not RFC3339 or YYYY-MM-DD", name, s)
}

func newSuggestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "suggest <partial>",
		Short:   "Show recent, popular, card and label suggestions",
		GroupID: "search",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.requireUser()
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			s, err := a.client.History().Suggest(cmd.Context(), user, strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			if a.opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), s)
			}
			printSuggestions(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "maximum card suggestions (default 10)")
	return cmd
}
