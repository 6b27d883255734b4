package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	boardsearch "github.com/kailas-cloud/boardsearch/pkg/sdk"
)

type pageLister func(ctx context.Context, user string, page, limit int) (boardsearch.HistoryPage, error)

func newPagedHistoryCmd(a *app, use, short string, list func() pageLister) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		GroupID: "search",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.requireUser()
			if err != nil {
				return err
			}
			page, _ := cmd.Flags().GetInt("page")
			limit, _ := cmd.Flags().GetInt("limit")
			hp, err := list()(cmd.Context(), user, page, limit)
			if err != nil {
				return err
			}
			if a.opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), hp)
			}
			printHistory(cmd.OutOrStdout(), hp)
			return nil
		},
	}
	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("limit", 20, "records per page")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	return newPagedHistoryCmd(a, "history", "List past searches, newest first",
		func() pageLister { return a.client.History().List })
}

func newSavedCmd(a *app) *cobra.Command {
	return newPagedHistoryCmd(a, "saved", "List saved searches, most recently saved first",
		func() pageLister { return a.client.History().Saved })
}

func newSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "save <search-id>",
		Short:   "Bookmark a past search",
		GroupID: "search",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.requireUser()
			if err != nil {
				return err
			}
			rec, err := a.client.History().Save(cmd.Context(), args[0], user)
			if err != nil {
				return err
			}
			if a.opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%q)\n", rec.ID, rec.Query)
			return nil
		},
	}
}

func newUnsaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "unsave <search-id>",
		Short:   "Remove a bookmark",
		GroupID: "search",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.requireUser()
			if err != nil {
				return err
			}
			rec, err := a.client.History().Unsave(cmd.Context(), args[0], user)
			if err != nil {
				return err
			}
			if a.opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unsaved %s (%q)\n", rec.ID, rec.Query)
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <search-id>",
		Short:   "Permanently remove a past search",
		GroupID: "search",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.requireUser()
			if err != nil {
				return err
			}
			if err := a.client.History().Delete(cmd.Context(), args[0], user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Short:   "Summarize recent search activity",
		GroupID: "search",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.requireUser()
			if err != nil {
				return err
			}
			st, err := a.client.History().Stats(cmd.Context(), user)
			if err != nil {
				return err
			}
			if a.opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), st)
			}
			printStats(cmd.OutOrStdout(), st)
			return nil
		},
	}
}
