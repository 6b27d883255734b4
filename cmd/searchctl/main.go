// Command searchctl seeds a boardsearch corpus and runs searches against it
// through the embedded SDK. It talks to Valkey/Redis directly, not to the
// HTTP service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/boardsearch/internal/version"
	boardsearch "github.com/kailas-cloud/boardsearch/pkg/sdk"
)

type rootOptions struct {
	driver     string
	addr       string
	password   string
	prefix     string
	user       string
	jsonOutput bool
	verbose    bool
}

type connectFunc func(ctx context.Context, o *rootOptions) (*boardsearch.Client, error)

// app carries state shared by subcommands. client is set by the root
// PersistentPreRunE for commands that need the store.
type app struct {
	opts    rootOptions
	connect connectFunc
	client  *boardsearch.Client
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func connectSDK(ctx context.Context, o *rootOptions) (*boardsearch.Client, error) {
	var opts []boardsearch.Option
	switch o.driver {
	case "valkey":
		opts = append(opts, boardsearch.WithValkey(o.addr, o.password))
	case "redis":
		opts = append(opts, boardsearch.WithRedis(o.addr, o.password))
	default:
		return nil, fmt.Errorf("unknown driver %q (must be valkey or redis)", o.driver)
	}
	opts = append(opts, boardsearch.WithKeyPrefix(o.prefix))
	if o.verbose {
		opts = append(opts, boardsearch.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	}
	return boardsearch.New(ctx, opts...)
}

// newRootCmd builds the command tree. The returned func closes the client
// opened by the executed command, if any, and must run even when Execute fails.
func newRootCmd(connect connectFunc) (*cobra.Command, func()) {
	a := &app{connect: connect}

	root := &cobra.Command{
		Use:           "searchctl <command>",
		Short:         "Operator CLI for boardsearch",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !needsStore(cmd) {
				return nil
			}
			c, err := a.connect(cmd.Context(), &a.opts)
			if err != nil {
				return fmt.Errorf("connect to %s at %s: %w", a.opts.driver, a.opts.addr, err)
			}
			a.client = c
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.driver, "driver", envOr("DB_DRIVER", "valkey"), "storage driver (valkey or redis)")
	pf.StringVar(&a.opts.addr, "addr", envOr("VALKEY_ADDR", "localhost:6379"), "database address")
	pf.StringVar(&a.opts.password, "password", os.Getenv("VALKEY_PASSWORD"), "database password")
	pf.StringVar(&a.opts.prefix, "prefix", envOr("BOARDSEARCH_KEY_PREFIX", "boardsearch:"), "storage key prefix")
	pf.StringVarP(&a.opts.user, "user", "u", os.Getenv("BOARDSEARCH_USER"), "acting user id")
	pf.BoolVar(&a.opts.jsonOutput, "json", false, "output as JSON")
	pf.BoolVarP(&a.opts.verbose, "verbose", "v", false, "log SDK operations to stderr")

	cobra.EnableCommandSorting = false
	root.AddGroup(
		&cobra.Group{ID: "corpus", Title: "Corpus:"},
		&cobra.Group{ID: "search", Title: "Search:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	root.AddCommand(newSeedCmd(a))
	root.AddCommand(newQueryCmd(a))
	root.AddCommand(newSuggestCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newSavedCmd(a))
	root.AddCommand(newSaveCmd(a))
	root.AddCommand(newUnsaveCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newStatsCmd(a))
	root.AddCommand(newHealthCmd(a))
	root.AddCommand(newVersionCmd())

	return root, func() {
		if a.client != nil {
			a.client.Close()
			a.client = nil
		}
	}
}

// needsStore reports whether cmd talks to the database. Built-in help and
// completion commands and commands annotated offline do not.
func needsStore(cmd *cobra.Command) bool {
	if cmd.Annotations["offline"] == "true" || cmd.Name() == "help" {
		return false
	}
	for p := cmd; p != nil; p = p.Parent() {
		if p.Name() == "completion" {
			return false
		}
	}
	return true
}

// requireUser returns the acting user or an error naming the flag.
func (a *app) requireUser() (string, error) {
	if a.opts.user == "" {
		return "", fmt.Errorf("--user is required (or set BOARDSEARCH_USER)")
	}
	return a.opts.user, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the searchctl version",
		GroupID:     "system",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"offline": "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "health",
		Short:   "Check database connectivity",
		GroupID: "system",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h := a.client.Health(cmd.Context())
			if a.opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), h)
			}
			for name, status := range h.Checks {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", name, status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", "status", h.Status)
			if !h.OK() {
				return fmt.Errorf("unhealthy: %s", h.Status)
			}
			return nil
		},
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	root, closeClient := newRootCmd(connectSDK)
	err := root.ExecuteContext(ctx)
	closeClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
