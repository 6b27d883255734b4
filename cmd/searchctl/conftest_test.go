package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	boardsearch "github.com/kailas-cloud/boardsearch/pkg/sdk"
)

// --- corpusPutter mock ---

type mockPutter struct {
	users  []boardsearch.User
	boards []boardsearch.Board
	lists  []boardsearch.List
	cards  []boardsearch.Card
	seen   map[string]bool
	failOn string
	err    error
}

func (m *mockPutter) put(id string) (bool, error) {
	if m.failOn != "" && id == m.failOn {
		return false, m.err
	}
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	created := !m.seen[id]
	m.seen[id] = true
	return created, nil
}

func (m *mockPutter) PutUser(_ context.Context, u boardsearch.User) (bool, error) {
	m.users = append(m.users, u)
	return m.put(u.ID)
}

func (m *mockPutter) PutBoard(_ context.Context, b boardsearch.Board) (bool, error) {
	m.boards = append(m.boards, b)
	return m.put(b.ID)
}

func (m *mockPutter) PutList(_ context.Context, l boardsearch.List) (bool, error) {
	m.lists = append(m.lists, l)
	return m.put(l.ID)
}

func (m *mockPutter) PutCard(_ context.Context, c boardsearch.Card) (bool, error) {
	m.cards = append(m.cards, c)
	return m.put(c.ID)
}

// offlineConnect never dials; commands that reach the client fail their test.
func offlineConnect(context.Context, *rootOptions) (*boardsearch.Client, error) {
	return nil, nil
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BOARDSEARCH_USER", "")
	root, closeClient := newRootCmd(offlineConnect)
	defer closeClient()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// queryCmd returns a parsed query command without running it.
func queryCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := newQueryCmd(&app{})
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}
