package corpus

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/boardsearch/internal/db"
	domcorpus "github.com/kailas-cloud/boardsearch/internal/domain/corpus"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
)

const testPrefix = "t:"

// memStore is an in-memory implementation of the consumer interface.
// failFn, when set, is consulted before every call and may inject an error.
type memStore struct {
	mu     sync.Mutex
	kv     map[string][]byte
	sets   map[string]map[string]struct{}
	failFn func(op, key string) error
}

func newMemStore() *memStore {
	return &memStore{kv: map[string][]byte{}, sets: map[string]map[string]struct{}{}}
}

func (m *memStore) fail(op, key string) error {
	if m.failFn != nil {
		return m.failFn(op, key)
	}
	return nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(db.OpGet, key); err != nil {
		return nil, err
	}
	v, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) MGet(_ context.Context, keys []string) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if err := m.fail(db.OpGet, k); err != nil {
			return nil, err
		}
		out[i] = m.kv[k]
	}
	return out, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(db.OpSet, key); err != nil {
		return err
	}
	m.kv[key] = slices.Clone(value)
	return nil
}

func (m *memStore) SAdd(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(db.OpSAdd, key); err != nil {
		return err
	}
	s, ok := m.sets[key]
	if !ok {
		s = map[string]struct{}{}
		m.sets[key] = s
	}
	for _, v := range members {
		s[v] = struct{}{}
	}
	return nil
}

func (m *memStore) SRem(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(db.OpSRem, key); err != nil {
		return err
	}
	for _, v := range members {
		delete(m.sets[key], v)
	}
	return nil
}

func (m *memStore) SMembers(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(db.OpSMembers, key); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(m.sets[key]))
	for v := range m.sets[key] {
		out = append(out, v)
	}
	return out, nil
}

// Fixture ids.
const (
	alice = "a0000000-0000-4000-8000-000000000001"
	bob   = "a0000000-0000-4000-8000-000000000002"
	carol = "a0000000-0000-4000-8000-000000000003"

	boardAlice  = "b0000000-0000-4000-8000-000000000001" // private, alice owns, bob member
	boardCarol  = "b0000000-0000-4000-8000-000000000002" // private, carol only
	boardPublic = "b0000000-0000-4000-8000-000000000003" // public, carol owns

	listTodo   = "c0000000-0000-4000-8000-000000000001"
	listDone   = "c0000000-0000-4000-8000-000000000002"
	listSecret = "c0000000-0000-4000-8000-000000000003"
	listPublic = "c0000000-0000-4000-8000-000000000004"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) (*Repo, *memStore) {
	t.Helper()
	ms := newMemStore()
	return New(ms, testPrefix), ms
}

func mustPut[T any](t *testing.T, put func(context.Context, T) (bool, error), v T) {
	t.Helper()
	if _, err := put(context.Background(), v); err != nil {
		t.Fatalf("put: %v", err)
	}
}

func card(id, title, list, board string, mut func(f *domcorpus.CardFields)) domcorpus.Card {
	f := domcorpus.CardFields{
		ID: id, Title: title, List: list, Board: board,
		Priority: filter.PriorityMedium, CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour),
	}
	if mut != nil {
		mut(&f)
	}
	return domcorpus.ReconstructCard(f)
}

func cardID(n int) string {
	return fmt.Sprintf("d0000000-0000-4000-8000-%012d", n)
}

// seedWorkspace stores three boards, four lists, users and a handful of cards.
func seedWorkspace(t *testing.T, r *Repo) {
	t.Helper()
	ts := now.Add(-48 * time.Hour)

	mustPut(t, r.PutBoard, domcorpus.ReconstructBoard(boardAlice, "Auth platform", "login and sessions",
		alice, []string{bob}, domcorpus.Private, ts, ts))
	mustPut(t, r.PutBoard, domcorpus.ReconstructBoard(boardCarol, "Carol auth notes", "",
		carol, nil, domcorpus.Team, ts, ts))
	mustPut(t, r.PutBoard, domcorpus.ReconstructBoard(boardPublic, "Public roadmap", "auth overhaul",
		carol, nil, domcorpus.Public, ts, ts))

	mustPut(t, r.PutList, domcorpus.ReconstructList(listTodo, "Auth backlog", boardAlice, ts, ts))
	mustPut(t, r.PutList, domcorpus.ReconstructList(listDone, "Done", boardAlice, ts, ts))
	mustPut(t, r.PutList, domcorpus.ReconstructList(listSecret, "Auth secrets", boardCarol, ts, ts))
	mustPut(t, r.PutList, domcorpus.ReconstructList(listPublic, "Auth ideas", boardPublic, ts, ts))

	mustPut(t, r.PutUser, domcorpus.ReconstructUser(alice, "alice", "Alice", "Liddell"))
	mustPut(t, r.PutUser, domcorpus.ReconstructUser(bob, "bob", "", ""))

	due := now.Add(-24 * time.Hour)
	mustPut(t, r.PutCard, card(cardID(1), "Fix auth bug", listTodo, boardAlice, func(f *domcorpus.CardFields) {
		f.Assignees = []string{alice, bob, carol} // carol has no user record
		f.Labels = []domcorpus.Label{{Name: "bug", Color: "red"}, {Name: "auth", Color: "blue"}}
		f.Priority = filter.PriorityHigh
		f.DueDate = &due
		f.UpdatedAt = now.Add(-time.Minute)
	}))
	mustPut(t, r.PutCard, card(cardID(2), "Authorization cleanup", listDone, boardAlice, func(f *domcorpus.CardFields) {
		f.IsCompleted = true
		f.Labels = []domcorpus.Label{{Name: "auth"}}
		f.UpdatedAt = now.Add(-10 * 24 * time.Hour)
	}))
	mustPut(t, r.PutCard, card(cardID(3), "Refactor", listTodo, boardAlice, func(f *domcorpus.CardFields) {
		f.Description = "refactor the auth module"
		f.Tags = []string{"tech-debt"}
		f.Labels = []domcorpus.Label{{Name: "backend"}}
	}))
	mustPut(t, r.PutCard, card(cardID(4), "Unrelated", listTodo, boardAlice, func(f *domcorpus.CardFields) {
		f.Tags = []string{"oauth"}
	}))
	mustPut(t, r.PutCard, card(cardID(5), "Auth secret rotation", listSecret, boardCarol, nil))
	mustPut(t, r.PutCard, card(cardID(6), "Auth SSO", listPublic, boardPublic, func(f *domcorpus.CardFields) {
		f.Labels = []domcorpus.Label{{Name: "auth"}, {Name: "authz"}}
	}))
}
