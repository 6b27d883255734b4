package history

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/kailas-cloud/boardsearch/internal/db"
	"github.com/kailas-cloud/boardsearch/internal/domain/entity"
	domhistory "github.com/kailas-cloud/boardsearch/internal/domain/history"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/result"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/score"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn             func(ctx context.Context, key string) ([]byte, error)
	mgetFn            func(ctx context.Context, keys []string) ([][]byte, error)
	zcardFn           func(ctx context.Context, key string) (int64, error)
	zrevRangeFn       func(ctx context.Context, key string, start, stop int64) ([]string, error)
	zrevRangeScoresFn func(ctx context.Context, key string, start, stop int64) ([]db.ScoredMember, error)
	runScriptFn       func(ctx context.Context, script *db.Script, keys, args []string) (int64, error)
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if m.mgetFn != nil {
		return m.mgetFn(ctx, keys)
	}
	return make([][]byte, len(keys)), nil
}

func (m *mockStore) ZCard(ctx context.Context, key string) (int64, error) {
	if m.zcardFn != nil {
		return m.zcardFn(ctx, key)
	}
	return 0, nil
}

func (m *mockStore) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if m.zrevRangeFn != nil {
		return m.zrevRangeFn(ctx, key, start, stop)
	}
	return nil, nil
}

func (m *mockStore) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]db.ScoredMember, error) {
	if m.zrevRangeScoresFn != nil {
		return m.zrevRangeScoresFn(ctx, key, start, stop)
	}
	return nil, nil
}

func (m *mockStore) RunScript(ctx context.Context, script *db.Script, keys, args []string) (int64, error) {
	if m.runScriptFn != nil {
		return m.runScriptFn(ctx, script, keys, args)
	}
	return scriptApplied, nil
}

// --- memStore ---

// memStore keeps keys in memory and applies the history scripts the way the
// server does. beforeScript runs once ahead of the next script, so a test can
// slip a competing write between a read and its write.
type memStore struct {
	mockStore
	kv           map[string]string
	zsets        map[string]map[string]float64
	beforeScript func()
}

func newMemStore() *memStore {
	return &memStore{kv: map[string]string{}, zsets: map[string]map[string]float64{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte(v), nil
}

func (m *memStore) RunScript(_ context.Context, script *db.Script, keys, args []string) (int64, error) {
	if hook := m.beforeScript; hook != nil {
		m.beforeScript = nil
		hook()
	}
	switch script {
	case insertScript:
		m.kv[keys[0]] = args[0]
		m.zset(keys[1])[args[2]] = parseScore(args[1])
		m.zset(keys[2])[args[3]]++
	case replaceScript:
		if cur, ok := m.kv[keys[0]]; !ok || cur != args[0] {
			return scriptStale, nil
		}
		m.kv[keys[0]] = args[1]
		if args[3] == "" {
			delete(m.zset(keys[1]), args[2])
		} else {
			m.zset(keys[1])[args[2]] = parseScore(args[3])
		}
	case deleteScript:
		if cur, ok := m.kv[keys[0]]; !ok || cur != args[0] {
			return scriptStale, nil
		}
		delete(m.kv, keys[0])
		delete(m.zset(keys[1]), args[1])
		delete(m.zset(keys[2]), args[1])
		counts := m.zset(keys[3])
		counts[args[2]]--
		for q, n := range counts {
			if n <= 0 {
				delete(counts, q)
			}
		}
	default:
		return 0, fmt.Errorf("unknown script %s", script.Name)
	}
	return scriptApplied, nil
}

func (m *memStore) zset(key string) map[string]float64 {
	z, ok := m.zsets[key]
	if !ok {
		z = map[string]float64{}
		m.zsets[key] = z
	}
	return z
}

func parseScore(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

const (
	testPrefix = "bs:"
	testUser   = "a0000000-0000-4000-8000-000000000001"
	testID     = "e0000000-0000-4000-8000-000000000001"
)

var testCreated = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, testPrefix), ms
}

func newMemRepo(t *testing.T) (*Repo, *memStore) {
	t.Helper()
	ms := newMemStore()
	return New(ms, testPrefix), ms
}

// saveAt returns a mutation that saves the record at ts.
func saveAt(ts time.Time) func(*domhistory.Record) (bool, error) {
	return func(rec *domhistory.Record) (bool, error) { return rec.Save(ts), nil }
}

func acceptAny(domhistory.Record) error { return nil }

func testRecord(t *testing.T) domhistory.Record {
	t.Helper()
	summary := domhistory.NewSummary([]result.Result{
		{Type: entity.Card, ID: "c1", Title: "Fix auth bug", Relevance: 160, MatchType: score.TitleStartsWith,
			Highlights: []string{"Title: Fix auth bug"}, URL: result.CardURL("b1", "c1")},
		{Type: entity.Board, ID: "b1", Title: "Auth platform", Relevance: 150, MatchType: score.TitleStartsWith,
			Highlights: []string{"Title: Auth platform"}, URL: result.BoardURL("b1")},
	}, domhistory.DefaultCaps)
	rec, err := domhistory.New(testID, testUser, "auth",
		filter.Spec{Labels: []string{"bug"}, Status: filter.StatusOpen},
		order.Relevance, order.Desc, summary, 42, testCreated)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rec
}

// storedRecord returns the JSON form of rec as Insert would write it.
func storedRecord(t *testing.T, rec domhistory.Record) []byte {
	t.Helper()
	data, err := encodeRecord(&rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}
