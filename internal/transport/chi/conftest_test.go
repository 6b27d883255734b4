package chi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	domhistory "github.com/kailas-cloud/boardsearch/internal/domain/history"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/boardsearch/internal/usecase/health"
	historyuc "github.com/kailas-cloud/boardsearch/internal/usecase/history"
	searchuc "github.com/kailas-cloud/boardsearch/internal/usecase/search"
)

const (
	testToken = "tok-alice"
	testUser  = "alice"
	testID    = "6f1c0f5e-8d7a-4c1e-9a53-3a1f0b2c4d5e"
)

var testCreated = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// --- mockSearcher ---

type mockSearcher struct {
	searchFn func(ctx context.Context, user string, req *request.Request) (searchuc.Response, error)
}

func (m *mockSearcher) Search(ctx context.Context, user string, req *request.Request) (searchuc.Response, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, user, req)
	}
	return searchuc.Response{}, nil
}

// --- mockHistory ---

type mockHistory struct {
	saveFn    func(ctx context.Context, id, user string) (domhistory.Record, error)
	unsaveFn  func(ctx context.Context, id, user string) (domhistory.Record, error)
	deleteFn  func(ctx context.Context, id, user string) error
	historyFn func(ctx context.Context, user string, page, limit int) (historyuc.Page, error)
	savedFn   func(ctx context.Context, user string, page, limit int) (historyuc.Page, error)
	suggestFn func(ctx context.Context, user, partial string, limit int) (domhistory.Suggestions, error)
	statsFn   func(ctx context.Context, user string) (domhistory.Stats, error)
}

func (m *mockHistory) Save(ctx context.Context, id, user string) (domhistory.Record, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, id, user)
	}
	return domhistory.Record{}, nil
}

func (m *mockHistory) Unsave(ctx context.Context, id, user string) (domhistory.Record, error) {
	if m.unsaveFn != nil {
		return m.unsaveFn(ctx, id, user)
	}
	return domhistory.Record{}, nil
}

func (m *mockHistory) Delete(ctx context.Context, id, user string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, user)
	}
	return nil
}

func (m *mockHistory) History(ctx context.Context, user string, page, limit int) (historyuc.Page, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, user, page, limit)
	}
	return historyuc.Page{}, nil
}

func (m *mockHistory) Saved(ctx context.Context, user string, page, limit int) (historyuc.Page, error) {
	if m.savedFn != nil {
		return m.savedFn(ctx, user, page, limit)
	}
	return historyuc.Page{}, nil
}

func (m *mockHistory) Suggest(
	ctx context.Context, user, partial string, limit int,
) (domhistory.Suggestions, error) {
	if m.suggestFn != nil {
		return m.suggestFn(ctx, user, partial, limit)
	}
	return domhistory.Suggestions{}, nil
}

func (m *mockHistory) Stats(ctx context.Context, user string) (domhistory.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, user)
	}
	return domhistory.Stats{}, nil
}

// --- mockHealth ---

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

type testServer struct {
	search  *mockSearcher
	history *mockHistory
	health  *mockHealth
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		search:  &mockSearcher{},
		history: &mockHistory{},
		health:  &mockHealth{report: healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}}},
	}
	srv := NewServer(ts.search, ts.history, ts.health, zap.NewNop())
	ts.handler = srv.Router(map[string]string{testToken: testUser})
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func testRecord(t *testing.T) domhistory.Record {
	t.Helper()
	rec, err := domhistory.New(testID, testUser, "auth", filter.Spec{}, order.Relevance, order.Desc, domhistory.Summary{}, 1234, testCreated)
	if err != nil {
		t.Fatalf("build record: %v", err)
	}
	return rec
}
