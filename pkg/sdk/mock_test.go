package boardsearch

import (
	"context"
	"time"

	domcorpus "github.com/kailas-cloud/boardsearch/internal/domain/corpus"
	domhistory "github.com/kailas-cloud/boardsearch/internal/domain/history"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/boardsearch/internal/usecase/health"
	historyuc "github.com/kailas-cloud/boardsearch/internal/usecase/history"
	searchuc "github.com/kailas-cloud/boardsearch/internal/usecase/search"
)

const (
	testUser  = "3f9b2c1e-6a4d-4e8f-9b7a-1c2d3e4f5a6b"
	testBoard = "0b6c2d4e-1f3a-4b5c-8d7e-9f0a1b2c3d4e"
	testList  = "1c7d3e5f-2a4b-4c6d-9e8f-0a1b2c3d4e5f"
	testCard  = "2d8e4f6a-3b5c-4d7e-8f9a-1b2c3d4e5f6a"
	testID    = "6f1c0f5e-8d7a-4c1e-9a53-3a1f0b2c4d5e"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, user string, req *request.Request) (searchuc.Response, error)
}

func (m *mockSearchUC) Search(ctx context.Context, user string, req *request.Request) (searchuc.Response, error) {
	return m.searchFn(ctx, user, req)
}

// --- historyUseCase mock ---

type mockHistoryUC struct {
	saveFn    func(ctx context.Context, id, user string) (domhistory.Record, error)
	unsaveFn  func(ctx context.Context, id, user string) (domhistory.Record, error)
	deleteFn  func(ctx context.Context, id, user string) error
	historyFn func(ctx context.Context, user string, page, limit int) (historyuc.Page, error)
	savedFn   func(ctx context.Context, user string, page, limit int) (historyuc.Page, error)
	suggestFn func(ctx context.Context, user, partial string, limit int) (domhistory.Suggestions, error)
	statsFn   func(ctx context.Context, user string) (domhistory.Stats, error)
}

func (m *mockHistoryUC) Save(ctx context.Context, id, user string) (domhistory.Record, error) {
	return m.saveFn(ctx, id, user)
}

func (m *mockHistoryUC) Unsave(ctx context.Context, id, user string) (domhistory.Record, error) {
	return m.unsaveFn(ctx, id, user)
}

func (m *mockHistoryUC) Delete(ctx context.Context, id, user string) error {
	return m.deleteFn(ctx, id, user)
}

func (m *mockHistoryUC) History(ctx context.Context, user string, page, limit int) (historyuc.Page, error) {
	return m.historyFn(ctx, user, page, limit)
}

func (m *mockHistoryUC) Saved(ctx context.Context, user string, page, limit int) (historyuc.Page, error) {
	return m.savedFn(ctx, user, page, limit)
}

func (m *mockHistoryUC) Suggest(
	ctx context.Context, user, partial string, limit int,
) (domhistory.Suggestions, error) {
	return m.suggestFn(ctx, user, partial, limit)
}

func (m *mockHistoryUC) Stats(ctx context.Context, user string) (domhistory.Stats, error) {
	return m.statsFn(ctx, user)
}

// --- corpusWriter mock ---

type mockCorpus struct {
	boards []domcorpus.Board
	lists  []domcorpus.List
	cards  []domcorpus.Card
	users  []domcorpus.User
	err    error
}

func (m *mockCorpus) PutBoard(_ context.Context, b domcorpus.Board) (bool, error) {
	m.boards = append(m.boards, b)
	return true, m.err
}

func (m *mockCorpus) PutList(_ context.Context, l domcorpus.List) (bool, error) {
	m.lists = append(m.lists, l)
	return true, m.err
}

func (m *mockCorpus) PutCard(_ context.Context, c domcorpus.Card) (bool, error) {
	m.cards = append(m.cards, c)
	return true, m.err
}

func (m *mockCorpus) PutUser(_ context.Context, u domcorpus.User) (bool, error) {
	m.users = append(m.users, u)
	return true, m.err
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }
