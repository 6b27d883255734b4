package corpus

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/boardsearch/internal/db"
	domcorpus "github.com/kailas-cloud/boardsearch/internal/domain/corpus"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/candidate"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/order"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/result"
)

func find(t *testing.T, r *Repo, q candidate.Query) candidate.Set {
	t.Helper()
	if q.Now.IsZero() {
		q.Now = now
	}
	if q.SortBy == "" {
		q.SortBy = order.Relevance
	}
	if q.Direction == "" {
		q.Direction = order.Desc
	}
	set, err := r.Find(context.Background(), q)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	return set
}

func cardIDs(set candidate.Set) []string {
	out := make([]string, len(set.Cards))
	for i := range set.Cards {
		out[i] = set.Cards[i].Card.ID()
	}
	return out
}

func assertIDs(t *testing.T, what string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", what, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s = %v, want %v", what, got, want)
		}
	}
}

// --- Find ---

func TestFind_VisibilityAndText(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedWorkspace(t, repo)

	set := find(t, repo, candidate.Query{User: alice, Text: "auth"})

	// updatedAt desc, ties in id order
	assertIDs(t, "cards", cardIDs(set), []string{cardID(1), cardID(3), cardID(4), cardID(6), cardID(2)})

	var lists []string
	for _, l := range set.Lists {
		lists = append(lists, l.List.ID())
	}
	assertIDs(t, "lists", lists, []string{listTodo, listPublic})

	var boards []string
	for i := range set.Boards {
		boards = append(boards, set.Boards[i].ID())
	}
	assertIDs(t, "boards", boards, []string{boardAlice, boardPublic})
}

func TestFind_MemberSeesBoard(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedWorkspace(t, repo)

	set := find(t, repo, candidate.Query{User: bob, Text: "fix auth"})
	assertIDs(t, "cards", cardIDs(set), []string{cardID(1)})
}

func TestFind_TeamBoardHiddenFromNonMembers(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedWorkspace(t, repo)

	set := find(t, repo, candidate.Query{User: carol, Text: "auth"})
	assertIDs(t, "cards", cardIDs(set), []string{cardID(5), cardID(6)})

	set = find(t, repo, candidate.Query{User: alice, Text: "secret"})
	if set.Len() != 0 {
		t.Errorf("alice must not see carol's team board, got %d candidates", set.Len())
	}
}

func TestFind_NoVisibleBoards(t *testing.T) {
	repo, _ := newTestRepo(t)

	set := find(t, repo, candidate.Query{User: alice, Text: "auth"})
	if set.Len() != 0 {
		t.Errorf("expected empty set, got %d", set.Len())
	}
}

func TestFind_CrossReferences(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedWorkspace(t, repo)

	set := find(t, repo, candidate.Query{User: alice, Text: "fix auth"})
	if len(set.Cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(set.Cards))
	}
	c := set.Cards[0]
	if c.List != (result.Ref{ID: listTodo, Title: "Auth backlog"}) {
		t.Errorf("List = %+v", c.List)
	}
	if c.Board != (result.Ref{ID: boardAlice, Title: "Auth platform"}) {
		t.Errorf("Board = %+v", c.Board)
	}
	want := []result.UserRef{{ID: alice, DisplayName: "Alice Liddell"}, {ID: bob, DisplayName: "bob"}}
	if len(c.Assignees) != len(want) {
		t.Fatalf("Assignees = %+v", c.Assignees)
	}
	for i := range want {
		if c.Assignees[i] != want[i] {
			t.Errorf("Assignees[%d] = %+v, want %+v", i, c.Assignees[i], want[i])
		}
	}

	for _, l := range find(t, repo, candidate.Query{User: alice, Text: "backlog"}).Lists {
		if l.Board.Title != "Auth platform" {
			t.Errorf("list board title = %q", l.Board.Title)
		}
	}
}

func TestFind_Filters(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedWorkspace(t, repo)

	tests := []struct {
		name      string
		filters   filter.Spec
		wantCards []string
		wantLists int
	}{
		{"completed", filter.Spec{Status: filter.StatusCompleted}, []string{cardID(2)}, 2},
		{"open label", filter.Spec{Status: filter.StatusOpen, Labels: []string{"bug"}}, []string{cardID(1)}, 2},
		{"overdue", filter.Spec{Status: filter.StatusOverdue}, []string{cardID(1)}, 2},
		{"board scope", filter.Spec{Boards: []string{boardPublic}}, []string{cardID(6)}, 1},
		{"list", filter.Spec{Lists: []string{listDone}}, []string{cardID(2)}, 2},
		{"assignee", filter.Spec{Assignees: []string{bob}}, []string{cardID(1)}, 2},
		{"priority", filter.Spec{Priorities: []filter.Priority{filter.PriorityUrgent}}, []string{}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := find(t, repo, candidate.Query{User: alice, Text: "auth", Filters: tt.filters})
			assertIDs(t, "cards", cardIDs(set), tt.wantCards)
			if len(set.Lists) != tt.wantLists {
				t.Errorf("lists = %d, want %d", len(set.Lists), tt.wantLists)
			}
			if len(set.Boards) != 2 {
				t.Errorf("boards ignore filters, got %d", len(set.Boards))
			}
		})
	}
}

func TestFind_CapAppliesAfterPresort(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedWorkspace(t, repo)
	repo.WithCaps(Caps{Cards: 2})

	set := find(t, repo, candidate.Query{User: alice, Text: "auth", SortBy: order.Title, Direction: order.Asc})
	// "Auth SSO" < "Authorization cleanup" < "Fix auth bug" ...
	assertIDs(t, "cards", cardIDs(set), []string{cardID(6), cardID(2)})
	if len(set.Lists) != 2 {
		t.Errorf("list cap should keep default, got %d", len(set.Lists))
	}
}

func TestFind_PresortByPriority(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedWorkspace(t, repo)

	set := find(t, repo, candidate.Query{User: alice, Text: "auth", SortBy: order.Priority, Direction: order.Desc})
	assertIDs(t, "cards", cardIDs(set), []string{cardID(1), cardID(2), cardID(3), cardID(4), cardID(6)})
}

func TestFind_StoreErrors(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name string
		key  string
	}{
		{"boards index", testPrefix + "boards"},
		{"card index", testPrefix + "board:" + boardAlice + ":cards"},
		{"list record", testPrefix + "list:" + listTodo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, ms := newTestRepo(t)
			seedWorkspace(t, repo)
			ms.failFn = func(_, key string) error {
				if key == tt.key {
					return boom
				}
				return nil
			}
			_, err := repo.Find(context.Background(), candidate.Query{
				User: alice, Text: "auth", SortBy: order.Relevance, Direction: order.Desc, Now: now,
			})
			if !errors.Is(err, boom) {
				t.Fatalf("expected wrapped store error, got %v", err)
			}
		})
	}
}

// --- Put ---

func TestPutCard_CreatedThenMoved(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	c := card(cardID(9), "Move me", listTodo, boardAlice, nil)
	created, err := repo.PutCard(ctx, c)
	if err != nil || !created {
		t.Fatalf("first put: created=%v err=%v", created, err)
	}

	moved := card(cardID(9), "Move me", listPublic, boardPublic, nil)
	created, err = repo.PutCard(ctx, moved)
	if err != nil || created {
		t.Fatalf("second put: created=%v err=%v", created, err)
	}

	if _, ok := ms.sets[testPrefix+"board:"+boardAlice+":cards"][cardID(9)]; ok {
		t.Error("card still indexed under old board")
	}
	if _, ok := ms.sets[testPrefix+"board:"+boardPublic+":cards"][cardID(9)]; !ok {
		t.Error("card not indexed under new board")
	}
}

func TestPutBoard_SetError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.failFn = func(op, _ string) error {
		if op == db.OpSet {
			return errors.New("readonly")
		}
		return nil
	}
	b := domcorpus.ReconstructBoard(boardAlice, "t", "", alice, nil, domcorpus.Private, now, now)
	if _, err := repo.PutBoard(context.Background(), b); err == nil {
		t.Fatal("expected error")
	}
	if len(ms.sets[testPrefix+"boards"]) != 0 {
		t.Error("board must not be indexed when the record write fails")
	}
}

// --- Suggest ---

func TestSuggestCards(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedWorkspace(t, repo)

	got, err := repo.SuggestCards(context.Background(), alice, "AUTH", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := make([]string, len(got))
	for i := range got {
		ids[i] = got[i].ID()
	}
	// description-only match (card 3) is excluded; tag match (card 4) included
	assertIDs(t, "suggestions", ids, []string{cardID(1), cardID(4), cardID(6)})
}

func TestSuggestLabels(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedWorkspace(t, repo)

	got, err := repo.SuggestLabels(context.Background(), alice, "auth", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, "labels", got, []string{"auth", "authz"})

	got, _ = repo.SuggestLabels(context.Background(), alice, "auth", 1)
	assertIDs(t, "labels", got, []string{"auth"})

	got, _ = repo.SuggestLabels(context.Background(), carol, "back", 5)
	if len(got) != 0 {
		t.Errorf("carol cannot see backend label, got %v", got)
	}
}
