package filter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/boardsearch/internal/domain"
	"github.com/kailas-cloud/boardsearch/internal/domain/entity"
)

const (
	boardA = "0b6f6c3e-6c2c-4b6e-9a4f-1d2d3e4f5a60"
	boardB = "0b6f6c3e-6c2c-4b6e-9a4f-1d2d3e4f5a61"
	listA  = "1c7a7d4f-7d3d-4c7f-8b5a-2e3e4f5a6b70"
	userA  = "2d8b8e5a-8e4e-4d8a-9c6b-3f4f5a6b7c80"
)

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

// stubTarget is a card-like target with fixed field values.
type stubTarget struct {
	values map[Field][]string
	times  map[Field]time.Time
	flags  map[Field]bool
	counts map[Field]int
}

func (s stubTarget) Values(f Field) []string { return s.values[f] }

func (s stubTarget) Time(f Field) (time.Time, bool) {
	t, ok := s.times[f]
	return t, ok
}

func (s stubTarget) Flag(f Field) bool { return s.flags[f] }

func (s stubTarget) Count(f Field) int { return s.counts[f] }

func card() stubTarget {
	return stubTarget{
		values: map[Field][]string{
			FieldBoard:     {boardA},
			FieldList:      {listA},
			FieldAssignees: {userA},
			FieldLabels:    {"bug", "backend"},
			FieldPriority:  {"high"},
		},
		times:  map[Field]time.Time{FieldDueDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		flags:  map[Field]bool{},
		counts: map[Field]int{FieldAttachments: 2},
	}
}

// --- Spec validation ---

func TestSpecValidate_OK(t *testing.T) {
	s := Spec{
		Boards:     []string{boardA},
		Lists:      []string{listA},
		Assignees:  []string{userA},
		Labels:     []string{"anything goes"},
		Priorities: []Priority{PriorityLow, PriorityUrgent},
		Status:     StatusOverdue,
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSpecValidate_InvalidReference(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{"board", Spec{Boards: []string{boardA, "nope"}}, "filters.boards[1]"},
		{"list", Spec{Lists: []string{"123"}}, "filters.lists[0]"},
		{"assignee", Spec{Assignees: []string{""}}, "filters.assignees[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if !errors.Is(err, domain.ErrInvalidReference) {
				t.Fatalf("expected ErrInvalidReference, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestSpecValidate_BadEnums(t *testing.T) {
	for _, s := range []Spec{
		{Priorities: []Priority{"critical"}},
		{Status: "archived"},
	} {
		if err := s.Validate(); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation for %+v, got %v", s, err)
		}
	}
}

func TestSpecIsEmpty(t *testing.T) {
	if s := (Spec{}); !s.IsEmpty() {
		t.Error("zero spec should be empty")
	}
	if s := (Spec{Status: StatusAll, DueDate: &DateRange{}}); !s.IsEmpty() {
		t.Error("status=all with blank date range should be empty")
	}
	if s := (Spec{HasComments: boolPtr(false)}); s.IsEmpty() {
		t.Error("hasComments=false is a constraint")
	}
}

func TestPriorityRank(t *testing.T) {
	order := []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%s should rank below %s", order[i-1], order[i])
		}
	}
	if Priority("x").Rank() != 0 {
		t.Error("unknown priority should rank 0")
	}
}

// --- Build ---

func TestBuild_EmptySpec(t *testing.T) {
	now := time.Now()
	for _, et := range []entity.Type{entity.Board, entity.List, entity.Card} {
		p := Build(Spec{}, et, now)
		if len(p.conditions) != 0 {
			t.Errorf("%s: expected empty predicate", et)
		}
		if !p.Matches(stubTarget{}) {
			t.Errorf("%s: empty predicate must match anything", et)
		}
	}
}

func TestBuild_UnconstrainedSpecSkipsConditions(t *testing.T) {
	s := Spec{Status: StatusAll, DueDate: &DateRange{}}
	if p := Build(s, entity.Card, time.Now()); len(p.conditions) != 0 {
		t.Errorf("expected no conditions, got %d", len(p.conditions))
	}
}

func TestBuild_BoardsIgnoreEverything(t *testing.T) {
	s := Spec{Boards: []string{boardA}, Status: StatusCompleted, HasComments: boolPtr(true)}
	if p := Build(s, entity.Board, time.Now()); len(p.conditions) != 0 {
		t.Errorf("board predicate should be empty, got %d conditions", len(p.conditions))
	}
}

func TestBuild_ListsOnlyBoards(t *testing.T) {
	s := Spec{Boards: []string{boardA}, Lists: []string{listA}, Priorities: []Priority{PriorityHigh}}
	p := Build(s, entity.List, time.Now())
	conds := p.conditions
	if len(conds) != 1 {
		t.Fatalf("expected 1 condition, got %d", len(conds))
	}
	if conds[0].field != FieldBoard || conds[0].kind != KindIn {
		t.Errorf("unexpected condition %+v", conds[0])
	}
}

func TestBuild_CardStatus(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	open := card()
	done := card()
	done.flags[FieldCompleted] = true
	future := card()
	future.times[FieldDueDate] = now.Add(48 * time.Hour)
	noDue := card()
	delete(noDue.times, FieldDueDate)

	tests := []struct {
		status Status
		target stubTarget
		want   bool
	}{
		{StatusCompleted, done, true},
		{StatusCompleted, open, false},
		{StatusOpen, open, true},
		{StatusOpen, done, false},
		{StatusOverdue, open, true},
		{StatusOverdue, done, false},
		{StatusOverdue, future, false},
		{StatusOverdue, noDue, false},
		{StatusAll, done, true},
	}
	for _, tt := range tests {
		p := Build(Spec{Status: tt.status}, entity.Card, now)
		if got := p.Matches(tt.target); got != tt.want {
			t.Errorf("status=%s: Matches = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestBuild_CardDueDateRange(t *testing.T) {
	c := card() // due 2024-03-10
	tests := []struct {
		name string
		r    DateRange
		want bool
	}{
		{"start only before", DateRange{Start: timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))}, true},
		{"start only after", DateRange{Start: timePtr(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))}, false},
		{"end only after", DateRange{End: timePtr(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))}, true},
		{"closed inclusive", DateRange{
			Start: timePtr(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
			End:   timePtr(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
		}, true},
		{"closed outside", DateRange{
			Start: timePtr(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
			End:   timePtr(time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)),
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.r
			p := Build(Spec{DueDate: &r}, entity.Card, time.Now())
			if got := p.Matches(c); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuild_OverdueKeepsDateRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	s := Spec{
		Status:  StatusOverdue,
		DueDate: &DateRange{Start: timePtr(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))},
	}
	// due 03-10 is overdue but outside the requested range
	if Build(s, entity.Card, now).Matches(card()) {
		t.Error("overdue must combine with the date range, not replace it")
	}
}

func TestBuild_CardMembershipAndCollections(t *testing.T) {
	now := time.Now()
	c := card()
	tests := []struct {
		name string
		spec Spec
		want bool
	}{
		{"board hit", Spec{Boards: []string{boardB, boardA}}, true},
		{"board miss", Spec{Boards: []string{boardB}}, false},
		{"list hit", Spec{Lists: []string{listA}}, true},
		{"assignee hit", Spec{Assignees: []string{userA}}, true},
		{"label any-of", Spec{Labels: []string{"frontend", "bug"}}, true},
		{"label miss", Spec{Labels: []string{"frontend"}}, false},
		{"priority hit", Spec{Priorities: []Priority{PriorityHigh, PriorityUrgent}}, true},
		{"priority miss", Spec{Priorities: []Priority{PriorityLow}}, false},
		{"has attachments", Spec{HasAttachments: boolPtr(true)}, true},
		{"no attachments", Spec{HasAttachments: boolPtr(false)}, false},
		{"no comments", Spec{HasComments: boolPtr(false)}, true},
		{"has checklists", Spec{HasChecklists: boolPtr(true)}, false},
		{"conjunction fails on one", Spec{Boards: []string{boardA}, Labels: []string{"frontend"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Build(tt.spec, entity.Card, now).Matches(c); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCondition_InClonesValues(t *testing.T) {
	vals := []string{"a"}
	c := In(FieldLabels, vals)
	vals[0] = "b"
	if c.values[0] != "a" {
		t.Error("In must not alias caller slice")
	}
}
