package filter

import (
	"slices"
	"time"

	"github.com/kailas-cloud/boardsearch/internal/domain/entity"
)

// Field names a filterable attribute of a corpus entity.
type Field string

// Filterable fields.
const (
	FieldBoard       Field = "board"
	FieldList        Field = "list"
	FieldAssignees   Field = "assignees"
	FieldLabels      Field = "labels.name"
	FieldPriority    Field = "priority"
	FieldDueDate     Field = "dueDate"
	FieldCompleted   Field = "isCompleted"
	FieldAttachments Field = "attachments"
	FieldComments    Field = "comments"
	FieldChecklists  Field = "checklists"
)

// Target is an entity a predicate can be evaluated against.
// Fields an entity does not carry report zero values.
type Target interface {
	Values(f Field) []string
	Time(f Field) (time.Time, bool)
	Flag(f Field) bool
	Count(f Field) int
}

// Kind is the shape of a condition.
type Kind int

// Condition kinds.
const (
	KindIn Kind = iota
	KindRange
	KindFlag
	KindNonEmpty
)

// Condition is a single typed constraint on one field.
type Condition struct {
	kind   Kind
	field  Field
	values []string
	gte    *time.Time
	lte    *time.Time
	lt     *time.Time
	flag   bool
}

// In matches when any of the entity's values for field is in values.
func In(field Field, values []string) Condition {
	return Condition{kind: KindIn, field: field, values: slices.Clone(values)}
}

// Between matches a time field inside [gte, lte]. A nil side is unbounded.
func Between(field Field, gte, lte *time.Time) Condition {
	return Condition{kind: KindRange, field: field, gte: gte, lte: lte}
}

// Before matches a time field strictly earlier than t.
func Before(field Field, t time.Time) Condition {
	return Condition{kind: KindRange, field: field, lt: &t}
}

// Is matches a boolean field equal to v.
func Is(field Field, v bool) Condition {
	return Condition{kind: KindFlag, field: field, flag: v}
}

// NonEmpty matches when the sub-collection has at least one element (v=true) or none (v=false).
func NonEmpty(field Field, v bool) Condition {
	return Condition{kind: KindNonEmpty, field: field, flag: v}
}

// Matches evaluates the condition against t.
func (c Condition) Matches(t Target) bool {
	switch c.kind {
	case KindIn:
		for _, v := range t.Values(c.field) {
			if slices.Contains(c.values, v) {
				return true
			}
		}
		return false
	case KindRange:
		ts, ok := t.Time(c.field)
		if !ok {
			return false
		}
		if c.gte != nil && ts.Before(*c.gte) {
			return false
		}
		if c.lte != nil && ts.After(*c.lte) {
			return false
		}
		if c.lt != nil && !ts.Before(*c.lt) {
			return false
		}
		return true
	case KindFlag:
		return t.Flag(c.field) == c.flag
	case KindNonEmpty:
		return (t.Count(c.field) > 0) == c.flag
	}
	return false
}

// Predicate is a conjunction of conditions for one entity type.
type Predicate struct {
	conditions []Condition
}

// Matches reports whether t satisfies every condition.
func (p Predicate) Matches(t Target) bool {
	for _, c := range p.conditions {
		if !c.Matches(t) {
			return false
		}
	}
	return true
}

// Build translates spec into the predicate for entity type et.
// Cards honour every field, lists only boards, boards nothing.
// The spec is expected to be validated already.
func Build(spec Spec, et entity.Type, now time.Time) Predicate {
	if spec.IsEmpty() {
		return Predicate{}
	}

	var conds []Condition

	switch et {
	case entity.Card:
		conds = buildCard(spec, now)
	case entity.List:
		if len(spec.Boards) > 0 {
			conds = append(conds, In(FieldBoard, spec.Boards))
		}
	}

	return Predicate{conditions: conds}
}

func buildCard(spec Spec, now time.Time) []Condition {
	var conds []Condition

	if len(spec.Boards) > 0 {
		conds = append(conds, In(FieldBoard, spec.Boards))
	}
	if len(spec.Lists) > 0 {
		conds = append(conds, In(FieldList, spec.Lists))
	}
	if len(spec.Assignees) > 0 {
		conds = append(conds, In(FieldAssignees, spec.Assignees))
	}
	if len(spec.Labels) > 0 {
		conds = append(conds, In(FieldLabels, spec.Labels))
	}
	if len(spec.Priorities) > 0 {
		ps := make([]string, len(spec.Priorities))
		for i, p := range spec.Priorities {
			ps[i] = string(p)
		}
		conds = append(conds, In(FieldPriority, ps))
	}
	if spec.DueDate != nil && (spec.DueDate.Start != nil || spec.DueDate.End != nil) {
		conds = append(conds, Between(FieldDueDate, spec.DueDate.Start, spec.DueDate.End))
	}

	switch spec.Status {
	case StatusCompleted:
		conds = append(conds, Is(FieldCompleted, true))
	case StatusOpen:
		conds = append(conds, Is(FieldCompleted, false))
	case StatusOverdue:
		conds = append(conds, Before(FieldDueDate, now), Is(FieldCompleted, false))
	}

	if spec.HasAttachments != nil {
		conds = append(conds, NonEmpty(FieldAttachments, *spec.HasAttachments))
	}
	if spec.HasComments != nil {
		conds = append(conds, NonEmpty(FieldComments, *spec.HasComments))
	}
	if spec.HasChecklists != nil {
		conds = append(conds, NonEmpty(FieldChecklists, *spec.HasChecklists))
	}

	return conds
}
