package order

import (
	"cmp"
	"strings"
	"time"
)

// Field is the merged-result sort key.
type Field string

// Sort field constants.
const (
	// Relevance sorts by score, ties broken by updatedAt.
	Relevance Field = "relevance"
	Title     Field = "title"
	CreatedAt Field = "createdAt"
	UpdatedAt Field = "updatedAt"
	DueDate   Field = "dueDate"
	Priority  Field = "priority"
)

// IsValid checks if the field is one of the supported values.
func (f Field) IsValid() bool {
	switch f {
	case Relevance, Title, CreatedAt, UpdatedAt, DueDate, Priority:
		return true
	}
	return false
}

// Direction is the sort direction.
type Direction string

// Direction constants.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// IsValid checks if the direction is one of the supported values.
func (d Direction) IsValid() bool {
	return d == Asc || d == Desc
}

// Apply orients an ascending comparison result by d.
func (d Direction) Apply(c int) int {
	if d == Desc {
		return -c
	}
	return c
}

// Keys are the sortable attributes of one entity. Entities without a due
// date or priority leave them zero.
type Keys struct {
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DueDate   time.Time
	Priority  int
}

// Compare orders a and b ascending by f. Titles compare case-insensitively.
// Relevance is not a key attribute and always compares equal.
func Compare(f Field, a, b Keys) int {
	switch f {
	case Title:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case CreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case UpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case DueDate:
		return a.DueDate.Compare(b.DueDate)
	case Priority:
		return cmp.Compare(a.Priority, b.Priority)
	}
	return 0
}
