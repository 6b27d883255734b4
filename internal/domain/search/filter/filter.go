package filter

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/boardsearch/internal/domain"
)

// Status narrows cards by completion state.
type Status string

// Status constants.
const (
	StatusAll       Status = "all"
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// IsValid checks if the status is one of the supported values. Empty means all.
func (s Status) IsValid() bool {
	switch s {
	case "", StatusAll, StatusOpen, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// Priority is a card priority level.
type Priority string

// Priority constants.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if the priority is one of the supported values.
func (p Priority) IsValid() bool {
	return p.Rank() > 0
}

// Rank orders priorities from low (1) to urgent (4). Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}

// DateRange bounds a due date. Either side may be open.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Spec is the structured filter object as submitted by the caller.
// Absent fields impose no constraint.
type Spec struct {
	Boards         []string   `json:"boards,omitempty"`
	Lists          []string   `json:"lists,omitempty"`
	Assignees      []string   `json:"assignees,omitempty"`
	Labels         []string   `json:"labels,omitempty"`
	Priorities     []Priority `json:"priorities,omitempty"`
	DueDate        *DateRange `json:"dueDate,omitempty"`
	Status         Status     `json:"status,omitempty"`
	HasAttachments *bool      `json:"hasAttachments,omitempty"`
	HasComments    *bool      `json:"hasComments,omitempty"`
	HasChecklists  *bool      `json:"hasChecklists,omitempty"`
}

// Validate checks referenced IDs and enum values.
// Malformed IDs wrap domain.ErrInvalidReference, bad enums wrap domain.ErrValidation.
func (s *Spec) Validate() error {
	refs := []struct {
		name string
		ids  []string
	}{
		{"boards", s.Boards},
		{"lists", s.Lists},
		{"assignees", s.Assignees},
	}
	for _, r := range refs {
		for i, id := range r.ids {
			if err := uuid.Validate(id); err != nil {
				return fmt.Errorf("%w: filters.%s[%d] %q is not a valid id", domain.ErrInvalidReference, r.name, i, id)
			}
		}
	}
	for i, p := range s.Priorities {
		if !p.IsValid() {
			return fmt.Errorf("%w: filters.priorities[%d] %q is not a valid priority", domain.ErrValidation, i, p)
		}
	}
	if !s.Status.IsValid() {
		return fmt.Errorf("%w: filters.status %q is not a valid status", domain.ErrValidation, s.Status)
	}
	return nil
}

// IsEmpty reports whether the spec imposes no constraint at all.
func (s *Spec) IsEmpty() bool {
	return len(s.Boards) == 0 && len(s.Lists) == 0 && len(s.Assignees) == 0 &&
		len(s.Labels) == 0 && len(s.Priorities) == 0 &&
		(s.DueDate == nil || (s.DueDate.Start == nil && s.DueDate.End == nil)) &&
		(s.Status == "" || s.Status == StatusAll) &&
		s.HasAttachments == nil && s.HasComments == nil && s.HasChecklists == nil
}
