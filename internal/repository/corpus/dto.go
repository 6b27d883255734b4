package corpus

import (
	"encoding/json"
	"fmt"
	"time"

	domcorpus "github.com/kailas-cloud/boardsearch/internal/domain/corpus"
	"github.com/kailas-cloud/boardsearch/internal/domain/search/filter"
)

// boardRow is the stored JSON form of a board.
type boardRow struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Owner       string    `json:"owner"`
	Members     []string  `json:"members,omitempty"`
	Visibility  string    `json:"visibility"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type listRow struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Board     string    `json:"board"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type labelRow struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type cardRow struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	List        string     `json:"list"`
	Board       string     `json:"board"`
	Assignees   []string   `json:"assignees,omitempty"`
	Labels      []labelRow `json:"labels,omitempty"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
	Attachments int        `json:"attachments"`
	Comments    int        `json:"comments"`
	Checklists  int        `json:"checklists"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type userRow struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func encodeBoard(b *domcorpus.Board) ([]byte, error) {
	return json.Marshal(boardRow{
		ID: b.ID(), Title: b.Title(), Description: b.Description(),
		Owner: b.Owner(), Members: b.Members(), Visibility: string(b.Visibility()),
		CreatedAt: b.CreatedAt(), UpdatedAt: b.UpdatedAt(),
	})
}

func decodeBoard(data []byte) (domcorpus.Board, error) {
	var r boardRow
	if err := json.Unmarshal(data, &r); err != nil {
		return domcorpus.Board{}, fmt.Errorf("unmarshal board: %w", err)
	}
	return domcorpus.ReconstructBoard(
		r.ID, r.Title, r.Description, r.Owner, r.Members,
		domcorpus.Visibility(r.Visibility), r.CreatedAt, r.UpdatedAt,
	), nil
}

func encodeList(l *domcorpus.List) ([]byte, error) {
	return json.Marshal(listRow{
		ID: l.ID(), Title: l.Title(), Board: l.Board(),
		CreatedAt: l.CreatedAt(), UpdatedAt: l.UpdatedAt(),
	})
}

func decodeList(data []byte) (domcorpus.List, error) {
	var r listRow
	if err := json.Unmarshal(data, &r); err != nil {
		return domcorpus.List{}, fmt.Errorf("unmarshal list: %w", err)
	}
	return domcorpus.ReconstructList(r.ID, r.Title, r.Board, r.CreatedAt, r.UpdatedAt), nil
}

func encodeCard(c *domcorpus.Card) ([]byte, error) {
	f := c.Fields()
	labels := make([]labelRow, len(f.Labels))
	for i, l := range f.Labels {
		labels[i] = labelRow{Name: l.Name, Color: l.Color}
	}
	return json.Marshal(cardRow{
		ID: f.ID, Title: f.Title, Description: f.Description,
		List: f.List, Board: f.Board, Assignees: f.Assignees, Labels: labels,
		Priority: string(f.Priority), DueDate: f.DueDate, IsCompleted: f.IsCompleted,
		Attachments: f.AttachmentCount, Comments: f.CommentCount, Checklists: f.ChecklistCount,
		Tags: f.Tags, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt,
	})
}

func decodeCard(data []byte) (domcorpus.Card, error) {
	var r cardRow
	if err := json.Unmarshal(data, &r); err != nil {
		return domcorpus.Card{}, fmt.Errorf("unmarshal card: %w", err)
	}
	var labels []domcorpus.Label
	if len(r.Labels) > 0 {
		labels = make([]domcorpus.Label, len(r.Labels))
		for i, l := range r.Labels {
			labels[i] = domcorpus.Label{Name: l.Name, Color: l.Color}
		}
	}
	return domcorpus.ReconstructCard(domcorpus.CardFields{
		ID: r.ID, Title: r.Title, Description: r.Description,
		List: r.List, Board: r.Board, Assignees: r.Assignees, Labels: labels,
		Priority: filter.Priority(r.Priority), DueDate: r.DueDate, IsCompleted: r.IsCompleted,
		AttachmentCount: r.Attachments, CommentCount: r.Comments, ChecklistCount: r.Checklists,
		Tags: r.Tags, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}), nil
}

func encodeUser(u *domcorpus.User) ([]byte, error) {
	return json.Marshal(userRow{
		ID: u.ID(), Username: u.Username(), FirstName: u.FirstName(), LastName: u.LastName(),
	})
}

func decodeUser(data []byte) (domcorpus.User, error) {
	var r userRow
	if err := json.Unmarshal(data, &r); err != nil {
		return domcorpus.User{}, fmt.Errorf("unmarshal user: %w", err)
	}
	return domcorpus.ReconstructUser(r.ID, r.Username, r.FirstName, r.LastName), nil
}
