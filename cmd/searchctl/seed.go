package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	boardsearch "github.com/kailas-cloud/boardsearch/pkg/sdk"
)

// seedFile is the YAML layout accepted by `searchctl seed`.
type seedFile struct {
	Users  []seedUser  `yaml:"users"`
	Boards []seedBoard `yaml:"boards"`
	Lists  []seedList  `yaml:"lists"`
	Cards  []seedCard  `yaml:"cards"`
}

type seedUser struct {
	ID        string `yaml:"id"`
	Username  string `yaml:"username"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
}

type seedBoard struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Owner       string    `yaml:"owner"`
	Members     []string  `yaml:"members"`
	Visibility  string    `yaml:"visibility"`
	CreatedAt   time.Time `yaml:"createdAt"`
	UpdatedAt   time.Time `yaml:"updatedAt"`
}

type seedList struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	Board     string    `yaml:"board"`
	CreatedAt time.Time `yaml:"createdAt"`
	UpdatedAt time.Time `yaml:"updatedAt"`
}

type seedLabel struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type seedCard struct {
	ID              string      `yaml:"id"`
	Title           string      `yaml:"title"`
	Description     string      `yaml:"description"`
	List            string      `yaml:"list"`
	Board           string      `yaml:"board"`
	Assignees       []string    `yaml:"assignees"`
	Labels          []seedLabel `yaml:"labels"`
	Priority        string      `yaml:"priority"`
	DueDate         *time.Time  `yaml:"dueDate"`
	IsCompleted     bool        `yaml:"isCompleted"`
	AttachmentCount int         `yaml:"attachmentCount"`
	CommentCount    int         `yaml:"commentCount"`
	ChecklistCount  int         `yaml:"checklistCount"`
	Tags            []string    `yaml:"tags"`
	CreatedAt       time.Time   `yaml:"createdAt"`
	UpdatedAt       time.Time   `yaml:"updatedAt"`
}

// corpusPutter is satisfied by *boardsearch.CorpusService.
type corpusPutter interface {
	PutUser(ctx context.Context, u boardsearch.User) (bool, error)
	PutBoard(ctx context.Context, b boardsearch.Board) (bool, error)
	PutList(ctx context.Context, l boardsearch.List) (bool, error)
	PutCard(ctx context.Context, c boardsearch.Card) (bool, error)
}

// seedCounts tallies created and updated entities per kind.
type seedCounts struct {
	Created map[string]int `json:"created"`
	Updated map[string]int `json:"updated"`
}

func (c *seedCounts) add(kind string, created bool) {
	if created {
		c.Created[kind]++
	} else {
		c.Updated[kind]++
	}
}

func decodeSeed(r io.Reader) (seedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f seedFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return seedFile{}, nil
		}
		return seedFile{}, fmt.Errorf("decode seed file: %w", err)
	}
	return f, nil
}

// applySeed writes users, boards, lists and cards in that order and stops
// at the first failure.
func applySeed(ctx context.Context, p corpusPutter, f *seedFile) (seedCounts, error) {
	counts := seedCounts{Created: map[string]int{}, Updated: map[string]int{}}

	for _, u := range f.Users {
		created, err := p.PutUser(ctx, boardsearch.User{
			ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName,
		})
		if err != nil {
			return counts, err
		}
		counts.add("users", created)
	}
	for i := range f.Boards {
		b := &f.Boards[i]
		created, err := p.PutBoard(ctx, boardsearch.Board{
			ID: b.ID, Title: b.Title, Description: b.Description, Owner: b.Owner,
			Members: b.Members, Visibility: boardsearch.Visibility(b.Visibility),
			CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
		})
		if err != nil {
			return counts, err
		}
		counts.add("boards", created)
	}
	for _, l := range f.Lists {
		created, err := p.PutList(ctx, boardsearch.List{
			ID: l.ID, Title: l.Title, Board: l.Board, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt,
		})
		if err != nil {
			return counts, err
		}
		counts.add("lists", created)
	}
	for i := range f.Cards {
		created, err := p.PutCard(ctx, f.Cards[i].toSDK())
		if err != nil {
			return counts, err
		}
		counts.add("cards", created)
	}
	return counts, nil
}

func (c *seedCard) toSDK() boardsearch.Card {
	labels := make([]boardsearch.Label, len(c.Labels))
	for i, l := range c.Labels {
		labels[i] = boardsearch.Label{Name: l.Name, Color: l.Color}
	}
	return boardsearch.Card{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		List:            c.List,
		Board:           c.Board,
		Assignees:       c.Assignees,
		Labels:          labels,
		Priority:        boardsearch.Priority(c.Priority),
		DueDate:         c.DueDate,
		IsCompleted:     c.IsCompleted,
		AttachmentCount: c.AttachmentCount,
		CommentCount:    c.CommentCount,
		ChecklistCount:  c.ChecklistCount,
		Tags:            c.Tags,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "seed <file.yaml>",
		Short:   "Load users, boards, lists and cards from a YAML file",
		GroupID: "corpus",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer fh.Close()

			f, err := decodeSeed(fh)
			if err != nil {
				return err
			}
			counts, err := applySeed(cmd.Context(), a.client.Corpus(), &f)
			if err != nil {
				return fmt.Errorf("seed %s: %w", args[0], err)
			}
			if a.opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), counts)
			}
			printSeedCounts(cmd.OutOrStdout(), counts)
			return nil
		},
	}
}
