// Package corpus reads and writes the board/list/card snapshots that search
// runs over, and implements the per-type candidate queries.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/kailas-cloud/boardsearch/internal/db"
	domcorpus "github.com/kailas-cloud/boardsearch/internal/domain/corpus"
)

// store is the consumer interface for the corpus (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Caps bounds how many candidates of each type one query returns.
type Caps struct {
	Cards  int
	Lists  int
	Boards int
}

// DefaultCaps are the per-type candidate limits.
var DefaultCaps = Caps{Cards: 100, Lists: 50, Boards: 20}

// Repo implements the entity search gateway over a key-value store.
type Repo struct {
	store  store
	prefix string
	caps   Caps
}

// New creates a corpus repository. Keys are namespaced under prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix, caps: DefaultCaps}
}

// WithCaps overrides candidate caps. Non-positive values keep the default.
func (r *Repo) WithCaps(c Caps) *Repo {
	if c.Cards > 0 {
		r.caps.Cards = c.Cards
	}
	if c.Lists > 0 {
		r.caps.Lists = c.Lists
	}
	if c.Boards > 0 {
		r.caps.Boards = c.Boards
	}
	return r
}

// Key layout:
//   {prefix}boards               set of board ids
//   {prefix}board:{id}           board JSON
//   {prefix}board:{id}:lists     set of list ids on the board
//   {prefix}board:{id}:cards     set of card ids on the board
//   {prefix}list:{id}, card:{id}, user:{id}

func (r *Repo) boardsKey() string { return r.prefix + "boards" }
func (r *Repo) boardKey(id string) string { return r.prefix + "board:" + id }
func (r *Repo) boardListsKey(id string) string { return r.prefix + "board:" + id + ":lists" }
func (r *Repo) boardCardsKey(id string) string { return r.prefix + "board:" + id + ":cards" }
func (r *Repo) listKey(id string) string { return r.prefix + "list:" + id }
func (r *Repo) cardKey(id string) string { return r.prefix + "card:" + id }
func (r *Repo) userKey(id string) string { return r.prefix + "user:" + id }

// PutBoard creates or replaces a board. Returns true if created.
func (r *Repo) PutBoard(ctx context.Context, b domcorpus.Board) (bool, error) {
	key := r.boardKey(b.ID())
	created, err := r.absent(ctx, key)
	if err != nil {
		return false, err
	}
	data, err := encodeBoard(&b)
	if err != nil {
		return false, err
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return false, fmt.Errorf("set %s: %w", key, err)
	}
	if err := r.store.SAdd(ctx, r.boardsKey(), b.ID()); err != nil {
		return false, fmt.Errorf("index board %s: %w", b.ID(), err)
	}
	return created, nil
}

// PutList creates or replaces a list, moving it between board indexes if needed.
func (r *Repo) PutList(ctx context.Context, l domcorpus.List) (bool, error) {
	key := r.listKey(l.ID())
	prev, err := r.store.Get(ctx, key)
	created := errors.Is(err, db.ErrKeyNotFound)
	if err != nil && !created {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if !created {
		old, err := decodeList(prev)
		if err != nil {
			return false, err
		}
		if old.Board() != l.Board() {
			if err := r.store.SRem(ctx, r.boardListsKey(old.Board()), l.ID()); err != nil {
				return false, fmt.Errorf("unindex list %s: %w", l.ID(), err)
			}
		}
	}

	data, err := encodeList(&l)
	if err != nil {
		return false, err
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return false, fmt.Errorf("set %s: %w", key, err)
	}
	if err := r.store.SAdd(ctx, r.boardListsKey(l.Board()), l.ID()); err != nil {
		return false, fmt.Errorf("index list %s: %w", l.ID(), err)
	}
	return created, nil
}

// PutCard creates or replaces a card, moving it between board indexes if needed.
func (r *Repo) PutCard(ctx context.Context, c domcorpus.Card) (bool, error) {
	key := r.cardKey(c.ID())
	prev, err := r.store.Get(ctx, key)
	created := errors.Is(err, db.ErrKeyNotFound)
	if err != nil && !created {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if !created {
		old, err := decodeCard(prev)
		if err != nil {
			return false, err
		}
		if old.Board() != c.Board() {
			if err := r.store.SRem(ctx, r.boardCardsKey(old.Board()), c.ID()); err != nil {
				return false, fmt.Errorf("unindex card %s: %w", c.ID(), err)
			}
		}
	}

	data, err := encodeCard(&c)
	if err != nil {
		return false, err
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return false, fmt.Errorf("set %s: %w", key, err)
	}
	if err := r.store.SAdd(ctx, r.boardCardsKey(c.Board()), c.ID()); err != nil {
		return false, fmt.Errorf("index card %s: %w", c.ID(), err)
	}
	return created, nil
}

// PutUser creates or replaces a user projection.
func (r *Repo) PutUser(ctx context.Context, u domcorpus.User) (bool, error) {
	key := r.userKey(u.ID())
	created, err := r.absent(ctx, key)
	if err != nil {
		return false, err
	}
	data, err := encodeUser(&u)
	if err != nil {
		return false, err
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return false, fmt.Errorf("set %s: %w", key, err)
	}
	return created, nil
}

func (r *Repo) absent(ctx context.Context, key string) (bool, error) {
	_, err := r.store.Get(ctx, key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	return false, nil
}

// visibleBoards loads every board the user may see, ordered by id.
func (r *Repo) visibleBoards(ctx context.Context, user string) ([]domcorpus.Board, error) {
	ids, err := r.store.SMembers(ctx, r.boardsKey())
	if err != nil {
		return nil, fmt.Errorf("smembers boards: %w", err)
	}
	slices.Sort(ids)

	raw, err := r.store.MGet(ctx, r.keys(ids, r.boardKey))
	if err != nil {
		return nil, fmt.Errorf("mget boards: %w", err)
	}
	boards := make([]domcorpus.Board, 0, len(raw))
	for _, data := range raw {
		if data == nil {
			continue
		}
		b, err := decodeBoard(data)
		if err != nil {
			return nil, err
		}
		if b.VisibleTo(user) {
			boards = append(boards, b)
		}
	}
	return boards, nil
}

// memberIDs unions the id sets behind setKey for each board, sorted.
func (r *Repo) memberIDs(ctx context.Context, boards []domcorpus.Board, setKey func(string) string) ([]string, error) {
	var ids []string
	for i := range boards {
		key := setKey(boards[i].ID())
		members, err := r.store.SMembers(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("smembers %s: %w", key, err)
		}
		ids = append(ids, members...)
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func (r *Repo) loadCards(ctx context.Context, boards []domcorpus.Board) ([]domcorpus.Card, error) {
	ids, err := r.memberIDs(ctx, boards, r.boardCardsKey)
	if err != nil {
		return nil, err
	}
	raw, err := r.store.MGet(ctx, r.keys(ids, r.cardKey))
	if err != nil {
		return nil, fmt.Errorf("mget cards: %w", err)
	}
	cards := make([]domcorpus.Card, 0, len(raw))
	for _, data := range raw {
		if data == nil {
			continue
		}
		c, err := decodeCard(data)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func (r *Repo) loadLists(ctx context.Context, boards []domcorpus.Board) ([]domcorpus.List, error) {
	ids, err := r.memberIDs(ctx, boards, r.boardListsKey)
	if err != nil {
		return nil, err
	}
	return r.listsByID(ctx, ids)
}

func (r *Repo) listsByID(ctx context.Context, ids []string) ([]domcorpus.List, error) {
	raw, err := r.store.MGet(ctx, r.keys(ids, r.listKey))
	if err != nil {
		return nil, fmt.Errorf("mget lists: %w", err)
	}
	lists := make([]domcorpus.List, 0, len(raw))
	for _, data := range raw {
		if data == nil {
			continue
		}
		l, err := decodeList(data)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, nil
}

func (r *Repo) usersByID(ctx context.Context, ids []string) ([]domcorpus.User, error) {
	raw, err := r.store.MGet(ctx, r.keys(ids, r.userKey))
	if err != nil {
		return nil, fmt.Errorf("mget users: %w", err)
	}
	users := make([]domcorpus.User, 0, len(raw))
	for _, data := range raw {
		if data == nil {
			continue
		}
		u, err := decodeUser(data)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *Repo) keys(ids []string, key func(string) string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = key(id)
	}
	return out
}
