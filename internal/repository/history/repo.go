// Package history persists search history records and the indexes used to
// page, bookmark and rank them.
package history

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/boardsearch/internal/db"
	"github.com/kailas-cloud/boardsearch/internal/domain"
	domhistory "github.com/kailas-cloud/boardsearch/internal/domain/history"
)

// store is the consumer interface for search history (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	ZCard(ctx context.Context, key string) (int64, error)
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]db.ScoredMember, error)
	RunScript(ctx context.Context, script *db.Script, keys, args []string) (int64, error)
}

// maxAttempts bounds how often an update is retried after the record
// changed between read and write.
const maxAttempts = 5

// errContended is returned when a record kept changing under an update.
var errContended = errors.New("history record changed concurrently")

// Repo implements usecase/history.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a history repository. Keys are namespaced under prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Key layout:
//   {prefix}history:{id}            record JSON
//   {prefix}history:user:{user}     zset of record ids scored by createdAt (ms)
//   {prefix}history:saved:{user}    zset of saved record ids scored by savedAt (ms)
//   {prefix}history:queries         zset of query texts scored by run count

func (r *Repo) recordKey(id string) string { return r.prefix + "history:" + id }
func (r *Repo) userKey(user string) string { return r.prefix + "history:user:" + user }
func (r *Repo) savedKey(user string) string { return r.prefix + "history:saved:" + user }
func (r *Repo) queriesKey() string { return r.prefix + "history:queries" }

// Insert stores a new record, indexes it for its owner and counts its query
// in one atomic step.
func (r *Repo) Insert(ctx context.Context, rec domhistory.Record) error {
	data, err := encodeRecord(&rec)
	if err != nil {
		return err
	}
	keys := []string{r.recordKey(rec.ID()), r.userKey(rec.User()), r.queriesKey()}
	args := []string{string(data), millis(rec.CreatedAt()), rec.ID(), rec.Query()}
	if _, err := r.store.RunScript(ctx, insertScript, keys, args); err != nil {
		return fmt.Errorf("insert history %s: %w", rec.ID(), err)
	}
	return nil
}

// Update applies mutate to the stored record and writes the result if the
// record is unchanged since it was read, retrying on interference. mutate
// reports whether it changed the record; an error aborts without writing.
// The saved index follows the record's saved state.
func (r *Repo) Update(
	ctx context.Context, id string, mutate func(rec *domhistory.Record) (bool, error),
) (domhistory.Record, error) {
	for range maxAttempts {
		raw, rec, err := r.current(ctx, id)
		if err != nil {
			return domhistory.Record{}, err
		}
		changed, err := mutate(&rec)
		if err != nil {
			return domhistory.Record{}, err
		}
		if !changed {
			return rec, nil
		}

		data, err := encodeRecord(&rec)
		if err != nil {
			return domhistory.Record{}, err
		}
		savedAt := ""
		if rec.IsSaved() && rec.SavedAt() != nil {
			savedAt = millis(*rec.SavedAt())
		}
		n, err := r.store.RunScript(ctx, replaceScript,
			[]string{r.recordKey(id), r.savedKey(rec.User())},
			[]string{string(raw), string(data), id, savedAt})
		if err != nil {
			return domhistory.Record{}, fmt.Errorf("update history %s: %w", id, err)
		}
		if n == scriptApplied {
			return rec, nil
		}
	}
	return domhistory.Record{}, fmt.Errorf("update history %s: %w", id, errContended)
}

// Delete removes the record, its index entries and one count of its query
// once check accepts the record's current state. An error from check aborts.
func (r *Repo) Delete(ctx context.Context, id string, check func(rec domhistory.Record) error) error {
	for range maxAttempts {
		raw, rec, err := r.current(ctx, id)
		if err != nil {
			return err
		}
		if err := check(rec); err != nil {
			return err
		}

		n, err := r.store.RunScript(ctx, deleteScript,
			[]string{r.recordKey(id), r.userKey(rec.User()), r.savedKey(rec.User()), r.queriesKey()},
			[]string{string(raw), id, rec.Query()})
		if err != nil {
			return fmt.Errorf("delete history %s: %w", id, err)
		}
		if n == scriptApplied {
			return nil
		}
	}
	return fmt.Errorf("delete history %s: %w", id, errContended)
}

// List returns a page of the user's records, newest first, and the total count.
func (r *Repo) List(ctx context.Context, user string, offset, limit int) ([]domhistory.Record, int, error) {
	return r.page(ctx, r.userKey(user), offset, limit)
}

// ListSaved returns a page of the user's saved records, most recently saved
// first, and the total count.
func (r *Repo) ListSaved(ctx context.Context, user string, offset, limit int) ([]domhistory.Record, int, error) {
	return r.page(ctx, r.savedKey(user), offset, limit)
}

// Recent returns up to n of the user's newest records.
func (r *Repo) Recent(ctx context.Context, user string, n int) ([]domhistory.Record, error) {
	if n <= 0 {
		return []domhistory.Record{}, nil
	}
	ids, err := r.store.ZRevRange(ctx, r.userKey(user), 0, int64(n-1))
	if err != nil {
		return nil, fmt.Errorf("zrevrange history: %w", err)
	}
	return r.load(ctx, ids)
}

// Popular returns up to n of the most frequently run queries across all users.
func (r *Repo) Popular(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}
	members, err := r.store.ZRevRangeWithScores(ctx, r.queriesKey(), 0, int64(n-1))
	if err != nil {
		return nil, fmt.Errorf("zrevrange queries: %w", err)
	}
	out := make([]string, 0, len(members))
	for _, m := range members {
		if m.Score > 0 {
			out = append(out, m.Member)
		}
	}
	return out, nil
}

func (r *Repo) page(ctx context.Context, key string, offset, limit int) ([]domhistory.Record, int, error) {
	total, err := r.store.ZCard(ctx, key)
	if err != nil {
		return nil, 0, fmt.Errorf("zcard %s: %w", key, err)
	}
	if limit <= 0 || int64(offset) >= total {
		return []domhistory.Record{}, int(total), nil
	}
	ids, err := r.store.ZRevRange(ctx, key, int64(offset), int64(offset+limit-1))
	if err != nil {
		return nil, 0, fmt.Errorf("zrevrange %s: %w", key, err)
	}
	recs, err := r.load(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return recs, int(total), nil
}

// load fetches records in id order. Ids whose record is gone are skipped.
func (r *Repo) load(ctx context.Context, ids []string) ([]domhistory.Record, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.recordKey(id)
	}
	raw, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("mget history: %w", err)
	}
	out := make([]domhistory.Record, 0, len(raw))
	for _, data := range raw {
		if data == nil {
			continue
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// current returns the stored bytes of a record along with the decoded record.
func (r *Repo) current(ctx context.Context, id string) ([]byte, domhistory.Record, error) {
	key := r.recordKey(id)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domhistory.Record{}, domain.ErrNotFound
		}
		return nil, domhistory.Record{}, fmt.Errorf("get %s: %w", key, err)
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		return nil, domhistory.Record{}, err
	}
	return raw, rec, nil
}

func millis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
