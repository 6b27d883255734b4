package redis

import (
	"context"
	"strconv"

	"github.com/kailas-cloud/boardsearch/internal/db"
)

// ZCard returns the number of members in a sorted set.
func (s *Store) ZCard(ctx context.Context, key string) (int64, error) {
	cmd := s.b().Zcard().Key(key).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpZCard, Err: err}
	}
	return n, nil
}

// ZRevRange returns members by descending score in [start, stop].
// It is sent as ZRANGE ... REV.
func (s *Store) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	cmd := s.b().Zrange().Key(key).Min(formatIndex(start)).Max(formatIndex(stop)).Rev().Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRevRange, Err: err}
	}
	return members, nil
}

// ZRevRangeWithScores is ZRevRange including each member's score.
func (s *Store) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]db.ScoredMember, error) {
	cmd := s.b().Zrange().Key(key).Min(formatIndex(start)).Max(formatIndex(stop)).Rev().Withscores().Build()
	zs, err := s.do(ctx, cmd).AsZScores()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRevRange, Err: err}
	}
	out := make([]db.ScoredMember, len(zs))
	for i, z := range zs {
		out[i] = db.ScoredMember{Member: z.Member, Score: z.Score}
	}
	return out, nil
}

func formatIndex(i int64) string {
	return strconv.FormatInt(i, 10)
}
