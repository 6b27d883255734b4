package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/boardsearch/internal/db"
)

// RunScript executes script with EVALSHA, falling back to EVAL when the
// server has not cached it yet. Scripts must reply with an integer.
func (s *Store) RunScript(ctx context.Context, script *db.Script, keys, args []string) (int64, error) {
	n, err := s.lua(script).Exec(ctx, s.client, keys, args).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpEval, Err: fmt.Errorf("script %s: %w", script.Name, err)}
	}
	return n, nil
}

func (s *Store) lua(script *db.Script) *rueidis.Lua {
	if l, ok := s.scripts.Load(script); ok {
		return l.(*rueidis.Lua)
	}
	l, _ := s.scripts.LoadOrStore(script, rueidis.NewLuaScript(script.Source))
	return l.(*rueidis.Lua)
}
