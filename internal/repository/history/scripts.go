package history

import "github.com/kailas-cloud/boardsearch/internal/db"

// Script replies: 1 when applied, 0 when the record no longer holds the
// expected value.
const (
	scriptApplied = 1
	scriptStale   = 0
)

// insertScript stores a record with its owner index entry and query count.
//
//	KEYS: record, user index, query counts
//	ARGV: record JSON, createdAt ms, id, query
var insertScript = &db.Script{
	Name: "history_insert",
	Source: `
redis.call('SET', KEYS[1], ARGV[1])
redis.call('ZADD', KEYS[2], ARGV[2], ARGV[3])
redis.call('ZINCRBY', KEYS[3], 1, ARGV[4])
return 1
`,
}

// replaceScript swaps the record for a new version if it is unchanged since
// it was read, and moves it in or out of the saved index.
//
//	KEYS: record, saved index
//	ARGV: expected JSON, new JSON, id, savedAt ms ("" removes from the index)
var replaceScript = &db.Script{
	Name: "history_replace",
	Source: `
if redis.call('GET', KEYS[1]) ~= ARGV[1] then
  return 0
end
redis.call('SET', KEYS[1], ARGV[2])
if ARGV[4] == '' then
  redis.call('ZREM', KEYS[2], ARGV[3])
else
  redis.call('ZADD', KEYS[2], ARGV[4], ARGV[3])
end
return 1
`,
}

// deleteScript removes a record unchanged since it was read, its index
// entries and one count of its query. Queries counted down to zero are pruned.
//
//	KEYS: record, user index, saved index, query counts
//	ARGV: expected JSON, id, query
var deleteScript = &db.Script{
	Name: "history_delete",
	Source: `
if redis.call('GET', KEYS[1]) ~= ARGV[1] then
  return 0
end
redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[2])
redis.call('ZREM', KEYS[3], ARGV[2])
if tonumber(redis.call('ZINCRBY', KEYS[4], -1, ARGV[3])) <= 0 then
  redis.call('ZREMRANGEBYSCORE', KEYS[4], '-inf', '0')
end
return 1
`,
}
