package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	rdb *redis.Client
}

// NewRedisRepo returns a Redis-backed pending action repo. Expiry rides on
// key TTLs, so DeleteExpired has nothing to sweep.
func NewRedisRepo(rdb *redis.Client) Repo {
	return &redisRepo{rdb: rdb}
}

const tokenKeyPrefix = "pending:token:"

func tokenKey(token string) string { return tokenKeyPrefix + token }

func indexKey(userID string, kind Kind) string {
	return "pending:user:" + userID + ":" + string(kind)
}

// replaceScript supersedes the live action for (user, kind) and installs
// the new one in one atomic step, so two concurrent requests can never
// leave two redeemable tokens behind.
// KEYS[1] index key; ARGV[1] token, ARGV[2] record, ARGV[3] token key
// prefix, ARGV[4] ttl millis.
var replaceScript = redis.NewScript(`
local old = redis.call("GET", KEYS[1])
if old and old ~= ARGV[1] then
	redis.call("DEL", ARGV[3] .. old)
end
redis.call("SET", ARGV[3] .. ARGV[1], ARGV[2], "PX", ARGV[4])
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[4])
return 1
`)

// dropIndexScript clears the index entry only while it still points at the
// consumed token, so a concurrent replacement is left untouched.
// KEYS[1] index key; ARGV[1] token.
var dropIndexScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (r *redisRepo) Replace(ctx context.Context, action PendingAction) error {
	raw, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("encode pending action: %w", err)
	}

	keys := []string{indexKey(action.UserID, action.Kind)}
	err = replaceScript.Run(ctx, r.rdb, keys, action.Token, raw, tokenKeyPrefix, TTL.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("replace pending action: %w", err)
	}
	return nil
}

func (r *redisRepo) ConsumeByToken(ctx context.Context, token string, cutoff time.Time) (PendingAction, error) {
	raw, err := r.rdb.GetDel(ctx, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return PendingAction{}, ErrNotFound
		}
		return PendingAction{}, fmt.Errorf("consume pending action: %w", err)
	}

	var a PendingAction
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return PendingAction{}, fmt.Errorf("decode pending action: %w", err)
	}
	// Key TTL already bounds lifetime; the cutoff check guards against
	// clock skew between writer and consumer.
	if !a.CreatedAt.After(cutoff) {
		return PendingAction{}, ErrNotFound
	}
	dropIndexScript.Run(ctx, r.rdb, []string{indexKey(a.UserID, a.Kind)}, token)
	return a, nil
}

func (r *redisRepo) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
