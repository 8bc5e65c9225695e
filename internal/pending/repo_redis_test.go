package pending

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// commandRecorder short-circuits command processing so no server is
// needed; it records every command and answers scripts with a success
// reply.
type commandRecorder struct {
	cmds []redis.Cmder
}

func (r *commandRecorder) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, nil
	}
}

func (r *commandRecorder) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		r.cmds = append(r.cmds, cmd)
		if c, ok := cmd.(*redis.Cmd); ok {
			c.SetVal(int64(1))
		}
		return nil
	}
}

func (r *commandRecorder) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		r.cmds = append(r.cmds, cmds...)
		return nil
	}
}

// Supersede-then-create must reach the server as one script call; a GET
// followed by a separate write would let two concurrent requests leave two
// redeemable tokens for the same (user, kind).
func TestRedisReplaceIsSingleAtomicCall(t *testing.T) {
	rec := &commandRecorder{}
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	rdb.AddHook(rec)

	repo := NewRedisRepo(rdb)
	action := PendingAction{
		ID:        "a1",
		UserID:    "u1",
		Kind:      KindPasswordReset,
		Token:     "tok-new",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Replace(context.Background(), action); err != nil {
		t.Fatalf("replace: %v", err)
	}

	if len(rec.cmds) != 1 {
		t.Fatalf("replace issued %d commands, want a single script call", len(rec.cmds))
	}
	if name := rec.cmds[0].Name(); name != "evalsha" && name != "eval" {
		t.Fatalf("replace issued %q, want a script call", name)
	}

	// The (user, kind) index rides along as KEYS[1] so the supersede
	// decision runs inside the script.
	found := false
	for _, arg := range rec.cmds[0].Args() {
		if s, ok := arg.(string); ok && s == indexKey("u1", KindPasswordReset) {
			found = true
		}
	}
	if !found {
		t.Fatalf("script args %v missing index key", rec.cmds[0].Args())
	}
}
