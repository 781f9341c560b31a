package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPresenceTTL bounds how stale an online flag can get when a client
// vanishes without unregistering. Websocket pongs refresh it.
const DefaultPresenceTTL = 90 * time.Second

// Presence keeps ephemeral online flags in Redis as TTL'd keys. Nothing is
// persisted; a flush or restart resets everyone to offline.
type Presence struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPresence(rdb *redis.Client, ttl time.Duration) *Presence {
	if ttl <= 0 {
		ttl = DefaultPresenceTTL
	}
	return &Presence{rdb: rdb, ttl: ttl}
}

func presenceKey(userID string) string {
	return "presence:" + userID
}

// MarkOnline flags the user online until the TTL lapses.
func (p *Presence) MarkOnline(ctx context.Context, userID string) error {
	return p.rdb.Set(ctx, presenceKey(userID), time.Now().UTC().Format(time.RFC3339), p.ttl).Err()
}

// Heartbeat refreshes the TTL for a connected user.
func (p *Presence) Heartbeat(ctx context.Context, userID string) error {
	return p.rdb.Expire(ctx, presenceKey(userID), p.ttl).Err()
}

// MarkOffline drops the flag immediately.
func (p *Presence) MarkOffline(ctx context.Context, userID string) error {
	return p.rdb.Del(ctx, presenceKey(userID)).Err()
}

// IsOnline reports whether the user's presence key is live.
func (p *Presence) IsOnline(ctx context.Context, userID string) (bool, error) {
	n, err := p.rdb.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// OnlineUsers checks a batch of user ids in one pipelined round trip.
func (p *Presence) OnlineUsers(ctx context.Context, userIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	pipe := p.rdb.Pipeline()
	cmds := make([]*redis.IntCmd, len(userIDs))
	for i, id := range userIDs {
		cmds[i] = pipe.Exists(ctx, presenceKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	for i, id := range userIDs {
		out[id] = cmds[i].Val() > 0
	}
	return out, nil
}
