package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "online:user:"

// Tracker 基于 Redis 的在线状态，记录 用户 -> 节点 的映射
// key 带 TTL，靠连接心跳续期，节点崩溃后自动过期
type Tracker struct {
	rdb    *redis.Client
	nodeID string
	ttl    time.Duration
}

func NewTracker(rdb *redis.Client, nodeID string, ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = 90 * time.Second
	}
	return &Tracker{rdb: rdb, nodeID: nodeID, ttl: ttl}
}

func key(userID uint) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

// Online 标记用户在本节点上线
func (t *Tracker) Online(ctx context.Context, userID uint) error {
	return t.rdb.Set(ctx, key(userID), t.nodeID, t.ttl).Err()
}

// Refresh 心跳续期
func (t *Tracker) Refresh(ctx context.Context, userID uint) error {
	return t.rdb.Expire(ctx, key(userID), t.ttl).Err()
}

// Offline 标记用户下线
// 只清理仍指向本节点的记录，避免误删用户在其他节点的新会话
func (t *Tracker) Offline(ctx context.Context, userID uint) error {
	node, err := t.rdb.Get(ctx, key(userID)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if node != t.nodeID {
		return nil
	}
	return t.rdb.Del(ctx, key(userID)).Err()
}

// NodeOf 查询用户所在节点，离线时返回空串
func (t *Tracker) NodeOf(ctx context.Context, userID uint) (string, error) {
	node, err := t.rdb.Get(ctx, key(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return node, nil
}

// IsOnline 判断用户是否在任意节点在线
func (t *Tracker) IsOnline(ctx context.Context, userID uint) (bool, error) {
	node, err := t.NodeOf(ctx, userID)
	if err != nil {
		return false, err
	}
	return node != "", nil
}
