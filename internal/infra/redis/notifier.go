package redis

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const defaultChannelPrefix = "notifications:user:"

// Notifier 把通知推送到用户的 Redis 频道，网关订阅后转发给在线客户端
type Notifier struct {
	rdb    *redis.Client
	prefix string
}

func NewNotifier(rdb *redis.Client, prefix string) *Notifier {
	if prefix == "" {
		prefix = defaultChannelPrefix
	}
	return &Notifier{rdb: rdb, prefix: prefix}
}

// Channel 用户的推送频道
func (n *Notifier) Channel(userID int64) string {
	return n.prefix + strconv.FormatInt(userID, 10)
}

// PublishUser 推送到单个用户频道；未配置 Redis 时静默跳过
func (n *Notifier) PublishUser(ctx context.Context, userID int64, payload []byte) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, n.Channel(userID), payload).Err()
}

// Subscribe 订阅所有用户频道，仅供网关与测试使用
func (n *Notifier) Subscribe(ctx context.Context) *redis.PubSub {
	return n.rdb.PSubscribe(ctx, n.prefix+"*")
}
