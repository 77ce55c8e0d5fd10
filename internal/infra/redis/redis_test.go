package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"linkup-go/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	rdb, err := NewClient(&config.RedisConfig{Host: mr.Host(), Port: port, PoolSize: 2})
	require.NoError(t, err)
	defer rdb.Close()

	mr.Close()
	_, err = NewClient(&config.RedisConfig{Host: mr.Host(), Port: port})
	assert.Error(t, err)
}

func TestNotifier_PublishUser(t *testing.T) {
	mr := miniredis.RunT(t)
	port, _ := strconv.Atoi(mr.Port())
	rdb, err := NewClient(&config.RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	defer rdb.Close()

	n := NewNotifier(rdb, "")
	assert.Equal(t, "notifications:user:7", n.Channel(7))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sub := n.Subscribe(ctx)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, n.PublishUser(ctx, 7, []byte("ping")))
	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "notifications:user:7", msg.Channel)
	assert.Equal(t, "ping", msg.Payload)

	// 未配置 Redis 时静默跳过
	assert.NoError(t, NewNotifier(nil, "x:").PublishUser(ctx, 1, nil))
}
