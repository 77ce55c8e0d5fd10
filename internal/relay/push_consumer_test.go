package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	infraRedis "linkup-go/internal/infra/redis"
	"linkup-go/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventMessage(t *testing.T, receivers ...int64) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(model.NotificationEvent{
		Type:        model.NotificationPost,
		SenderID:    1,
		ReceiverIDs: receivers,
		Content:     "hello",
		OccurredAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	return kafka.Message{Key: []byte("1"), Value: raw}
}

func TestPushConsumer_PublishesToEveryReceiver(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	notifier := infraRedis.NewNotifier(rdb, "test:user:")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := notifier.Subscribe(ctx)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	consumer := NewPushConsumer(notifier)
	require.NoError(t, consumer.Handle(ctx, eventMessage(t, 2, 3)))

	channels := map[string]bool{}
	for i := 0; i < 2; i++ {
		msg, err := sub.ReceiveMessage(ctx)
		require.NoError(t, err)
		channels[msg.Channel] = true

		var ev model.NotificationEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, model.NotificationPost, ev.Type)
	}
	assert.Equal(t, map[string]bool{"test:user:2": true, "test:user:3": true}, channels)
}

func TestPushConsumer_MalformedPayload(t *testing.T) {
	consumer := NewPushConsumer(infraRedis.NewNotifier(nil, ""))
	err := consumer.Handle(context.Background(), kafka.Message{Value: []byte("{")})
	assert.Error(t, err)
}

// flakyPublisher 每个用户前 failures 次推送失败
type flakyPublisher struct {
	mu       sync.Mutex
	failures int
	calls    map[int64]int
}

func (p *flakyPublisher) PublishUser(_ context.Context, userID int64, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[userID]++
	if p.calls[userID] <= p.failures {
		return errors.New("redis unavailable")
	}
	return nil
}

func TestPushConsumer_RetriesTransientFailures(t *testing.T) {
	pub := &flakyPublisher{failures: 2, calls: map[int64]int{}}
	consumer := NewPushConsumer(pub)

	require.NoError(t, consumer.Handle(context.Background(), eventMessage(t, 7, 8)))
	assert.Equal(t, 3, pub.calls[7])
	assert.Equal(t, 3, pub.calls[8])
}

func TestPushConsumer_GivesUpAfterRetries(t *testing.T) {
	pub := &flakyPublisher{failures: 100, calls: map[int64]int{}}
	consumer := NewPushConsumer(pub)

	err := consumer.Handle(context.Background(), eventMessage(t, 7))
	require.Error(t, err)
	assert.Equal(t, pushMaxRetries+1, pub.calls[7])
}
