package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"linkup-go/internal/metrics"
	"linkup-go/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"github.com/sourcegraph/conc/pool"
)

const (
	pushConcurrency = 8
	pushMaxRetries  = 3
)

// UserPublisher 用户频道推送，由 infra/redis.Notifier 实现
type UserPublisher interface {
	PublishUser(ctx context.Context, userID int64, payload []byte) error
}

// PushConsumer 消费通知事件并推送到每个接收方的频道
type PushConsumer struct {
	notifier UserPublisher
}

func NewPushConsumer(notifier UserPublisher) *PushConsumer {
	return &PushConsumer{notifier: notifier}
}

// Handle 处理一条 Kafka 消息；单个接收方推送失败会重试，最终错误合并返回
func (c *PushConsumer) Handle(ctx context.Context, msg kafka.Message) error {
	var ev model.NotificationEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		metrics.PushDelivered.WithLabelValues("malformed").Inc()
		return fmt.Errorf("unmarshal notification event: %w", err)
	}

	p := pool.New().WithErrors().WithMaxGoroutines(pushConcurrency)
	for _, receiverID := range ev.ReceiverIDs {
		receiverID := receiverID
		p.Go(func() error {
			err := c.publish(ctx, receiverID, msg.Value)
			if err != nil {
				metrics.PushDelivered.WithLabelValues("error").Inc()
				return fmt.Errorf("push to user %d: %w", receiverID, err)
			}
			metrics.PushDelivered.WithLabelValues("ok").Inc()
			return nil
		})
	}
	return p.Wait()
}

func (c *PushConsumer) publish(ctx context.Context, userID int64, payload []byte) error {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(50*time.Millisecond),
		backoff.WithMaxInterval(time.Second),
	), pushMaxRetries)

	return backoff.Retry(func() error {
		return c.notifier.PublishUser(ctx, userID, payload)
	}, backoff.WithContext(b, ctx))
}
