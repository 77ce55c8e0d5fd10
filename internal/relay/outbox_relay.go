// Package relay 把发件箱事件中继到 Kafka，并把 Kafka 中的通知事件推送到 Redis 频道。
package relay

import (
	"context"
	"time"

	"linkup-go/internal/metrics"
	"linkup-go/internal/model"
	"linkup-go/internal/repository"
	"linkup-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Publisher 消息发送方，由 infra/kafka.Producer 实现
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
}

// OutboxRelay 轮询发件箱，按创建顺序投递
type OutboxRelay struct {
	db          *gorm.DB
	publisher   Publisher
	batchSize   int
	maxAttempts int
	interval    time.Duration
}

func NewOutboxRelay(db *gorm.DB, publisher Publisher, batchSize, maxAttempts int, interval time.Duration) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = 100
	}
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &OutboxRelay{
		db:          db,
		publisher:   publisher,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		interval:    interval,
	}
}

// Run 阻塞轮询直到 ctx 取消
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logger.Info("Outbox relay started", zap.Duration("interval", r.interval), zap.Int("batch_size", r.batchSize))
	for {
		select {
		case <-ctx.Done():
			logger.Info("Outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Outbox relay round failed", zap.Error(err))
			}
			if _, err := r.Backlog(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("Count outbox backlog failed", zap.Error(err))
			}
		}
	}
}

// Backlog 统计待投递事件数并更新 backlog 指标
func (r *OutboxRelay) Backlog(ctx context.Context) (int64, error) {
	n, err := repository.NewOutboxRepository(r.db.WithContext(ctx)).CountByStatus(ctx, model.OutboxPending)
	if err != nil {
		return 0, err
	}
	metrics.OutboxBacklog.Set(float64(n))
	return n, nil
}

// RelayOnce 领取一批事件并投递，返回成功条数
//
// 领取、投递和状态回写在同一事务内完成，多个 relay 实例通过 SKIP LOCKED 互不重复领取。
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	published := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		outbox := repository.NewOutboxRepository(tx)
		events, err := outbox.ClaimPending(ctx, r.batchSize)
		if err != nil {
			return err
		}

		done := make([]string, 0, len(events))
		for i := range events {
			ev := &events[i]
			if err := r.publisher.Publish(ctx, ev.Topic, ev.Key, []byte(ev.Payload)); err != nil {
				metrics.OutboxPublished.WithLabelValues("error").Inc()
				logger.Warn("Publish outbox event failed",
					zap.String("event_id", ev.ID),
					zap.Int("attempts", ev.Attempts+1),
					zap.Error(err),
				)
				if err := outbox.MarkAttemptFailed(ctx, ev, err.Error(), r.maxAttempts); err != nil {
					return err
				}
				continue
			}
			done = append(done, ev.ID)
		}

		if err := outbox.MarkPublished(ctx, done, time.Now()); err != nil {
			return err
		}
		published = len(done)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if published > 0 {
		metrics.OutboxPublished.WithLabelValues("ok").Add(float64(published))
		logger.Debug("Outbox events relayed", zap.Int("count", published))
	}
	return published, nil
}
