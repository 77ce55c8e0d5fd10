package kafka

import (
	"context"
	"time"

	"linkup-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler 处理一条消息；返回错误只记录日志，不阻塞后续消息
type MessageHandler func(ctx context.Context, msg kafka.Message) error

// messageReader kafka.Reader 的最小接口
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer 消费组消费者
type Consumer struct {
	reader messageReader
	topic  string
	group  string
}

// NewConsumer 创建消费组消费者
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})
	return &Consumer{reader: reader, topic: topic, group: groupID}
}

// Run 阻塞消费直到 ctx 取消
func (c *Consumer) Run(ctx context.Context, handler MessageHandler) {
	defer func() {
		if err := c.reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka consumer stopped", zap.String("topic", c.topic))
	}()

	logger.Info("Kafka consumer started",
		zap.String("topic", c.topic),
		zap.String("group", c.group),
	)

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if err := handler(ctx, msg); err != nil {
			logger.Error("Failed to handle kafka message",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}
