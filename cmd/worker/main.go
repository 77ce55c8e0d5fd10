package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"linkup-go/internal/config"
	"linkup-go/internal/infra/database"
	infraES "linkup-go/internal/infra/elasticsearch"
	infraKafka "linkup-go/internal/infra/kafka"
	infraRedis "linkup-go/internal/infra/redis"
	"linkup-go/internal/relay"
	"linkup-go/internal/service"
	"linkup-go/pkg/logger"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// worker 负责三件事：发件箱中继到 Kafka、Kafka 通知推送到 Redis、启动时重建帖子索引
func main() {
	cfgPath := "configs/config.yaml"
	if p := os.Getenv("LINKUP_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()
	db := database.Get()

	rdb, err := infraRedis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer rdb.Close()

	producer := infraKafka.NewProducer(&cfg.Kafka)
	defer producer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	topic := cfg.Kafka.Topic("notifications", "notifications")
	outboxRelay := relay.NewOutboxRelay(db, producer, cfg.Outbox.BatchSize, cfg.Outbox.MaxAttempts, cfg.Outbox.PollInterval())
	pushConsumer := relay.NewPushConsumer(infraRedis.NewNotifier(rdb, cfg.Notification.ChannelPrefix))
	consumer := infraKafka.NewConsumer(cfg.Kafka.Brokers, topic, cfg.Kafka.GroupID)

	var wg conc.WaitGroup
	wg.Go(func() { outboxRelay.Run(ctx) })
	wg.Go(func() { consumer.Run(ctx, pushConsumer.Handle) })
	wg.Go(func() { reindexPosts(ctx, cfg) })
	wg.Wait()

	logger.Info("Worker stopped")
}

// reindexPosts 全量重建帖子索引，ES 不可用时跳过
func reindexPosts(ctx context.Context, cfg *config.Config) {
	es, err := infraES.NewClient(&cfg.Elasticsearch)
	if err != nil {
		logger.Warn("Elasticsearch unavailable, skip reindex", zap.Error(err))
		return
	}
	postIndex := infraES.NewPostIndex(es, cfg.Elasticsearch.IndexName("posts", "posts"))
	if err := postIndex.EnsureIndex(ctx); err != nil {
		logger.Warn("Elasticsearch index init failed", zap.Error(err))
		return
	}

	search := service.NewSearchService(database.Get(), nil, postIndex)
	if _, err := search.Reindex(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Reindex posts failed", zap.Error(err))
	}
}
