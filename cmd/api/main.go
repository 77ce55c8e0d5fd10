package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "linkup-go/api/openapi"
	"linkup-go/internal/api/handler"
	"linkup-go/internal/api/middleware"
	"linkup-go/internal/api/router"
	"linkup-go/internal/config"
	"linkup-go/internal/infra/database"
	infraES "linkup-go/internal/infra/elasticsearch"
	"linkup-go/internal/repository"
	"linkup-go/internal/service"
	"linkup-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title LinkUp API
// @version 1.0
// @description 社交关系与互动服务 API
// @host 127.0.0.1:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

func main() {
	cfg, err := config.Load(configPath())
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

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// Elasticsearch 可选，失败则搜索降级到 DB
	var indexer service.PostIndexer
	if es, err := infraES.NewClient(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
	} else {
		postIndex := infraES.NewPostIndex(es, cfg.Elasticsearch.IndexName("posts", "posts"))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := postIndex.EnsureIndex(ctx); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
		cancel()
		indexer = postIndex
	}

	gin.SetMode(cfg.App.Mode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	// 初始化依赖（Repository -> Service -> Handler）
	db := database.Get()
	limit, maxLimit := cfg.Graph.DefaultLimit, cfg.Graph.MaxLimit
	dispatcher := service.NewNotificationDispatcher(
		cfg.Kafka.Topic("notifications", "notifications"),
		cfg.Notification.FanoutBatchSize,
	)

	relationshipService := service.NewRelationshipService(db, dispatcher)
	followService := service.NewFollowService(db, dispatcher)
	reactionService := service.NewReactionService(db, dispatcher)
	viewService := service.NewViewService(db)
	notificationService := service.NewNotificationService(db, limit, maxLimit)
	graphService := service.NewGraphService(repository.NewGraphRepository(db), repository.NewUserRepository(db), limit, maxLimit)
	postService := service.NewPostService(db, dispatcher, indexer, limit, maxLimit)
	commentService := service.NewCommentService(db, dispatcher, limit, maxLimit)
	searchService := service.NewSearchService(db, postService, indexer)

	r.GET("/healthz", healthCheckHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.Setup(r, &router.Handlers{
		Friend:       handler.NewFriendHandler(relationshipService, graphService),
		Follow:       handler.NewFollowHandler(followService, graphService),
		Post:         handler.NewPostHandler(postService, commentService, viewService, searchService),
		Reaction:     handler.NewReactionHandler(reactionService),
		Notification: handler.NewNotificationHandler(notificationService),
	}, cfg.JWT.Secret)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Info("Server listening",
			zap.String("name", cfg.App.Name),
			zap.String("version", cfg.App.Version),
			zap.String("mode", cfg.App.Mode),
			zap.String("addr", addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

func configPath() string {
	if p := os.Getenv("LINKUP_CONFIG"); p != "" {
		return p
	}
	return "configs/config.yaml"
}

// healthCheckHandler 健康检查接口
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   cfg.App.Name,
		"version":   cfg.App.Version,
	})
}
