// Package metrics 定义业务指标，通过 /metrics 暴露
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Reactions 反应操作次数，按对象类型、反应类型和结果统计
	Reactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkup_reactions_total",
		Help: "Total number of reaction mutations",
	}, []string{"target", "kind", "result"})

	// FriendTransitions 好友边状态迁移
	FriendTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkup_friend_transitions_total",
		Help: "Total number of friend edge transitions",
	}, []string{"action"})

	// NotificationsDispatched 写入的通知条数
	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkup_notifications_dispatched_total",
		Help: "Total number of notification rows written",
	}, []string{"type"})

	// OutboxPublished 发件箱投递结果
	OutboxPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkup_outbox_published_total",
		Help: "Total number of outbox events relayed",
	}, []string{"result"})

	// OutboxBacklog 发件箱中待投递的事件数
	OutboxBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linkup_outbox_backlog",
		Help: "Number of pending outbox events",
	})

	// PushDelivered 推送到 Redis 频道的消息数
	PushDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkup_push_delivered_total",
		Help: "Total number of realtime pushes",
	}, []string{"result"})

	// GraphQueryLatency 关系查询耗时
	GraphQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linkup_graph_query_latency_seconds",
		Help:    "Graph query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})
)
