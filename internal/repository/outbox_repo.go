package repository

import (
	"context"
	"time"

	"linkup-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) WithTx(tx *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: tx}
}

func (r *OutboxRepository) Create(ctx context.Context, ev *model.OutboxEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

// ClaimPending 在事务内领取一批待投递事件，多个 worker 之间互不阻塞
func (r *OutboxRepository) ClaimPending(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	var events []model.OutboxEvent
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", model.OutboxPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// MarkPublished 标记为已投递
func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"status": model.OutboxPublished, "published_at": at}).Error
}

// MarkAttemptFailed 记录一次失败；达到上限后不再重试
func (r *OutboxRepository) MarkAttemptFailed(ctx context.Context, ev *model.OutboxEvent, cause string, maxAttempts int) error {
	status := model.OutboxPending
	if ev.Attempts+1 >= maxAttempts {
		status = model.OutboxFailed
	}
	return r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id = ?", ev.ID).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"status":     status,
			"last_error": cause,
		}).Error
}

// CountByStatus 按状态统计
func (r *OutboxRepository) CountByStatus(ctx context.Context, status model.OutboxStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OutboxEvent{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
