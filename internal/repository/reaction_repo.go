package repository

import (
	"context"

	"linkup-go/internal/model"

	"gorm.io/gorm"
)

// ReactionTarget 被加锁的反应对象（帖子或评论）
type ReactionTarget struct {
	Type    model.TargetType
	ID      int64
	OwnerID int64
	PostID  int64
}

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

func (r *ReactionRepository) WithTx(tx *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: tx}
}

func targetModel(t model.TargetType) interface{} {
	if t == model.TargetComment {
		return &model.Comment{}
	}
	return &model.Post{}
}

// LockTarget 锁定对象所在行，同一对象上的反应在此串行化
func (r *ReactionRepository) LockTarget(ctx context.Context, t model.TargetType, id int64) (*ReactionTarget, error) {
	db := forUpdate(r.db.WithContext(ctx))
	if t == model.TargetComment {
		var comment model.Comment
		if err := db.Where("id = ?", id).First(&comment).Error; err != nil {
			return nil, err
		}
		return &ReactionTarget{Type: t, ID: comment.ID, OwnerID: comment.UserID, PostID: comment.PostID}, nil
	}
	var post model.Post
	if err := db.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &ReactionTarget{Type: t, ID: post.ID, OwnerID: post.AuthorID, PostID: post.ID}, nil
}

// LockByUserTarget 加锁读取用户在对象上的反应行
func (r *ReactionRepository) LockByUserTarget(ctx context.Context, userID int64, t model.TargetType, targetID int64) (*model.Reaction, error) {
	var reaction model.Reaction
	err := forUpdate(r.db.WithContext(ctx)).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, t, targetID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *ReactionRepository) Create(ctx context.Context, reaction *model.Reaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

// UpdateKind 原地切换反应类型
func (r *ReactionRepository) UpdateKind(ctx context.Context, id int64, kind model.ReactionKind) error {
	return r.db.WithContext(ctx).Model(&model.Reaction{}).Where("id = ?", id).
		Update("kind", kind).Error
}

func (r *ReactionRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Reaction{}).Error
}

// AdjustCounter 调整对象上的点赞/点踩计数
func (r *ReactionRepository) AdjustCounter(ctx context.Context, t model.TargetType, id int64, kind model.ReactionKind, delta int64) error {
	column := kind.CounterColumn()
	return r.db.WithContext(ctx).Model(targetModel(t)).Where("id = ?", id).
		UpdateColumn(column, increment(column, delta)).Error
}

// Counts 读回对象上的计数
func (r *ReactionRepository) Counts(ctx context.Context, t model.TargetType, id int64) (model.ReactionCounts, error) {
	var counts model.ReactionCounts
	err := r.db.WithContext(ctx).Model(targetModel(t)).
		Select("like_count, dislike_count").
		Where("id = ?", id).
		Scan(&counts).Error
	return counts, err
}

// KindsByUser 批量查询用户在一组对象上的反应
func (r *ReactionRepository) KindsByUser(ctx context.Context, userID int64, t model.TargetType, ids []int64) (map[int64]model.ReactionKind, error) {
	result := make(map[int64]model.ReactionKind, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []model.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, t, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.TargetID] = row.Kind
	}
	return result, nil
}
