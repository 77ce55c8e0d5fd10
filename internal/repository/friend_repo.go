package repository

import (
	"context"

	"linkup-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

func (r *FriendRepository) WithTx(tx *gorm.DB) *FriendRepository {
	return &FriendRepository{db: tx}
}

// EnsureEdge 用户对之间的边不存在则创建，然后加锁读回
//
// 并发创建时唯一索引 (pair_low, pair_high) 保证只有一条边落库。
func (r *FriendRepository) EnsureEdge(ctx context.Context, actor, target int64) (*model.FriendEdge, error) {
	edge := model.NewFriendEdge(actor, target)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_low"}, {Name: "pair_high"}},
			DoNothing: true,
		}).
		Create(edge).Error
	if err != nil {
		return nil, err
	}
	return r.LockPair(ctx, actor, target)
}

// LockPair 加锁读取用户对之间的边
func (r *FriendRepository) LockPair(ctx context.Context, a, b int64) (*model.FriendEdge, error) {
	low, high := model.PairKey(a, b)
	var edge model.FriendEdge
	err := forUpdate(r.db.WithContext(ctx)).
		Where("pair_low = ? AND pair_high = ?", low, high).
		First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// FindPair 无锁读取用户对之间的边
func (r *FriendRepository) FindPair(ctx context.Context, a, b int64) (*model.FriendEdge, error) {
	low, high := model.PairKey(a, b)
	var edge model.FriendEdge
	err := r.db.WithContext(ctx).
		Where("pair_low = ? AND pair_high = ?", low, high).
		First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// LockByID 加锁读取边
func (r *FriendRepository) LockByID(ctx context.Context, id int64) (*model.FriendEdge, error) {
	var edge model.FriendEdge
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&edge).Error; err != nil {
		return nil, err
	}
	return &edge, nil
}

// Save 写回状态与屏蔽位
func (r *FriendRepository) Save(ctx context.Context, edge *model.FriendEdge) error {
	return r.db.WithContext(ctx).Model(edge).
		Select("state", "sender_blocked", "receiver_blocked", "updated_at").
		Updates(edge).Error
}
