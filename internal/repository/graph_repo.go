package repository

import (
	"context"
	"time"

	"linkup-go/internal/model"

	"gorm.io/gorm"
)

// Link 邻接表中的一条边：对端用户与建立时间
type Link struct {
	UserID int64
	Since  time.Time
}

// FriendPair 好友边两端，friends-of-friends 计算用
type FriendPair struct {
	SenderID   int64
	ReceiverID int64
	UpdatedAt  time.Time
}

// FollowPair 关注边两端
type FollowPair struct {
	FollowerID  int64
	FollowingID int64
	CreatedAt   time.Time
}

// GraphRepository 关系图只读查询，集合运算与排序在 service 层完成
type GraphRepository struct {
	db *gorm.DB
}

func NewGraphRepository(db *gorm.DB) *GraphRepository {
	return &GraphRepository{db: db}
}

// activeFriends 已接受且双方均未屏蔽
func (r *GraphRepository) activeFriends(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.FriendEdge{}).
		Where("state = ? AND sender_blocked = ? AND receiver_blocked = ?", model.FriendStateAccepted, false, false)
}

// FriendLinks 用户的好友及成为好友的时间
func (r *GraphRepository) FriendLinks(ctx context.Context, userID int64) ([]Link, error) {
	pairs, err := r.FriendPairsOf(ctx, []int64{userID})
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(pairs))
	for _, p := range pairs {
		other := p.ReceiverID
		if other == userID {
			other = p.SenderID
		}
		links = append(links, Link{UserID: other, Since: p.UpdatedAt})
	}
	return links, nil
}

// FriendPairsOf 任一端落在 ids 中的有效好友边
func (r *GraphRepository) FriendPairsOf(ctx context.Context, ids []int64) ([]FriendPair, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var pairs []FriendPair
	err := r.activeFriends(ctx).
		Select("sender_id, receiver_id, updated_at").
		Where("(sender_id IN ? OR receiver_id IN ?)", ids, ids).
		Scan(&pairs).Error
	return pairs, err
}

// BlockedPeers 与用户之间存在任一方向屏蔽的对端
func (r *GraphRepository) BlockedPeers(ctx context.Context, userID int64) (map[int64]bool, error) {
	var pairs []FriendPair
	err := r.db.WithContext(ctx).Model(&model.FriendEdge{}).
		Select("sender_id, receiver_id, updated_at").
		Where("(sender_id = ? OR receiver_id = ?) AND (sender_blocked = ? OR receiver_blocked = ?)", userID, userID, true, true).
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	peers := make(map[int64]bool, len(pairs))
	for _, p := range pairs {
		if p.SenderID == userID {
			peers[p.ReceiverID] = true
		} else {
			peers[p.SenderID] = true
		}
	}
	return peers, nil
}

// BlockedByUser 用户自己屏蔽的对端
func (r *GraphRepository) BlockedByUser(ctx context.Context, userID int64) ([]Link, error) {
	var pairs []FriendPair
	err := r.db.WithContext(ctx).Model(&model.FriendEdge{}).
		Select("sender_id, receiver_id, updated_at").
		Where("(sender_id = ? AND sender_blocked = ?) OR (receiver_id = ? AND receiver_blocked = ?)", userID, true, userID, true).
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(pairs))
	for _, p := range pairs {
		other := p.ReceiverID
		if other == userID {
			other = p.SenderID
		}
		links = append(links, Link{UserID: other, Since: p.UpdatedAt})
	}
	return links, nil
}

// IncomingRequests 发给用户且待处理的请求，返回请求方
func (r *GraphRepository) IncomingRequests(ctx context.Context, userID int64) ([]Link, error) {
	return r.pendingLinks(ctx, userID, true)
}

// OutgoingRequests 用户发出且待处理的请求，返回接收方
func (r *GraphRepository) OutgoingRequests(ctx context.Context, userID int64) ([]Link, error) {
	return r.pendingLinks(ctx, userID, false)
}

func (r *GraphRepository) pendingLinks(ctx context.Context, userID int64, incoming bool) ([]Link, error) {
	asReceiver, asSender := model.FriendStatePendingFromSender, model.FriendStatePendingFromReceiver
	if !incoming {
		asReceiver, asSender = asSender, asReceiver
	}
	var pairs []FriendPair
	err := r.db.WithContext(ctx).Model(&model.FriendEdge{}).
		Select("sender_id, receiver_id, updated_at").
		Where("sender_blocked = ? AND receiver_blocked = ?", false, false).
		Where("(receiver_id = ? AND state = ?) OR (sender_id = ? AND state = ?)", userID, asReceiver, userID, asSender).
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(pairs))
	for _, p := range pairs {
		other := p.ReceiverID
		if other == userID {
			other = p.SenderID
		}
		links = append(links, Link{UserID: other, Since: p.UpdatedAt})
	}
	return links, nil
}

// Followers 用户的粉丝
func (r *GraphRepository) Followers(ctx context.Context, userID int64) ([]Link, error) {
	var pairs []FollowPair
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Select("follower_id, following_id, created_at").
		Where("following_id = ?", userID).
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(pairs))
	for _, p := range pairs {
		links = append(links, Link{UserID: p.FollowerID, Since: p.CreatedAt})
	}
	return links, nil
}

// Following 用户关注的人
func (r *GraphRepository) Following(ctx context.Context, userID int64) ([]Link, error) {
	pairs, err := r.FollowingOf(ctx, []int64{userID})
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(pairs))
	for _, p := range pairs {
		links = append(links, Link{UserID: p.FollowingID, Since: p.CreatedAt})
	}
	return links, nil
}

// FollowingOf ids 中每个人的关注边
func (r *GraphRepository) FollowingOf(ctx context.Context, ids []int64) ([]FollowPair, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var pairs []FollowPair
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Select("follower_id, following_id, created_at").
		Where("follower_id IN ?", ids).
		Scan(&pairs).Error
	return pairs, err
}
