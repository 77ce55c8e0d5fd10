package model

import (
	"time"

	"linkup-go/internal/apperr"
)

// FriendState 好友关系状态，与屏蔽位正交
type FriendState string

const (
	FriendStateNone                FriendState = "none"
	FriendStatePendingFromSender   FriendState = "pending_sender"
	FriendStatePendingFromReceiver FriendState = "pending_receiver"
	FriendStateAccepted            FriendState = "accepted"
	FriendStateRejected            FriendState = "rejected"
)

// 状态迁移错误
var (
	ErrFriendSelf          = apperr.InvalidState("不能对自己执行好友操作")
	ErrFriendBlocked       = apperr.Forbidden("双方存在屏蔽关系")
	ErrFriendRequestExists = apperr.Conflict("好友请求已存在")
	ErrAlreadyFriends      = apperr.Conflict("已经是好友")
	ErrRequestNotPending   = apperr.InvalidState("好友请求不处于待处理状态")
	ErrNotRequestAddressee = apperr.InvalidState("只有请求接收方可以处理该请求")
	ErrNotRequester        = apperr.InvalidState("只有请求发起方可以撤回该请求")
	ErrNotFriends          = apperr.InvalidState("双方不是好友")
)

// FriendEdge 一对用户之间唯一的好友边，(pair_low, pair_high) 唯一
//
// SenderID/ReceiverID 在边创建后不再交换，屏蔽位始终跟随对应的人；
// 请求方向由 State 表达。
type FriendEdge struct {
	ID              int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID        int64       `gorm:"not null;index:idx_friend_edges_sender" json:"sender_id"`
	ReceiverID      int64       `gorm:"not null;index:idx_friend_edges_receiver" json:"receiver_id"`
	PairLow         int64       `gorm:"not null;uniqueIndex:uq_friend_edge_pair,priority:1" json:"-"`
	PairHigh        int64       `gorm:"not null;uniqueIndex:uq_friend_edge_pair,priority:2" json:"-"`
	State           FriendState `gorm:"size:20;not null;default:none;index" json:"state"`
	SenderBlocked   bool        `gorm:"not null;default:false" json:"sender_blocked"`
	ReceiverBlocked bool        `gorm:"not null;default:false" json:"receiver_blocked"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FriendEdge) TableName() string {
	return "friend_edges"
}

// PairKey 无序用户对的规范键
func PairKey(a, b int64) (low, high int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// NewFriendEdge 首次交互时创建的边，sender 为首个动作发起方
func NewFriendEdge(sender, receiver int64) *FriendEdge {
	low, high := PairKey(sender, receiver)
	return &FriendEdge{
		SenderID:   sender,
		ReceiverID: receiver,
		PairLow:    low,
		PairHigh:   high,
		State:      FriendStateNone,
	}
}

func (e *FriendEdge) IsParty(userID int64) bool {
	return userID == e.SenderID || userID == e.ReceiverID
}

// Other 返回边上的另一方
func (e *FriendEdge) Other(userID int64) int64 {
	if userID == e.SenderID {
		return e.ReceiverID
	}
	return e.SenderID
}

// Blocked 任一方屏蔽即为 true
func (e *FriendEdge) Blocked() bool {
	return e.SenderBlocked || e.ReceiverBlocked
}

func (e *FriendEdge) BlockedBy(userID int64) bool {
	switch userID {
	case e.SenderID:
		return e.SenderBlocked
	case e.ReceiverID:
		return e.ReceiverBlocked
	}
	return false
}

// SetBlocked 设置 actor 自己的屏蔽位，返回是否发生变化
func (e *FriendEdge) SetBlocked(actor int64, blocked bool) bool {
	switch actor {
	case e.SenderID:
		changed := e.SenderBlocked != blocked
		e.SenderBlocked = blocked
		return changed
	case e.ReceiverID:
		changed := e.ReceiverBlocked != blocked
		e.ReceiverBlocked = blocked
		return changed
	}
	return false
}

func (e *FriendEdge) IsPending() bool {
	return e.State == FriendStatePendingFromSender || e.State == FriendStatePendingFromReceiver
}

// Requester 待处理请求的发起方
func (e *FriendEdge) Requester() (int64, bool) {
	switch e.State {
	case FriendStatePendingFromSender:
		return e.SenderID, true
	case FriendStatePendingFromReceiver:
		return e.ReceiverID, true
	}
	return 0, false
}

// Addressee 待处理请求的接收方
func (e *FriendEdge) Addressee() (int64, bool) {
	requester, ok := e.Requester()
	if !ok {
		return 0, false
	}
	return e.Other(requester), true
}

// IsFriend 未被屏蔽的已接受关系
func (e *FriendEdge) IsFriend() bool {
	return e.State == FriendStateAccepted && !e.Blocked()
}

// Request actor 发起好友请求；拒绝后再次请求复用该边并重置为待处理
func (e *FriendEdge) Request(actor int64) error {
	if e.Blocked() {
		return ErrFriendBlocked
	}
	switch e.State {
	case FriendStateAccepted:
		return ErrAlreadyFriends
	case FriendStatePendingFromSender, FriendStatePendingFromReceiver:
		return ErrFriendRequestExists
	}
	if actor == e.SenderID {
		e.State = FriendStatePendingFromSender
	} else {
		e.State = FriendStatePendingFromReceiver
	}
	return nil
}

func (e *FriendEdge) respond(actor int64, next FriendState) error {
	if e.Blocked() {
		return ErrFriendBlocked
	}
	addressee, ok := e.Addressee()
	if !ok {
		return ErrRequestNotPending
	}
	if actor != addressee {
		return ErrNotRequestAddressee
	}
	e.State = next
	return nil
}

// Accept 仅请求接收方可接受
func (e *FriendEdge) Accept(actor int64) error {
	return e.respond(actor, FriendStateAccepted)
}

// Reject 仅请求接收方可拒绝
func (e *FriendEdge) Reject(actor int64) error {
	return e.respond(actor, FriendStateRejected)
}

// Withdraw 请求发起方撤回待处理请求
func (e *FriendEdge) Withdraw(actor int64) error {
	requester, ok := e.Requester()
	if !ok {
		return ErrRequestNotPending
	}
	if actor != requester {
		return ErrNotRequester
	}
	e.State = FriendStateNone
	return nil
}

// Unfriend 任一方解除好友关系
func (e *FriendEdge) Unfriend() error {
	if e.State != FriendStateAccepted {
		return ErrNotFriends
	}
	e.State = FriendStateNone
	return nil
}

// FriendStatus 对外的布尔状态组
type FriendStatus struct {
	Accepted        bool `json:"accepted"`
	SenderBlocked   bool `json:"senderBlocked"`
	ReceiverBlocked bool `json:"receiverBlocked"`
	SenderPending   bool `json:"senderPending"`
	ReceiverPending bool `json:"receiverPending"`
	Rejected        bool `json:"rejected"`
}

// Status 投影为布尔状态组；存在屏蔽时隐藏关系状态
func (e *FriendEdge) Status() FriendStatus {
	st := FriendStatus{
		SenderBlocked:   e.SenderBlocked,
		ReceiverBlocked: e.ReceiverBlocked,
	}
	if e.Blocked() {
		return st
	}
	switch e.State {
	case FriendStateAccepted:
		st.Accepted = true
	case FriendStatePendingFromSender:
		st.SenderPending = true
	case FriendStatePendingFromReceiver:
		st.ReceiverPending = true
	case FriendStateRejected:
		st.Rejected = true
	}
	return st
}
