package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairKey(t *testing.T) {
	low, high := PairKey(9, 3)
	assert.Equal(t, int64(3), low)
	assert.Equal(t, int64(9), high)

	low2, high2 := PairKey(3, 9)
	assert.Equal(t, low, low2)
	assert.Equal(t, high, high2)
}

func TestFriendEdge_RequestAccept(t *testing.T) {
	e := NewFriendEdge(1, 2)
	require.NoError(t, e.Request(1))
	assert.Equal(t, FriendStatePendingFromSender, e.State)

	requester, ok := e.Requester()
	require.True(t, ok)
	assert.Equal(t, int64(1), requester)

	assert.ErrorIs(t, e.Request(2), ErrFriendRequestExists)
	assert.ErrorIs(t, e.Accept(1), ErrNotRequestAddressee)

	require.NoError(t, e.Accept(2))
	assert.True(t, e.IsFriend())
	assert.ErrorIs(t, e.Request(1), ErrAlreadyFriends)
}

func TestFriendEdge_RejectThenRequestAgain(t *testing.T) {
	e := NewFriendEdge(1, 2)
	require.NoError(t, e.Request(1))
	require.NoError(t, e.Reject(2))
	assert.Equal(t, FriendStateRejected, e.State)
	assert.ErrorIs(t, e.Accept(2), ErrRequestNotPending)

	// 被拒绝方反向发起，复用同一条边
	require.NoError(t, e.Request(2))
	assert.Equal(t, FriendStatePendingFromReceiver, e.State)
	addressee, ok := e.Addressee()
	require.True(t, ok)
	assert.Equal(t, int64(1), addressee)
}

func TestFriendEdge_Withdraw(t *testing.T) {
	e := NewFriendEdge(1, 2)
	assert.ErrorIs(t, e.Withdraw(1), ErrRequestNotPending)

	require.NoError(t, e.Request(1))
	assert.ErrorIs(t, e.Withdraw(2), ErrNotRequester)
	require.NoError(t, e.Withdraw(1))
	assert.Equal(t, FriendStateNone, e.State)
}

func TestFriendEdge_Unfriend(t *testing.T) {
	e := NewFriendEdge(1, 2)
	assert.ErrorIs(t, e.Unfriend(), ErrNotFriends)

	require.NoError(t, e.Request(1))
	require.NoError(t, e.Accept(2))
	require.NoError(t, e.Unfriend())
	assert.False(t, e.IsFriend())
}

func TestFriendEdge_BlockSupersedes(t *testing.T) {
	e := NewFriendEdge(1, 2)
	require.NoError(t, e.Request(1))

	assert.True(t, e.SetBlocked(2, true))
	assert.False(t, e.SetBlocked(2, true))
	assert.True(t, e.BlockedBy(2))
	assert.False(t, e.BlockedBy(1))

	assert.ErrorIs(t, e.Accept(2), ErrFriendBlocked)
	assert.ErrorIs(t, e.Request(1), ErrFriendBlocked)

	st := e.Status()
	assert.Equal(t, FriendStatus{ReceiverBlocked: true}, st)

	assert.True(t, e.SetBlocked(2, false))
	assert.True(t, e.Status().SenderPending)
}

func TestFriendEdge_SetBlockedIgnoresOutsider(t *testing.T) {
	e := NewFriendEdge(1, 2)
	assert.False(t, e.SetBlocked(3, true))
	assert.False(t, e.Blocked())
	assert.False(t, e.IsParty(3))
	assert.Equal(t, int64(2), e.Other(1))
	assert.Equal(t, int64(1), e.Other(2))
}

func TestFriendEdge_Status(t *testing.T) {
	tests := []struct {
		name  string
		state FriendState
		want  FriendStatus
	}{
		{"none", FriendStateNone, FriendStatus{}},
		{"pending sender", FriendStatePendingFromSender, FriendStatus{SenderPending: true}},
		{"pending receiver", FriendStatePendingFromReceiver, FriendStatus{ReceiverPending: true}},
		{"accepted", FriendStateAccepted, FriendStatus{Accepted: true}},
		{"rejected", FriendStateRejected, FriendStatus{Rejected: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewFriendEdge(1, 2)
			e.State = tt.state
			assert.Equal(t, tt.want, e.Status())
		})
	}
}

func TestReactionKind(t *testing.T) {
	assert.Equal(t, "like_count", ReactionLike.CounterColumn())
	assert.Equal(t, "dislike_count", ReactionDislike.CounterColumn())
	assert.False(t, ReactionKind("love").Valid())
	assert.False(t, TargetType("video").Valid())

	counts := ReactionCounts{LikeCount: 3, DislikeCount: 1}
	assert.Equal(t, int64(3), counts.Of(ReactionLike))
	assert.Equal(t, int64(1), counts.Of(ReactionDislike))
}
