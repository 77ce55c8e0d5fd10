package service

import (
	"context"
	"sort"
	"time"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/apperr"
	"linkup-go/internal/metrics"
	"linkup-go/internal/repository"
)

var ErrSameUser = apperr.InvalidState("不能与自己比较")

// GraphService 关系派生查询：共同好友、共同粉丝、推荐与各类列表
//
// 邻接表一次读出，集合运算和排序在内存完成；分页基于同一次读取的有序物化结果，
// 游标为最后一项的排序键，翻页期间的并发写入不会造成重复或遗漏。
type GraphService struct {
	graphRepo    *repository.GraphRepository
	userRepo     *repository.UserRepository
	defaultLimit int
	maxLimit     int
}

func NewGraphService(graphRepo *repository.GraphRepository, userRepo *repository.UserRepository, defaultLimit, maxLimit int) *GraphService {
	return &GraphService{
		graphRepo:    graphRepo,
		userRepo:     userRepo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

type candidate struct {
	shared int
	at     time.Time
}

// candidates 候选集合，同一用户多次出现时累加共同数并保留最近时间
type candidates map[int64]*candidate

func (c candidates) add(userID int64, at time.Time, shared int) {
	cur, ok := c[userID]
	if !ok {
		c[userID] = &candidate{shared: shared, at: at}
		return
	}
	cur.shared += shared
	if at.After(cur.at) {
		cur.at = at
	}
}

func (c candidates) ranked() []RankKey {
	keys := make([]RankKey, 0, len(c))
	for id, cand := range c {
		keys = append(keys, newRankKey(id, cand.shared, cand.at))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

func fromLinks(links []repository.Link) candidates {
	c := make(candidates, len(links))
	for _, l := range links {
		c.add(l.UserID, l.Since, 0)
	}
	return c
}

func linkSet(links []repository.Link) map[int64]time.Time {
	set := make(map[int64]time.Time, len(links))
	for _, l := range links {
		set[l.UserID] = l.Since
	}
	return set
}

func observe(query string) func() {
	start := time.Now()
	return func() {
		metrics.GraphQueryLatency.WithLabelValues(query).Observe(time.Since(start).Seconds())
	}
}

// Friends 用户的好友
func (s *GraphService) Friends(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page[dto.GraphUser], error) {
	defer observe("friends")()
	links, err := s.graphRepo.FriendLinks(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.paginate(ctx, fromLinks(links), q)
}

// Followers 用户的粉丝
func (s *GraphService) Followers(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page[dto.GraphUser], error) {
	defer observe("followers")()
	links, err := s.graphRepo.Followers(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.paginate(ctx, fromLinks(links), q)
}

// Following 用户关注的人
func (s *GraphService) Following(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page[dto.GraphUser], error) {
	defer observe("following")()
	links, err := s.graphRepo.Following(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.paginate(ctx, fromLinks(links), q)
}

// IncomingRequests 收到的待处理好友请求
func (s *GraphService) IncomingRequests(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page[dto.GraphUser], error) {
	defer observe("incoming_requests")()
	links, err := s.graphRepo.IncomingRequests(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.paginate(ctx, fromLinks(links), q)
}

// OutgoingRequests 发出的待处理好友请求
func (s *GraphService) OutgoingRequests(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page[dto.GraphUser], error) {
	defer observe("outgoing_requests")()
	links, err := s.graphRepo.OutgoingRequests(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.paginate(ctx, fromLinks(links), q)
}

// Blocked 用户屏蔽的人
func (s *GraphService) Blocked(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page[dto.GraphUser], error) {
	defer observe("blocked")()
	links, err := s.graphRepo.BlockedByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.paginate(ctx, fromLinks(links), q)
}

// MutualFriends viewer 与 other 的共同好友；两人之间存在屏蔽时结果为空
func (s *GraphService) MutualFriends(ctx context.Context, viewerID, otherID int64, q dto.PageQuery) (*dto.Page[dto.GraphUser], error) {
	defer observe("mutual_friends")()
	if viewerID == otherID {
		return nil, ErrSameUser
	}

	blocked, err := s.graphRepo.BlockedPeers(ctx, viewerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	result := make(candidates)
	if blocked[otherID] {
		return s.paginate(ctx, result, q)
	}

	mine, err := s.graphRepo.FriendLinks(ctx, viewerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	theirs, err := s.graphRepo.FriendLinks(ctx, otherID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	mineSet := linkSet(mine)
	for _, l := range theirs {
		since, ok := mineSet[l.UserID]
		if !ok || blocked[l.UserID] || l.UserID == viewerID || l.UserID == otherID {
			continue
		}
		result.add(l.UserID, since, 0)
		result.add(l.UserID, l.Since, 0)
	}
	return s.paginate(ctx, result, q)
}

// MutualFollowers 同时关注 viewer 与 other 的用户，排除与 viewer 有屏蔽的
func (s *GraphService) MutualFollowers(ctx context.Context, viewerID, otherID int64, q dto.PageQuery) (*dto.Page[dto.GraphUser], error) {
	defer observe("mutual_followers")()
	if viewerID == otherID {
		return nil, ErrSameUser
	}

	blocked, err := s.graphRepo.BlockedPeers(ctx, viewerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	mine, err := s.graphRepo.Followers(ctx, viewerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	theirs, err := s.graphRepo.Followers(ctx, otherID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	mineSet := linkSet(mine)
	result := make(candidates)
	for _, l := range theirs {
		since, ok := mineSet[l.UserID]
		if !ok || blocked[l.UserID] {
			continue
		}
		result.add(l.UserID, since, 0)
		result.add(l.UserID, l.Since, 0)
	}
	return s.paginate(ctx, result, q)
}

// FriendSuggestions 好友的好友，去掉自己、已有好友和屏蔽对象，按共同好友数排序
func (s *GraphService) FriendSuggestions(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page[dto.GraphUser], error) {
	defer observe("friend_suggestions")()
	friends, err := s.graphRepo.FriendLinks(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	blocked, err := s.graphRepo.BlockedPeers(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	friendSet := linkSet(friends)
	friendIDs := make([]int64, 0, len(friends))
	for _, f := range friends {
		friendIDs = append(friendIDs, f.UserID)
	}
	pairs, err := s.graphRepo.FriendPairsOf(ctx, friendIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	result := make(candidates)
	consider := func(via, candidateID int64, at time.Time) {
		if _, ok := friendSet[via]; !ok {
			return
		}
		if candidateID == userID || blocked[candidateID] {
			return
		}
		if _, ok := friendSet[candidateID]; ok {
			return
		}
		result.add(candidateID, at, 1)
	}
	for _, p := range pairs {
		consider(p.SenderID, p.ReceiverID, p.UpdatedAt)
		consider(p.ReceiverID, p.SenderID, p.UpdatedAt)
	}
	return s.paginate(ctx, result, q)
}

// FollowerSuggestions 关注的人所关注的人，去掉自己、已关注和屏蔽对象
func (s *GraphService) FollowerSuggestions(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page[dto.GraphUser], error) {
	defer observe("follower_suggestions")()
	following, err := s.graphRepo.Following(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	blocked, err := s.graphRepo.BlockedPeers(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	followingSet := linkSet(following)
	followingIDs := make([]int64, 0, len(following))
	for _, f := range following {
		followingIDs = append(followingIDs, f.UserID)
	}
	pairs, err := s.graphRepo.FollowingOf(ctx, followingIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	result := make(candidates)
	for _, p := range pairs {
		id := p.FollowingID
		if id == userID || blocked[id] {
			continue
		}
		if _, ok := followingSet[id]; ok {
			continue
		}
		result.add(id, p.CreatedAt, 1)
	}
	return s.paginate(ctx, result, q)
}

// paginate 对有序物化结果分页；带游标时从游标之后开始
func (s *GraphService) paginate(ctx context.Context, c candidates, q dto.PageQuery) (*dto.Page[dto.GraphUser], error) {
	q = q.Normalize(s.defaultLimit, s.maxLimit)
	keys := c.ranked()
	total := len(keys)

	start, page := q.Offset(), q.Page
	if q.Cursor != "" {
		cur, err := decodeCursor(q.Cursor)
		if err != nil {
			return nil, err
		}
		start = sort.Search(total, func(i int) bool { return cur.Before(keys[i]) })
		page = start/q.Limit + 1
	}
	if start < 0 || start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	window := keys[start:end]

	ids := make([]int64, 0, len(window))
	for _, k := range window {
		ids = append(ids, k.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	items := make([]dto.GraphUser, 0, len(window))
	for _, k := range window {
		u, ok := users[k.UserID]
		if !ok {
			continue
		}
		items = append(items, dto.GraphUser{
			UserBrief:   *toUserBrief(u),
			SharedCount: k.Shared,
			Since:       time.Unix(0, k.Recency).UTC(),
		})
	}

	result := dto.NewPage(items, page, q.Limit, int64(total))
	if end < total && end > start {
		result.NextCursor = encodeCursor(keys[end-1])
	}
	return result, nil
}
