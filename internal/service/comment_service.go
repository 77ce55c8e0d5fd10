package service

import (
	"context"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/apperr"
	"linkup-go/internal/model"
	"linkup-go/internal/repository"
	"linkup-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resourceComment = "评论"

var ErrParentMismatch = apperr.InvalidState("回复的评论不属于该帖子")

type CommentService struct {
	db           *gorm.DB
	commentRepo  *repository.CommentRepository
	postRepo     *repository.PostRepository
	userRepo     *repository.UserRepository
	dispatcher   *NotificationDispatcher
	defaultLimit int
	maxLimit     int
}

func NewCommentService(db *gorm.DB, dispatcher *NotificationDispatcher, defaultLimit, maxLimit int) *CommentService {
	return &CommentService{
		db:           db,
		commentRepo:  repository.NewCommentRepository(db),
		postRepo:     repository.NewPostRepository(db),
		userRepo:     repository.NewUserRepository(db),
		dispatcher:   dispatcher,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// CreateComment 发表评论或回复
//
// 顶层评论通知帖子作者（Comment），回复通知被回复评论的作者（Reply）。
func (s *CommentService) CreateComment(ctx context.Context, userID, postID int64, req *dto.CommentCreateRequest) (*dto.CommentInfo, error) {
	comment := &model.Comment{
		PostID:   postID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := s.postRepo.WithTx(tx)
		comments := s.commentRepo.WithTx(tx)

		post, err := posts.LockByID(ctx, postID)
		if err != nil {
			return apperr.FromDB(err, resourcePost, postID)
		}

		n := &model.Notification{
			SenderID:   userID,
			ReceiverID: post.AuthorID,
			Type:       model.NotificationComment,
			Content:    excerpt(req.Content),
		}
		if req.ParentID != nil {
			parent, err := comments.GetByID(ctx, *req.ParentID)
			if err != nil {
				return apperr.FromDB(err, resourceComment, *req.ParentID)
			}
			if parent.PostID != postID {
				return ErrParentMismatch
			}
			n.ReceiverID = parent.UserID
			n.Type = model.NotificationReply
		}

		if err := comments.Create(ctx, comment); err != nil {
			return err
		}
		if err := posts.IncrementCommentCount(ctx, postID); err != nil {
			return err
		}

		pid, cid := postID, comment.ID
		n.PostID, n.CommentID = &pid, &cid
		return s.dispatcher.Dispatch(ctx, tx, n)
	})
	if err != nil {
		appErr := apperr.FromDB(err, resourceComment, postID)
		if apperr.Is(appErr, apperr.KindInternal) {
			logger.Error("Create comment failed", zap.Int64("post_id", postID), zap.Error(err))
		}
		return nil, appErr
	}

	user, _ := s.userRepo.GetByID(ctx, userID)
	return toCommentInfo(comment, user), nil
}

// ListByPost 帖子下的评论（分页）
func (s *CommentService) ListByPost(ctx context.Context, postID int64, q dto.PageQuery) (*dto.Page[dto.CommentInfo], error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, apperr.FromDB(err, resourcePost, postID)
	}

	q = q.Normalize(s.defaultLimit, s.maxLimit)
	comments, total, err := s.commentRepo.ListByPost(ctx, postID, q.Offset(), q.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	userIDs := make([]int64, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	items := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		items = append(items, *toCommentInfo(&comments[i], users[comments[i].UserID]))
	}
	return dto.NewPage(items, q.Page, q.Limit, total), nil
}

func toCommentInfo(c *model.Comment, user *model.User) *dto.CommentInfo {
	return &dto.CommentInfo{
		ID:           c.ID,
		PostID:       c.PostID,
		ParentID:     c.ParentID,
		User:         toUserBrief(user),
		Content:      c.Content,
		LikeCount:    c.LikeCount,
		DislikeCount: c.DislikeCount,
		CreatedAt:    c.CreatedAt,
	}
}
