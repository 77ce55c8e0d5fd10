package repository

import (
	"context"
	"strings"

	"linkup-go/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) WithTx(tx *gorm.DB) *PostRepository {
	return &PostRepository{db: tx}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// LockByID 加行锁读取帖子，计数变更前使用
func (r *PostRepository) LockByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByIDs 批量查询，按传入顺序返回，缺失的跳过
func (r *PostRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Post, error) {
	if len(ids) == 0 {
		return []model.Post{}, nil
	}
	var posts []model.Post
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]model.Post, 0, len(posts))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// ListByAuthor 作者的帖子列表（分页）
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int64, skip, limit int) ([]model.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", authorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := query.Order("created_at DESC").Order("id DESC").Offset(skip).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// SearchByContent 数据库模糊搜索，ES 不可用时的降级路径
func (r *PostRepository) SearchByContent(ctx context.Context, keyword string, skip, limit int) ([]model.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Post{}).
		Where(`LOWER(content) LIKE LOWER(?) ESCAPE '\'`, "%"+likeEscaper.Replace(keyword)+"%")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := query.Order("created_at DESC").Order("id DESC").Offset(skip).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListSince 增量同步用：按 id 升序扫描
func (r *PostRepository) ListSince(ctx context.Context, afterID int64, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).Where("id > ?", afterID).Order("id ASC").Limit(limit).Find(&posts).Error
	return posts, err
}

// IncrementViewCount 浏览数 +1 并读回
func (r *PostRepository) IncrementViewCount(ctx context.Context, id int64) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Post{}).Where("id = ?", id).
		UpdateColumn("view_count", increment("view_count", 1)).Error; err != nil {
		return 0, err
	}
	return r.ViewCount(ctx, id)
}

func (r *PostRepository) ViewCount(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).
		Pluck("view_count", &count).Error
	return count, err
}

func (r *PostRepository) IncrementCommentCount(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).
		UpdateColumn("comment_count", increment("comment_count", 1)).Error
}
