package repository

import (
	"context"

	"linkup-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ViewRepository struct {
	db *gorm.DB
}

func NewViewRepository(db *gorm.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

func (r *ViewRepository) WithTx(tx *gorm.DB) *ViewRepository {
	return &ViewRepository{db: tx}
}

// Record 不存在则插入浏览记录，返回是否为首次浏览
func (r *ViewRepository) Record(ctx context.Context, postID int64, viewerKey string) (bool, error) {
	view := &model.PostView{PostID: postID, ViewerKey: viewerKey}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "viewer_key"}},
			DoNothing: true,
		}).
		Create(view)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
