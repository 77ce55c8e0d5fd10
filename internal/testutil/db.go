// Package testutil 测试用的内存数据库与数据构造
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"linkup-go/internal/infra/database"
	"linkup-go/internal/model"
	"linkup-go/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbName = strings.NewReplacer("/", "_", " ", "_")

// NewTestDB 每个测试独立的内存 sqlite，单连接保证事务串行
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	opts := database.Options()
	opts.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName.Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), opts)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// SeedUsers 按名字创建用户，返回同序的 id
func SeedUsers(t *testing.T, db *gorm.DB, names ...string) []int64 {
	t.Helper()
	users := repository.NewUserRepository(db)
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		u := &model.User{UserName: name, Email: name + "@example.com"}
		require.NoError(t, users.Create(context.Background(), u))
		ids = append(ids, u.ID)
	}
	return ids
}

// SeedPost 创建帖子
func SeedPost(t *testing.T, db *gorm.DB, authorID int64, content string) *model.Post {
	t.Helper()
	p := &model.Post{AuthorID: authorID, Content: content}
	require.NoError(t, db.Create(p).Error)
	return p
}

// SeedComment 创建评论
func SeedComment(t *testing.T, db *gorm.DB, postID, userID int64, content string) *model.Comment {
	t.Helper()
	c := &model.Comment{PostID: postID, UserID: userID, Content: content}
	require.NoError(t, db.Create(c).Error)
	return c
}

// Notifications 接收方收到的全部通知，按 id 升序
func Notifications(t *testing.T, db *gorm.DB, receiverID int64) []model.Notification {
	t.Helper()
	var list []model.Notification
	require.NoError(t, db.Where("receiver_id = ?", receiverID).Order("id ASC").Find(&list).Error)
	return list
}

// CountFriendEdges 用户对之间的好友边数
func CountFriendEdges(t *testing.T, db *gorm.DB, a, b int64) int64 {
	t.Helper()
	low, high := model.PairKey(a, b)
	var count int64
	require.NoError(t, db.Model(&model.FriendEdge{}).
		Where("pair_low = ? AND pair_high = ?", low, high).
		Count(&count).Error)
	return count
}

// CountReactions 直接从账本统计某类反应
func CountReactions(t *testing.T, db *gorm.DB, target model.TargetType, id int64, kind model.ReactionKind) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.Reaction{}).
		Where("target_type = ? AND target_id = ? AND kind = ?", target, id, kind).
		Count(&count).Error)
	return count
}

// CountViews 账本中的浏览记录数
func CountViews(t *testing.T, db *gorm.DB, postID int64) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.PostView{}).Where("post_id = ?", postID).Count(&count).Error)
	return count
}
