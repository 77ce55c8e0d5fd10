package router

import (
	"linkup-go/internal/api/handler"
	"linkup-go/internal/api/middleware"
	"linkup-go/internal/model"

	"github.com/gin-gonic/gin"
)

// Handlers 业务路由依赖
type Handlers struct {
	Friend       *handler.FriendHandler
	Follow       *handler.FollowHandler
	Post         *handler.PostHandler
	Reaction     *handler.ReactionHandler
	Notification *handler.NotificationHandler
}

// Setup 注册所有业务路由
func Setup(r *gin.Engine, h *Handlers, jwtSecret string) {
	v1 := r.Group("/api/v1")
	auth := middleware.AuthRequired(jwtSecret)
	optional := middleware.OptionalAuth(jwtSecret)

	// --- 好友模块 ---
	friends := v1.Group("/friends", auth)
	{
		friends.POST("/requests/:id", h.Friend.CreateRequest)
		friends.POST("/requests/:id/accept", h.Friend.Accept)
		friends.POST("/requests/:id/reject", h.Friend.Reject)
		friends.DELETE("/requests/:id", h.Friend.RemoveRequest)
		friends.GET("/requests/incoming", h.Friend.Incoming)
		friends.GET("/requests/outgoing", h.Friend.Outgoing)
		friends.DELETE("/:id", h.Friend.RemoveFriend)
		friends.GET("/status/:id", h.Friend.Status)
		friends.GET("/suggestions", h.Friend.Suggestions)
	}

	// --- 屏蔽模块 ---
	blocks := v1.Group("/blocks", auth)
	{
		blocks.GET("", h.Friend.Blocked)
		blocks.POST("/:id", h.Friend.Block)
		blocks.DELETE("/:id", h.Friend.Unblock)
	}

	// --- 关注模块 ---
	follows := v1.Group("/follows", auth)
	{
		follows.POST("/:id", h.Follow.Follow)
		follows.DELETE("/:id", h.Follow.Unfollow)
		follows.GET("/suggestions", h.Follow.Suggestions)
	}

	// --- 用户关系视图 ---
	users := v1.Group("/users")
	{
		users.GET("/:id/posts", optional, h.Post.ListByAuthor)

		authed := users.Group("", auth)
		authed.GET("/:id/friends", h.Friend.Friends)
		authed.GET("/:id/mutual-friends", h.Friend.MutualFriends)
		authed.GET("/:id/followers", h.Follow.Followers)
		authed.GET("/:id/following", h.Follow.Following)
		authed.GET("/:id/mutual-followers", h.Follow.MutualFollowers)
		authed.GET("/:id/follow-status", h.Follow.Status)
	}

	// --- 帖子模块 ---
	posts := v1.Group("/posts")
	{
		posts.GET("/search", optional, h.Post.Search)
		posts.GET("/:id", optional, h.Post.Get)
		posts.POST("/:id/views", optional, h.Post.RecordView)
		posts.GET("/:id/comments", h.Post.ListComments)

		authed := posts.Group("", auth)
		authed.POST("", h.Post.Create)
		authed.POST("/:id/comments", h.Post.CreateComment)
		registerReactions(authed, h.Reaction, model.TargetPost)
	}

	// --- 评论模块 ---
	comments := v1.Group("/comments", auth)
	{
		registerReactions(comments, h.Reaction, model.TargetComment)
	}

	// --- 通知模块 ---
	notifications := v1.Group("/notifications", auth)
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unread-count", h.Notification.UnreadCount)
		notifications.GET("/total-count", h.Notification.TotalCount)
		notifications.POST("/:id/read", h.Notification.MarkRead)
	}
}

func registerReactions(g *gin.RouterGroup, h *handler.ReactionHandler, target model.TargetType) {
	g.POST("/:id/like", h.React(target, model.ReactionLike))
	g.POST("/:id/dislike", h.React(target, model.ReactionDislike))
	g.DELETE("/:id/like", h.Remove(target, model.ReactionLike))
	g.DELETE("/:id/dislike", h.Remove(target, model.ReactionDislike))
}
