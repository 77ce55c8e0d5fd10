package handler

import (
	"context"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/api/response"
	"linkup-go/internal/service"

	"github.com/gin-gonic/gin"
)

type FriendHandler struct {
	relationshipService *service.RelationshipService
	graphService        *service.GraphService
}

func NewFriendHandler(relationshipService *service.RelationshipService, graphService *service.GraphService) *FriendHandler {
	return &FriendHandler{relationshipService: relationshipService, graphService: graphService}
}

type friendAction func(ctx context.Context, actorID, id int64) (*dto.FriendStatusResult, error)

func (h *FriendHandler) run(c *gin.Context, action friendAction, message string) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	result, err := action(c.Request.Context(), currentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, result)
}

// CreateRequest 发送好友请求
// @Summary 发送好友请求
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path int true "接收方用户ID"
// @Success 200 {object} response.Response{data=dto.FriendStatusResult}
// @Failure 403 {object} response.ErrorResponse "存在屏蔽关系"
// @Failure 409 {object} response.ErrorResponse "请求已存在或已是好友"
// @Router /friends/requests/{id} [post]
func (h *FriendHandler) CreateRequest(c *gin.Context) {
	h.run(c, h.relationshipService.CreateRequest, "好友请求已发送")
}

// Accept 接受好友请求
// @Summary 接受好友请求
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path int true "好友关系ID"
// @Success 200 {object} response.Response{data=dto.FriendStatusResult}
// @Failure 422 {object} response.ErrorResponse "状态不允许"
// @Router /friends/requests/{id}/accept [post]
func (h *FriendHandler) Accept(c *gin.Context) {
	h.run(c, h.relationshipService.Accept, "已接受好友请求")
}

// Reject 拒绝好友请求
// @Summary 拒绝好友请求
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path int true "好友关系ID"
// @Success 200 {object} response.Response{data=dto.FriendStatusResult}
// @Router /friends/requests/{id}/reject [post]
func (h *FriendHandler) Reject(c *gin.Context) {
	h.run(c, h.relationshipService.Reject, "已拒绝好友请求")
}

// RemoveRequest 撤回好友请求
// @Summary 撤回好友请求
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path int true "好友关系ID"
// @Success 200 {object} response.Response{data=dto.FriendStatusResult}
// @Router /friends/requests/{id} [delete]
func (h *FriendHandler) RemoveRequest(c *gin.Context) {
	h.run(c, h.relationshipService.RemoveRequest, "已撤回好友请求")
}

// RemoveFriend 解除好友关系
// @Summary 解除好友关系
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path int true "好友关系ID"
// @Success 200 {object} response.Response{data=dto.FriendStatusResult}
// @Router /friends/{id} [delete]
func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	h.run(c, h.relationshipService.RemoveFriend, "已解除好友关系")
}

// Block 屏蔽用户
// @Summary 屏蔽用户
// @Tags 屏蔽
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标用户ID"
// @Success 200 {object} response.Response{data=dto.FriendStatusResult}
// @Router /blocks/{id} [post]
func (h *FriendHandler) Block(c *gin.Context) {
	h.run(c, h.relationshipService.Block, "已屏蔽")
}

// Unblock 取消屏蔽
// @Summary 取消屏蔽
// @Tags 屏蔽
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标用户ID"
// @Success 200 {object} response.Response{data=dto.FriendStatusResult}
// @Router /blocks/{id} [delete]
func (h *FriendHandler) Unblock(c *gin.Context) {
	h.run(c, h.relationshipService.Unblock, "已取消屏蔽")
}

// Status 与目标用户的好友状态
// @Summary 查询好友状态
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标用户ID"
// @Success 200 {object} response.Response{data=dto.FriendStatusResult}
// @Router /friends/status/{id} [get]
func (h *FriendHandler) Status(c *gin.Context) {
	h.run(c, h.relationshipService.GetStatus, "获取成功")
}

type graphList func(ctx context.Context, userID int64, q dto.PageQuery) (*dto.Page[dto.GraphUser], error)

func (h *FriendHandler) listOf(c *gin.Context, userID int64, list graphList) {
	q, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := list(c.Request.Context(), userID, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取成功", page)
}

// Friends 用户的好友列表
// @Summary 好友列表
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param cursor query string false "游标"
// @Success 200 {object} response.Response{data=dto.Page[dto.GraphUser]}
// @Router /users/{id}/friends [get]
func (h *FriendHandler) Friends(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		return
	}
	h.listOf(c, userID, h.graphService.Friends)
}

// MutualFriends 与目标用户的共同好友
// @Summary 共同好友
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标用户ID"
// @Success 200 {object} response.Response{data=dto.Page[dto.GraphUser]}
// @Router /users/{id}/mutual-friends [get]
func (h *FriendHandler) MutualFriends(c *gin.Context) {
	otherID, ok := parseIDParam(c)
	if !ok {
		return
	}
	viewerID := currentUser(c)
	h.listOf(c, otherID, func(ctx context.Context, other int64, q dto.PageQuery) (*dto.Page[dto.GraphUser], error) {
		return h.graphService.MutualFriends(ctx, viewerID, other, q)
	})
}

// Incoming 收到的好友请求
// @Summary 收到的好友请求
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.Page[dto.GraphUser]}
// @Router /friends/requests/incoming [get]
func (h *FriendHandler) Incoming(c *gin.Context) {
	h.listOf(c, currentUser(c), h.graphService.IncomingRequests)
}

// Outgoing 发出的好友请求
// @Summary 发出的好友请求
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.Page[dto.GraphUser]}
// @Router /friends/requests/outgoing [get]
func (h *FriendHandler) Outgoing(c *gin.Context) {
	h.listOf(c, currentUser(c), h.graphService.OutgoingRequests)
}

// Suggestions 好友推荐
// @Summary 好友推荐
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.Page[dto.GraphUser]}
// @Router /friends/suggestions [get]
func (h *FriendHandler) Suggestions(c *gin.Context) {
	h.listOf(c, currentUser(c), h.graphService.FriendSuggestions)
}

// Blocked 我屏蔽的用户
// @Summary 屏蔽列表
// @Tags 屏蔽
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.Page[dto.GraphUser]}
// @Router /blocks [get]
func (h *FriendHandler) Blocked(c *gin.Context) {
	h.listOf(c, currentUser(c), h.graphService.Blocked)
}
