package handler

import (
	"context"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/api/response"
	"linkup-go/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followService *service.FollowService
	graphService  *service.GraphService
}

func NewFollowHandler(followService *service.FollowService, graphService *service.GraphService) *FollowHandler {
	return &FollowHandler{followService: followService, graphService: graphService}
}

// Follow 关注用户
// @Summary 关注用户
// @Description 重复关注不报错
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "被关注用户ID"
// @Success 200 {object} response.Response "关注成功"
// @Failure 403 {object} response.ErrorResponse "存在屏蔽关系"
// @Failure 422 {object} response.ErrorResponse "不能关注自己"
// @Router /follows/{id} [post]
func (h *FollowHandler) Follow(c *gin.Context) {
	targetID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.followService.Follow(c.Request.Context(), currentUser(c), targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "关注成功", nil)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Description 未关注时同样返回成功
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "被取消关注用户ID"
// @Success 200 {object} response.Response "取消关注成功"
// @Router /follows/{id} [delete]
func (h *FollowHandler) Unfollow(c *gin.Context) {
	targetID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.followService.Unfollow(c.Request.Context(), currentUser(c), targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "取消关注成功", nil)
}

// Status 关注状态
// @Summary 查询关注状态
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标用户ID"
// @Success 200 {object} response.Response{data=dto.FollowStatus}
// @Router /users/{id}/follow-status [get]
func (h *FollowHandler) Status(c *gin.Context) {
	targetID, ok := parseIDParam(c)
	if !ok {
		return
	}
	st, err := h.followService.GetStatus(c.Request.Context(), currentUser(c), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取成功", st)
}

func (h *FollowHandler) listOf(c *gin.Context, userID int64, list graphList) {
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

// Followers 粉丝列表
// @Summary 粉丝列表
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.Page[dto.GraphUser]}
// @Router /users/{id}/followers [get]
func (h *FollowHandler) Followers(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		return
	}
	h.listOf(c, userID, h.graphService.Followers)
}

// Following 关注列表
// @Summary 关注列表
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.Page[dto.GraphUser]}
// @Router /users/{id}/following [get]
func (h *FollowHandler) Following(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		return
	}
	h.listOf(c, userID, h.graphService.Following)
}

// MutualFollowers 共同粉丝
// @Summary 共同粉丝
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标用户ID"
// @Success 200 {object} response.Response{data=dto.Page[dto.GraphUser]}
// @Router /users/{id}/mutual-followers [get]
func (h *FollowHandler) MutualFollowers(c *gin.Context) {
	otherID, ok := parseIDParam(c)
	if !ok {
		return
	}
	viewerID := currentUser(c)
	h.listOf(c, otherID, func(ctx context.Context, other int64, q dto.PageQuery) (*dto.Page[dto.GraphUser], error) {
		return h.graphService.MutualFollowers(ctx, viewerID, other, q)
	})
}

// Suggestions 关注推荐
// @Summary 关注推荐
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.Page[dto.GraphUser]}
// @Router /follows/suggestions [get]
func (h *FollowHandler) Suggestions(c *gin.Context) {
	h.listOf(c, currentUser(c), h.graphService.FollowerSuggestions)
}
