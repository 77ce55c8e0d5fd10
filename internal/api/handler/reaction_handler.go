package handler

import (
	"linkup-go/internal/api/response"
	"linkup-go/internal/model"
	"linkup-go/internal/service"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	reactionService *service.ReactionService
}

func NewReactionHandler(reactionService *service.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

// React 点赞/点踩，路由决定对象类型与反应类型
// @Summary 点赞或点踩
// @Description 同类型重复提交幂等，相反类型会原子切换；返回最新计数
// @Tags 反应
// @Produce json
// @Security BearerAuth
// @Param id path int true "帖子或评论ID"
// @Success 200 {object} response.Response{data=dto.ReactionResult}
// @Router /posts/{id}/like [post]
// @Router /posts/{id}/dislike [post]
// @Router /comments/{id}/like [post]
// @Router /comments/{id}/dislike [post]
func (h *ReactionHandler) React(target model.TargetType, kind model.ReactionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := parseIDParam(c)
		if !ok {
			return
		}
		result, err := h.reactionService.React(c.Request.Context(), currentUser(c), target, targetID, kind)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "操作成功", result)
	}
}

// Remove 撤销点赞/点踩；当前反应与路由不符时返回 409
// @Summary 撤销点赞或点踩
// @Tags 反应
// @Produce json
// @Security BearerAuth
// @Param id path int true "帖子或评论ID"
// @Success 200 {object} response.Response{data=dto.ReactionResult}
// @Failure 409 {object} response.ErrorResponse "当前反应与请求不一致"
// @Router /posts/{id}/like [delete]
// @Router /posts/{id}/dislike [delete]
// @Router /comments/{id}/like [delete]
// @Router /comments/{id}/dislike [delete]
func (h *ReactionHandler) Remove(target model.TargetType, kind model.ReactionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := parseIDParam(c)
		if !ok {
			return
		}
		result, err := h.reactionService.RemoveReaction(c.Request.Context(), currentUser(c), target, targetID, kind)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "已撤销", result)
	}
}
