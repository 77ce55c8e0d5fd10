package handler

import (
	"linkup-go/internal/api/response"
	"linkup-go/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List 我的通知
// @Summary 通知列表
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.Page[dto.NotificationInfo]}
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := h.notificationService.List(c.Request.Context(), currentUser(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取成功", page)
}

// MarkRead 标记已读，返回最新未读数
// @Summary 标记已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param id path int true "通知ID"
// @Success 200 {object} response.Response{data=dto.NotificationCount}
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	count, err := h.notificationService.MarkRead(c.Request.Context(), currentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "已读", count)
}

// UnreadCount 未读数
// @Summary 未读数
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.NotificationCount}
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.Request.Context(), currentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取成功", count)
}

// TotalCount 通知总数
// @Summary 通知总数
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.NotificationCount}
// @Router /notifications/total-count [get]
func (h *NotificationHandler) TotalCount(c *gin.Context) {
	count, err := h.notificationService.TotalCount(c.Request.Context(), currentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取成功", count)
}
