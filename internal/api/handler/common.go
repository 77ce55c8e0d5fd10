package handler

import (
	"strconv"

	"linkup-go/internal/api/dto"
	"linkup-go/internal/api/middleware"
	"linkup-go/internal/api/response"

	"github.com/gin-gonic/gin"
)

// parseIDParam 解析路径参数 :id
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "无效的ID")
		return 0, false
	}
	return id, true
}

// bindPage 解析分页参数
func bindPage(c *gin.Context) (dto.PageQuery, bool) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "分页参数错误: "+err.Error())
		return q, false
	}
	return q, true
}

// currentUser 已认证路由上的当前用户
func currentUser(c *gin.Context) int64 {
	userID, _ := middleware.GetCurrentUserID(c)
	return userID
}
