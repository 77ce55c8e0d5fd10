package middleware

import (
	"strings"

	"linkup-go/internal/api/response"
	"linkup-go/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextKeyUserID = "currentUserID"
	HeaderViewToken  = "X-Viewer-Token"
)

// AuthRequired JWT 认证中间件，要求请求必须携带有效 Token
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "缺少认证令牌")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token, secret)
		if err != nil {
			response.Unauthorized(c, "无效或过期的认证令牌")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// OptionalAuth 携带有效 Token 时写入用户 ID，否则按匿名继续
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if claims, err := utils.ParseToken(token, secret); err == nil {
				c.Set(ContextKeyUserID, claims.UserID)
			}
		}
		c.Next()
	}
}

// GetCurrentUserID 从 Gin Context 中获取当前登录用户 ID
func GetCurrentUserID(c *gin.Context) (int64, bool) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := val.(int64)
	return userID, ok
}

// ViewerKey 浏览身份：登录用户优先，其次匿名令牌
func ViewerKey(c *gin.Context) (string, bool) {
	if userID, ok := GetCurrentUserID(c); ok {
		return utils.UserViewerKey(userID), true
	}
	if token := strings.TrimSpace(c.GetHeader(HeaderViewToken)); token != "" {
		return utils.AnonymousViewerKey(token), true
	}
	return "", false
}

// extractToken 从 Authorization 头中提取 Bearer Token
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
