package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/cakeshop/internal/model"
	"github.com/d60-Lab/cakeshop/pkg/jwtauth"
	"github.com/d60-Lab/cakeshop/pkg/response"
)

// 上下文键：中间件解析出的调用方身份
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// JWTAuth 校验 Bearer 令牌，把调用方身份写入上下文。
// 缺失或过期一律 401，由前端跳转登录
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		claims, err := jwtauth.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireStaff 员工专用路由的角色闸门
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != model.RoleStaff {
			response.Forbidden(c, "staff only")
			return
		}
		c.Next()
	}
}
