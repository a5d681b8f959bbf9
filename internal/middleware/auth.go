package middleware

import (
	"campus_lms_backend/internal/config"
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 解析 Bearer token 并把 claims 放入上下文；
// 缺失或非法一律 401，进不到任何业务检查。
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// RoleMiddleware 路由级角色门槛，管理员直接放行。
// 服务层的授权检查才是权威判定，这里只做粗过滤。
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			if claims.Role == model.Admin || claims.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Error(c, 403, "Forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}
