package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/region-war/internal/utils"
)

// AuthMiddleware JWT认证中间件
type AuthMiddleware struct {
	jwtManager *utils.JWTManager
	enabled    bool
}

// NewAuthMiddleware 创建认证中间件
// enabled 为假时全部请求直接放行（局域网部署不开认证）
func NewAuthMiddleware(jwtManager *utils.JWTManager, enabled bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		enabled:    enabled,
	}
}

// RequireAuth 需要认证的中间件
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		token := m.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "NO_TOKEN",
				"message": "缺少认证令牌",
			})
			c.Abort()
			return
		}

		// 验证令牌
		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "INVALID_TOKEN",
				"message": "无效的令牌",
				"details": err.Error(),
			})
			c.Abort()
			return
		}

		// 将玩家信息存入上下文
		c.Set("playerID", claims.PlayerID)
		c.Set("role", claims.Role)
		c.Set("token", token)

		c.Next()
	}
}

// RequireRole 需要特定角色的中间件（维护接口要求 admin）
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		token := m.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "NO_TOKEN",
				"message": "缺少认证令牌",
			})
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "INVALID_TOKEN",
				"message": "无效的令牌",
				"details": err.Error(),
			})
			c.Abort()
			return
		}

		// 检查角色
		hasRole := false
		for _, role := range roles {
			if claims.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    "INSUFFICIENT_PERMISSION",
				"message": "权限不足",
			})
			c.Abort()
			return
		}

		c.Set("playerID", claims.PlayerID)
		c.Set("role", claims.Role)
		c.Set("token", token)

		c.Next()
	}
}

// extractToken 从请求中提取令牌
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	// 1. 从Authorization Header获取 (Bearer Token)
	bearerToken := c.GetHeader("Authorization")
	if bearerToken != "" {
		parts := strings.Split(bearerToken, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// 2. 从X-Access-Token Header获取
	if token := c.GetHeader("X-Access-Token"); token != "" {
		return token
	}

	return ""
}

// GetPlayerID 从上下文获取玩家标识
func GetPlayerID(c *gin.Context) (string, bool) {
	if playerID, exists := c.Get("playerID"); exists {
		if id, ok := playerID.(string); ok {
			return id, true
		}
	}
	return "", false
}

// GetRole 从上下文获取角色
func GetRole(c *gin.Context) (string, bool) {
	if role, exists := c.Get("role"); exists {
		if r, ok := role.(string); ok {
			return r, true
		}
	}
	return "", false
}
