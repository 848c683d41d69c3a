package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wfunc/region-war/internal/errors"
	"github.com/wfunc/region-war/internal/utils"
)

// AuthHandler 认证处理器
// 没有账号体系：玩家进程自报一个标识换取访问令牌，
// 令牌只用于隔离无关流量和审计日志，不承载任何权限语义
type AuthHandler struct {
	jwtManager *utils.JWTManager
	log        *zap.Logger
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(jwtManager *utils.JWTManager, log *zap.Logger) *AuthHandler {
	return &AuthHandler{jwtManager: jwtManager, log: log}
}

// tokenRequest 令牌申请载荷
type tokenRequest struct {
	PlayerID string `json:"player_id"`
}

// IssueToken 签发访问令牌
// POST /api/v1/auth/token
// 只签发 player 角色；admin 令牌由运维在进程外签发
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrInvalidParam, "载荷解析失败"))
		return
	}

	playerID := req.PlayerID
	if playerID == "" {
		playerID = uuid.NewString()
	}

	token, err := h.jwtManager.GenerateToken(playerID, "player")
	if err != nil {
		h.log.Error("签发令牌失败", zap.String("player_id", playerID), zap.Error(err))
		respondError(c, errors.Wrap(err, errors.ErrAuthentication))
		return
	}

	respondOK(c, gin.H{
		"player_id":  playerID,
		"token":      token,
		"expires_in": int64(h.jwtManager.GetTokenExpiry().Seconds()),
	})
}
