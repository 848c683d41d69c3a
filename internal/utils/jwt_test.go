package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试令牌生成与验证
func TestJWTGenerateAndValidate(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateToken("player-001", "player")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "player-001", claims.PlayerID)
	assert.Equal(t, "player", claims.Role)
	assert.Equal(t, "region-war", claims.Issuer)
}

// 测试过期令牌被拒绝
func TestJWTExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.GenerateToken("player-001", "player")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

// 测试密钥不匹配被拒绝
func TestJWTWrongSecret(t *testing.T) {
	manager := NewJWTManager("secret-a", time.Hour)
	other := NewJWTManager("secret-b", time.Hour)

	token, err := manager.GenerateToken("player-001", "player")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
