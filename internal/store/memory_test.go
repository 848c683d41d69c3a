package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// 测试内存存储的基本读写语义
func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	// 键不存在不是错误
	_, found, err := s.Get(ctx, "game:abc123")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.Set(ctx, "game:abc123", []byte(`{"state":"running"}`)))
	value, found, err := s.Get(ctx, "game:abc123")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `{"state":"running"}`, string(value))

	// 后写覆盖先写
	require.NoError(t, s.Set(ctx, "game:abc123", []byte(`{"state":"host_ready"}`)))
	value, _, _ = s.Get(ctx, "game:abc123")
	require.Equal(t, `{"state":"host_ready"}`, string(value))

	// 返回值是副本，调用方修改不影响存储
	value[0] = 'X'
	fresh, _, _ := s.Get(ctx, "game:abc123")
	require.Equal(t, `{"state":"host_ready"}`, string(fresh))

	require.NoError(t, s.Delete(ctx, "game:abc123"))
	_, found, _ = s.Get(ctx, "game:abc123")
	require.False(t, found)

	// 删除不存在的键为空操作
	require.NoError(t, s.Delete(ctx, "game:missing"))
}
