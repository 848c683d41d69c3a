package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wfunc/region-war/internal/errors"
	"github.com/wfunc/region-war/internal/repository"
)

// KVHandler 键值接口处理器
// 存储服务对协议内容完全无感：键和值都是不透明字符串，
// 对局快照的语义全部在玩家进程一侧
type KVHandler struct {
	repo repository.KVRepository
	log  *zap.Logger
}

// NewKVHandler 创建键值处理器
func NewKVHandler(repo repository.KVRepository, log *zap.Logger) *KVHandler {
	return &KVHandler{repo: repo, log: log}
}

// kvPayload 键值载荷
type kvPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Get 读取键值
// GET /api/v1/kv/:key
func (h *KVHandler) Get(c *gin.Context) {
	key := c.Param("key")

	record, err := h.repo.Get(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, kvPayload{Key: record.Key, Value: record.Value})
}

// Put 写入键值（后写覆盖先写）
// PUT /api/v1/kv/:key
func (h *KVHandler) Put(c *gin.Context) {
	key := c.Param("key")

	var payload kvPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrInvalidParam, "载荷解析失败"))
		return
	}

	if err := h.repo.Set(c.Request.Context(), key, payload.Value); err != nil {
		h.log.Error("写入键值失败", zap.String("key", key), zap.Error(err))
		respondError(c, err)
		return
	}

	respondOK(c, kvPayload{Key: key, Value: payload.Value})
}

// Delete 删除键
// DELETE /api/v1/kv/:key
func (h *KVHandler) Delete(c *gin.Context) {
	key := c.Param("key")

	if err := h.repo.Delete(c.Request.Context(), key); err != nil {
		h.log.Error("删除键值失败", zap.String("key", key), zap.Error(err))
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"key": key})
}

// List 按前缀分页列出键值
// GET /api/v1/kv?prefix=game:&page=1&page_size=20
func (h *KVHandler) List(c *gin.Context) {
	prefix := c.Query("prefix")

	var query struct {
		Page     int `form:"page"`
		PageSize int `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrInvalidParam, "分页参数解析失败"))
		return
	}

	p := repository.NewPagination(query.Page, query.PageSize)
	records, err := h.repo.ListByPrefix(c.Request.Context(), prefix, p)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]kvPayload, 0, len(records))
	for _, record := range records {
		items = append(items, kvPayload{Key: record.Key, Value: record.Value})
	}

	respondOK(c, gin.H{
		"items":      items,
		"pagination": p,
	})
}
