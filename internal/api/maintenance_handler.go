package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wfunc/region-war/internal/repository"
)

// MaintenanceHandler 维护接口处理器
// 双方都异常离开的对局会留下永不更新的记录，这里按更新时间
// 批量清理；正常退出的清理由主机方自己完成
type MaintenanceHandler struct {
	repo      repository.KVRepository
	recordTTL time.Duration
	log       *zap.Logger
}

// NewMaintenanceHandler 创建维护处理器
func NewMaintenanceHandler(repo repository.KVRepository, recordTTL time.Duration, log *zap.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{repo: repo, recordTTL: recordTTL, log: log}
}

// Sweep 清理废弃对局记录
// POST /api/v1/maintenance/sweep
func (h *MaintenanceHandler) Sweep(c *gin.Context) {
	before := time.Now().Add(-h.recordTTL)

	removed, err := h.repo.DeleteStale(c.Request.Context(), "game:", before)
	if err != nil {
		h.log.Error("清理废弃对局失败", zap.Error(err))
		respondError(c, err)
		return
	}

	h.log.Info("清理废弃对局完成",
		zap.Int64("removed", removed),
		zap.Time("before", before))

	respondOK(c, gin.H{
		"removed": removed,
		"before":  before.UnixMilli(),
	})
}
