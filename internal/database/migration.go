package database

import (
	"fmt"

	"github.com/wfunc/region-war/internal/logger"
	"github.com/wfunc/region-war/internal/models"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	logger.Info("开始数据库迁移...")

	if err := DB.AutoMigrate(&models.KVRecord{}); err != nil {
		return fmt.Errorf("迁移键值表失败: %w", err)
	}

	logger.Info("数据库迁移完成")
	return nil
}

// DropAllTables 删除所有表（仅用于测试环境）
func DropAllTables() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}
	return DB.Migrator().DropTable(&models.KVRecord{})
}
