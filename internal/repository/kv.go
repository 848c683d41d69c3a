package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wfunc/region-war/internal/errors"
	"github.com/wfunc/region-war/internal/models"
)

// KVRepository 键值仓储接口
type KVRepository interface {
	BaseRepository
	// Get 按键读取记录，键不存在时返回 ErrNotFound
	Get(ctx context.Context, key string) (*models.KVRecord, error)
	// Set 写入键值，键已存在时覆盖（后写覆盖先写）
	Set(ctx context.Context, key, value string) error
	// Delete 删除键，键不存在时为空操作
	Delete(ctx context.Context, key string) error
	// ListByPrefix 按键前缀分页列出记录
	ListByPrefix(ctx context.Context, prefix string, p *Pagination) ([]*models.KVRecord, error)
	// DeleteStale 删除某前缀下更新时间早于界限的记录，返回删除数量
	DeleteStale(ctx context.Context, prefix string, before time.Time) (int64, error)
}

// kvRepo 键值仓储实现
type kvRepo struct {
	*BaseRepo
}

// NewKVRepository 创建键值仓储
func NewKVRepository(db *gorm.DB) KVRepository {
	return &kvRepo{BaseRepo: NewBaseRepo(db)}
}

// WithTx 使用事务
func (r *kvRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &kvRepo{BaseRepo: r.BaseRepo.WithTx(tx)}
}

// Get 按键读取记录
func (r *kvRepo) Get(ctx context.Context, key string) (*models.KVRecord, error) {
	var record models.KVRecord
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrNotFound, "键 "+key+" 不存在")
		}
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}
	return &record, nil
}

// Set 写入键值（upsert，键冲突时覆盖旧值）
func (r *kvRepo) Set(ctx context.Context, key, value string) error {
	record := models.KVRecord{Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrDatabaseQuery, "写入键 "+key)
	}
	return nil
}

// Delete 删除键
func (r *kvRepo) Delete(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.KVRecord{}).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrDatabaseQuery, "删除键 "+key)
	}
	return nil
}

// ListByPrefix 按键前缀分页列出记录
func (r *kvRepo) ListByPrefix(ctx context.Context, prefix string, p *Pagination) ([]*models.KVRecord, error) {
	var records []*models.KVRecord

	query := r.db.WithContext(ctx).Model(&models.KVRecord{}).
		Where("key LIKE ?", prefix+"%")

	if err := query.Count(&p.Total).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}

	err := query.Scopes(Paginate(p)).Order("key ASC").Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}
	return records, nil
}

// DeleteStale 删除某前缀下更新时间早于界限的记录
// 维护接口用它清理双方都已离开的废弃对局
func (r *kvRepo) DeleteStale(ctx context.Context, prefix string, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("key LIKE ? AND updated_at < ?", prefix+"%", before).
		Delete(&models.KVRecord{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrDatabaseQuery, "清理前缀 "+prefix)
	}
	return result.RowsAffected, nil
}
