package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/wfunc/region-war/internal/errors"
)

// KVRepositoryTestSuite 键值仓储测试套件
type KVRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo KVRepository
	ctx  context.Context
}

func (suite *KVRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.repo = NewKVRepository(suite.db)
	suite.ctx = context.Background()
}

func (suite *KVRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// 测试基本读写
func (suite *KVRepositoryTestSuite) TestSetAndGet() {
	err := suite.repo.Set(suite.ctx, "game:abc123", `{"state":"running"}`)
	suite.NoError(err)

	record, err := suite.repo.Get(suite.ctx, "game:abc123")
	suite.NoError(err)
	suite.Equal("game:abc123", record.Key)
	suite.Equal(`{"state":"running"}`, record.Value)
}

// 测试键不存在返回 ErrNotFound
func (suite *KVRepositoryTestSuite) TestGetMissing() {
	_, err := suite.repo.Get(suite.ctx, "game:missing")
	suite.Error(err)
	suite.True(errors.Is(err, errors.ErrNotFound))
}

// 测试后写覆盖先写
func (suite *KVRepositoryTestSuite) TestOverwrite() {
	suite.NoError(suite.repo.Set(suite.ctx, "game:abc123", "v1"))
	suite.NoError(suite.repo.Set(suite.ctx, "game:abc123", "v2"))

	record, err := suite.repo.Get(suite.ctx, "game:abc123")
	suite.NoError(err)
	suite.Equal("v2", record.Value)

	// 覆盖不产生新行
	var count int64
	suite.db.Table("kv_records").Count(&count)
	suite.Equal(int64(1), count)
}

// 测试删除
func (suite *KVRepositoryTestSuite) TestDelete() {
	suite.NoError(suite.repo.Set(suite.ctx, "game:abc123", "v1"))
	suite.NoError(suite.repo.Delete(suite.ctx, "game:abc123"))

	_, err := suite.repo.Get(suite.ctx, "game:abc123")
	suite.True(errors.Is(err, errors.ErrNotFound))

	// 删除不存在的键为空操作
	suite.NoError(suite.repo.Delete(suite.ctx, "game:missing"))
}

// 测试前缀分页列表
func (suite *KVRepositoryTestSuite) TestListByPrefix() {
	suite.NoError(suite.repo.Set(suite.ctx, "game:aaa111", "a"))
	suite.NoError(suite.repo.Set(suite.ctx, "game:bbb222", "b"))
	suite.NoError(suite.repo.Set(suite.ctx, "game:bbb222:client", "c"))
	suite.NoError(suite.repo.Set(suite.ctx, "games:open", "d"))

	p := NewPagination(1, 10)
	records, err := suite.repo.ListByPrefix(suite.ctx, "game:", p)
	suite.NoError(err)
	suite.Len(records, 3)
	suite.Equal(int64(3), p.Total)
	// 按键名升序
	suite.Equal("game:aaa111", records[0].Key)

	// 分页截断
	p = NewPagination(1, 2)
	records, err = suite.repo.ListByPrefix(suite.ctx, "game:", p)
	suite.NoError(err)
	suite.Len(records, 2)
	suite.Equal(int64(3), p.Total)
}

// 测试过期清理
func (suite *KVRepositoryTestSuite) TestDeleteStale() {
	suite.NoError(suite.repo.Set(suite.ctx, "game:old111", "stale"))
	suite.NoError(suite.repo.Set(suite.ctx, "game:new222", "fresh"))

	// 把旧记录的更新时间拨回到界限之前
	past := time.Now().Add(-48 * time.Hour)
	suite.db.Table("kv_records").
		Where("key = ?", "game:old111").
		Update("updated_at", past)

	removed, err := suite.repo.DeleteStale(suite.ctx, "game:", time.Now().Add(-24*time.Hour))
	suite.NoError(err)
	suite.Equal(int64(1), removed)

	_, err = suite.repo.Get(suite.ctx, "game:old111")
	suite.True(errors.Is(err, errors.ErrNotFound))
	_, err = suite.repo.Get(suite.ctx, "game:new222")
	suite.NoError(err)
}

func TestKVRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(KVRepositoryTestSuite))
}
