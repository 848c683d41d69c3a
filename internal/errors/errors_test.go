package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ErrorsTestSuite 错误包测试套件
type ErrorsTestSuite struct {
	suite.Suite
}

// 测试创建新错误
func (suite *ErrorsTestSuite) TestNew() {
	err := New(ErrInvalidMove)
	suite.NotNil(err)
	suite.Equal(ErrInvalidMove, err.Code)
	suite.Equal("无效的移动指令", err.Message)
	suite.Empty(err.Details)

	err = New(ErrGameNotFound, "对局 abc123 不存在")
	suite.Equal(ErrGameNotFound, err.Code)
	suite.Equal("对局 abc123 不存在", err.Details)

	// 多个详情以分号连接
	err = New(ErrStoreUnreached, "连接失败", "地址: localhost:8080")
	suite.Equal("连接失败; 地址: localhost:8080", err.Details)
}

// 测试格式化错误创建
func (suite *ErrorsTestSuite) TestNewf() {
	err := Newf(ErrInvalidMove, "移动数量 %d 超过驻军 %d", 5, 3)
	suite.Equal(ErrInvalidMove, err.Code)
	suite.Equal("移动数量 5 超过驻军 3", err.Details)
}

// 测试错误包装
func (suite *ErrorsTestSuite) TestWrap() {
	originalErr := errors.New("原始错误")
	wrappedErr := Wrap(originalErr, ErrStoreGet)
	suite.Equal(ErrStoreGet, wrappedErr.Code)
	suite.Equal("原始错误", wrappedErr.Details)
	suite.Equal(originalErr, wrappedErr.Cause)

	// 包装nil错误
	suite.Nil(Wrap(nil, ErrUnknown))

	// 包装已有的AppError保留原始错误码
	appErr := New(ErrStaleSnapshot, "快照过期")
	wrappedAppErr := Wrap(appErr, ErrInvalidParam, "额外信息")
	suite.Equal(ErrStaleSnapshot, wrappedAppErr.Code)
	suite.Contains(wrappedAppErr.Details, "额外信息")
}

// 测试错误码判断
func (suite *ErrorsTestSuite) TestIs() {
	err := New(ErrRoleSuperseded)
	suite.True(Is(err, ErrRoleSuperseded))
	suite.False(Is(err, ErrNotFound))
	suite.False(Is(nil, ErrRoleSuperseded))
	suite.False(Is(errors.New("标准错误"), ErrUnknown))
}

// 测试获取错误码
func (suite *ErrorsTestSuite) TestGetCode() {
	suite.Equal(ErrTokenExpired, GetCode(New(ErrTokenExpired)))
	suite.Equal(ErrUnknown, GetCode(errors.New("标准错误")))
	suite.Equal(ErrorCode(0), GetCode(nil))
}

// 测试可重试判断
func (suite *ErrorsTestSuite) TestIsRetryable() {
	suite.True(IsRetryable(New(ErrStaleSnapshot)))
	suite.True(IsRetryable(New(ErrStoreUnreached)))
	suite.False(IsRetryable(New(ErrInvalidMove)))
	suite.False(IsRetryable(nil))
}

// 测试HTTP状态码映射
func (suite *ErrorsTestSuite) TestHTTPStatus() {
	suite.Equal(400, New(ErrInvalidMove).HTTPStatus())
	suite.Equal(404, New(ErrGameNotFound).HTTPStatus())
	suite.Equal(401, New(ErrTokenInvalid).HTTPStatus())
	suite.Equal(503, New(ErrDatabaseConnect).HTTPStatus())
	suite.Equal(500, New(ErrUnknown).HTTPStatus())
}

func TestErrorsTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}
