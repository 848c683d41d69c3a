package errors

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode 错误码类型
type ErrorCode int

// 错误码定义（按模块分组）
const (
	// 通用错误 (1000-1999)
	ErrUnknown          ErrorCode = 1000
	ErrInvalidParam     ErrorCode = 1001
	ErrNotFound         ErrorCode = 1002
	ErrAlreadyExists    ErrorCode = 1003
	ErrPermissionDenied ErrorCode = 1004
	ErrTimeout          ErrorCode = 1005
	ErrCanceled         ErrorCode = 1006

	// 对局错误 (2000-2999)
	ErrInvalidMove      ErrorCode = 2000
	ErrGameNotReady     ErrorCode = 2001
	ErrGameFinished     ErrorCode = 2002
	ErrGameNotFound     ErrorCode = 2003
	ErrAlreadySubmitted ErrorCode = 2004

	// 会话错误 (3000-3999)
	ErrInvalidTransition ErrorCode = 3000
	ErrRoleSuperseded    ErrorCode = 3001
	ErrPeerLeft          ErrorCode = 3002

	// 同步/存储错误 (4000-4999)
	ErrStaleSnapshot  ErrorCode = 4000
	ErrRecordDecode   ErrorCode = 4001
	ErrRecordEncode   ErrorCode = 4002
	ErrStoreGet       ErrorCode = 4003
	ErrStoreSet       ErrorCode = 4004
	ErrStoreDelete    ErrorCode = 4005
	ErrStoreUnreached ErrorCode = 4006

	// 数据库错误 (5000-5999)
	ErrDatabaseConnect ErrorCode = 5000
	ErrDatabaseQuery   ErrorCode = 5001
	ErrDatabaseWrite   ErrorCode = 5002
	ErrDatabaseDelete  ErrorCode = 5003
	ErrTransaction     ErrorCode = 5004

	// 配置错误 (6000-6999)
	ErrConfigLoad     ErrorCode = 6000
	ErrConfigParse    ErrorCode = 6001
	ErrConfigValidate ErrorCode = 6002

	// 安全错误 (7000-7999)
	ErrAuthentication    ErrorCode = 7000
	ErrTokenExpired      ErrorCode = 7001
	ErrTokenInvalid      ErrorCode = 7002
	ErrRateLimitExceeded ErrorCode = 7003
)

// 错误码消息映射
var errorMessages = map[ErrorCode]string{
	// 通用错误
	ErrUnknown:          "未知错误",
	ErrInvalidParam:     "无效的参数",
	ErrNotFound:         "资源未找到",
	ErrAlreadyExists:    "资源已存在",
	ErrPermissionDenied: "权限不足",
	ErrTimeout:          "操作超时",
	ErrCanceled:         "操作已取消",

	// 对局错误
	ErrInvalidMove:      "无效的移动指令",
	ErrGameNotReady:     "对局尚未就绪",
	ErrGameFinished:     "对局已结束",
	ErrGameNotFound:     "对局不存在",
	ErrAlreadySubmitted: "本回合已提交",

	// 会话错误
	ErrInvalidTransition: "无效的会话状态转换",
	ErrRoleSuperseded:    "会话角色已被替换",
	ErrPeerLeft:          "对方已离开",

	// 同步/存储错误
	ErrStaleSnapshot:  "收到过期的对局快照",
	ErrRecordDecode:   "存储记录解码失败",
	ErrRecordEncode:   "存储记录编码失败",
	ErrStoreGet:       "存储读取失败",
	ErrStoreSet:       "存储写入失败",
	ErrStoreDelete:    "存储删除失败",
	ErrStoreUnreached: "存储服务不可达",

	// 数据库错误
	ErrDatabaseConnect: "数据库连接失败",
	ErrDatabaseQuery:   "数据库查询失败",
	ErrDatabaseWrite:   "数据库写入失败",
	ErrDatabaseDelete:  "数据库删除失败",
	ErrTransaction:     "事务处理失败",

	// 配置错误
	ErrConfigLoad:     "配置加载失败",
	ErrConfigParse:    "配置解析失败",
	ErrConfigValidate: "配置验证失败",

	// 安全错误
	ErrAuthentication:    "认证失败",
	ErrTokenExpired:      "令牌已过期",
	ErrTokenInvalid:      "无效的令牌",
	ErrRateLimitExceeded: "请求频率超限",
}

// AppError 应用错误结构
type AppError struct {
	Code    ErrorCode    `json:"code"`    // 错误码
	Message string       `json:"message"` // 错误消息
	Details string       `json:"details"` // 详细信息
	Cause   error        `json:"-"`       // 原始错误
	Stack   []StackFrame `json:"stack,omitempty"`
}

// StackFrame 调用栈帧
type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, details ...string) *AppError {
	message, ok := errorMessages[code]
	if !ok {
		message = errorMessages[ErrUnknown]
	}

	err := &AppError{
		Code:    code,
		Message: message,
	}

	if len(details) > 0 {
		err.Details = strings.Join(details, "; ")
	}

	err.captureStack(2)

	return err
}

// Newf 创建格式化的应用错误
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, details ...string) *AppError {
	if err == nil {
		return nil
	}

	// 已经是AppError时保留原始错误码
	if appErr, ok := err.(*AppError); ok {
		if len(details) > 0 {
			appErr.Details = strings.Join(details, "; ") + "; " + appErr.Details
		}
		return appErr
	}

	appErr := New(code, details...)
	appErr.Cause = err
	if appErr.Details == "" {
		appErr.Details = err.Error()
	}

	return appErr
}

// Wrapf 包装格式化错误
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// Is 判断错误是否为指定错误码
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// GetCode 获取错误码
func GetCode(err error) ErrorCode {
	if err == nil {
		return 0
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}

	return ErrUnknown
}

// captureStack 捕获调用栈
func (e *AppError) captureStack(skip int) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return
	}

	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()

		// 跳过runtime和本包的调用
		if strings.Contains(frame.Function, "runtime.") ||
			strings.Contains(frame.Function, "github.com/wfunc/region-war/internal/errors") {
			if !more {
				break
			}
			continue
		}

		e.Stack = append(e.Stack, StackFrame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})

		if !more || len(e.Stack) >= 10 {
			break
		}
	}
}

// HTTPStatus 返回对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	switch {
	case e.Code == ErrInvalidParam || e.Code == ErrInvalidMove:
		return 400
	case e.Code == ErrNotFound || e.Code == ErrGameNotFound:
		return 404
	case e.Code == ErrAlreadyExists:
		return 409
	case e.Code == ErrPermissionDenied:
		return 403
	case e.Code >= 7000 && e.Code <= 7002:
		return 401
	case e.Code == ErrRateLimitExceeded:
		return 429
	case e.Code >= 5000 && e.Code <= 5999:
		return 503
	default:
		return 500
	}
}

// IsRetryable 判断错误是否可重试
// 同步层的瞬时缺失和过期快照都靠下一次轮询自然恢复
func IsRetryable(err error) bool {
	switch GetCode(err) {
	case ErrTimeout,
		ErrStaleSnapshot,
		ErrStoreUnreached,
		ErrStoreGet,
		ErrDatabaseConnect:
		return true
	default:
		return false
	}
}

// IsCritical 判断是否为严重错误
func IsCritical(err error) bool {
	switch GetCode(err) {
	case ErrDatabaseConnect,
		ErrConfigLoad,
		ErrConfigValidate:
		return true
	default:
		return false
	}
}

// ErrorResponse API错误响应结构
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     *AppError `json:"error,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(err *AppError, requestID string) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     err,
		RequestID: requestID,
		Timestamp: time.Now().Unix(),
	}
}
