package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wfunc/region-war/internal/errors"
)

// HTTPStore 通过存储服务的HTTP接口读写键值
// 这是玩家进程使用的实现，对端是 cmd/server 起的存储服务
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// HTTPStoreOption 配置选项
type HTTPStoreOption func(*HTTPStore)

// WithToken 设置请求携带的认证令牌
func WithToken(token string) HTTPStoreOption {
	return func(s *HTTPStore) { s.token = token }
}

// WithTimeout 设置单次请求超时
func WithTimeout(d time.Duration) HTTPStoreOption {
	return func(s *HTTPStore) { s.client.Timeout = d }
}

// NewHTTPStore 创建HTTP存储客户端
func NewHTTPStore(baseURL string, logger *zap.Logger, opts ...HTTPStoreOption) *HTTPStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &HTTPStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// kvPayload 键值接口的载荷格式
type kvPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// kvResponse 存储服务的统一响应信封
type kvResponse struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Data    kvPayload `json:"data"`
}

// Get 读取键值；404 表示键不存在，不作为错误
func (s *HTTPStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.keyURL(key), nil)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrStoreGet)
	}
	s.decorate(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrStoreUnreached, "GET "+key)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, errors.Newf(errors.ErrStoreGet, "读取 %s 返回状态 %d", key, resp.StatusCode)
	}

	var envelope kvResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrRecordDecode, "键 "+key)
	}
	return []byte(envelope.Data.Value), true, nil
}

// Set 写入键值
func (s *HTTPStore) Set(ctx context.Context, key string, value []byte) error {
	body, err := json.Marshal(kvPayload{Key: key, Value: string(value)})
	if err != nil {
		return errors.Wrap(err, errors.ErrRecordEncode, "键 "+key)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.keyURL(key), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreSet)
	}
	req.Header.Set("Content-Type", "application/json")
	s.decorate(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreUnreached, "PUT "+key)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrStoreSet, "写入 %s 返回状态 %d", key, resp.StatusCode)
	}
	return nil
}

// Delete 删除键
func (s *HTTPStore) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.keyURL(key), nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreDelete)
	}
	s.decorate(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreUnreached, "DELETE "+key)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return errors.Newf(errors.ErrStoreDelete, "删除 %s 返回状态 %d", key, resp.StatusCode)
	}
	return nil
}

func (s *HTTPStore) keyURL(key string) string {
	return fmt.Sprintf("%s/api/v1/kv/%s", s.baseURL, key)
}

func (s *HTTPStore) decorate(req *http.Request) {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
}
