// Package store 定义双方同步所依赖的键值存储抽象
// 存储语义刻意做到最弱：按键整值读写，后写覆盖先写，
// 没有事务、没有比较交换、没有变更通知，协议层必须在
// 这个语义下自洽
package store

import "context"

// Store 键值存储接口
// Get 的第二个返回值区分"键不存在"与"读取失败"：
// 键不存在在轮询协议里是常态，不作为错误处理
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
