package session

import (
	"github.com/wfunc/region-war/internal/game"
)

// Effect 状态机产出的副作用描述
// 状态机本身不做任何IO；同步层负责把效果翻译成存储操作，
// 并把结果包装成响应事件送回状态机
type Effect interface {
	isEffect()
}

// PollAttach 查询是否有客户端加入（WaitingHost 每个滴答发出一次）
type PollAttach struct {
	GameID string
	Gen    string
}

// PollClient 主机方轮询：读取主键快照与客户端提交记录
type PollClient struct {
	GameID string
	Gen    string
}

// PollHost 客户端方轮询：写入本方提交记录，同时读取主键快照
type PollHost struct {
	GameID string
	Gen    string
	Record PeerRecord
}

// PushGame 把对局快照写入主键
type PushGame struct {
	GameID string
	Game   game.Game
}

// RegisterOpen 把对局编号登记到待加入索引
type RegisterOpen struct {
	GameID string
}

// RegisterRunning 把对局编号从待加入索引移入进行中索引
type RegisterRunning struct {
	GameID string
}

// CleanupGame 删除对局的全部存储记录并从索引摘除
type CleanupGame struct {
	GameID string
}

func (PollAttach) isEffect()      {}
func (PollClient) isEffect()      {}
func (PollHost) isEffect()        {}
func (PushGame) isEffect()        {}
func (RegisterOpen) isEffect()    {}
func (RegisterRunning) isEffect() {}
func (CleanupGame) isEffect()     {}
