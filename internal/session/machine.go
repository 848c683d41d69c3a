package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Machine 会话状态机的并发安全外壳
// 内核 Transition 是纯函数；这里补上三件事：互斥、代际令牌、日志
//
// 代际令牌解决在途响应问题：角色变更（例如玩家中途退出）后，
// 之前发出的轮询请求可能还在路上，其响应携带旧令牌，到达时
// 直接丢弃，绝不喂给新角色
type Machine struct {
	mu     sync.Mutex
	role   Role
	logger *zap.Logger
}

// NewMachine 创建状态机，初始角色为 FetchingTime
func NewMachine(logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := NewRole()
	r.Generation = uuid.NewString()
	return &Machine{role: r, logger: logger}
}

// Role 返回当前角色的副本
func (m *Machine) Role() Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.role
}

// Handle 处理一个事件，返回需要同步层执行的效果列表
// 迟到的响应事件（代际令牌不匹配）被丢弃并返回空列表
func (m *Machine) Handle(ev Event) []Effect {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen, ok := responseGen(ev); ok && gen != m.role.Generation {
		m.logger.Debug("丢弃过期响应",
			zap.String("role", string(m.role.Kind)),
			zap.String("stale_gen", gen))
		return nil
	}

	prev := m.role
	next, effects := Transition(prev, ev)

	if next.Kind != prev.Kind {
		// 角色变更：刷新代际令牌，旧角色的在途响应全部失效
		next.Generation = uuid.NewString()
		m.logger.Info("角色变更",
			zap.String("from", string(prev.Kind)),
			zap.String("to", string(next.Kind)),
			zap.String("game_id", next.GameID))
	}

	m.role = next
	return stampGeneration(effects, next.Generation)
}

// stampGeneration 为带外请求效果盖上当前代际令牌
func stampGeneration(effects []Effect, gen string) []Effect {
	for i, effect := range effects {
		switch e := effect.(type) {
		case PollAttach:
			e.Gen = gen
			effects[i] = e
		case PollClient:
			e.Gen = gen
			effects[i] = e
		case PollHost:
			e.Gen = gen
			effects[i] = e
		}
	}
	return effects
}
