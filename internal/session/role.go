package session

import (
	"github.com/wfunc/region-war/internal/game"
)

// RoleKind 会话角色枚举
// 角色是进程本地状态，永远不会写入共享存储
type RoleKind string

const (
	RoleFetchingTime RoleKind = "fetching_time" // 等待本地时间源就绪
	RoleGuest        RoleKind = "guest"         // 未加入任何对局
	RoleWaitingHost  RoleKind = "waiting_host"  // 已创建对局，等待客户端加入
	RoleHost         RoleKind = "host"          // 主机方（回合结算的唯一权威）
	RoleClient       RoleKind = "client"        // 客户端方
)

// Model 玩家本地已知的对局视图
type Model struct {
	Game  game.Game // 本地持有的对局快照
	Side  game.Side // 本方阵营
	Ready bool      // 本回合是否已提交
	// RoundBase 本回合起点快照的时间戳
	// 用来识别对方提交是否针对当前回合（而不是上一回合的残留记录）
	RoundBase int64
}

// Role 会话角色标签联合
// Kind 决定哪些字段有效；Generation 是在途请求的代际令牌，
// 角色变更时刷新，迟到的响应据此被丢弃
type Role struct {
	Kind       RoleKind
	Generation string

	// WaitingHost / Host / Client 持有对局编号；Seed 仅主机侧持有
	GameID string
	Seed   game.Seed

	// WaitingHost 持有：创建对局时刻（主机时钟毫秒）
	Time int64

	// Host / Client 持有
	Model Model
}

// NewRole 创建初始角色
func NewRole() Role {
	return Role{Kind: RoleFetchingTime}
}
