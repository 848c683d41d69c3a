package session

import (
	"github.com/wfunc/region-war/internal/game"
)

// Event 驱动会话状态机的事件标签联合
// 来源有三类：本地定时器、玩家操作、同步层送回的轮询响应
type Event interface {
	isEvent()
}

// PeerRecord 对方（客户端）写入存储的提交记录
// MoveBoard 只包含客户端本方签发的那一半指令
type PeerRecord struct {
	Joined    bool           `json:"joined"`
	Ready     bool           `json:"ready"`
	MoveBoard game.MoveBoard `json:"move_board"`
	// Observed 客户端下指令时所依据的对局快照时间戳
	Observed int64 `json:"observed"`
}

// TimeReady 本地时间源就绪（毫秒时间戳可用）
type TimeReady struct {
	Now int64
}

// Tick 定时器滴答，携带当前毫秒时间戳
type Tick struct {
	Now int64
}

// HostGame 玩家操作：创建新对局
type HostGame struct {
	Now  int64
	Seed game.Seed
}

// JoinGame 玩家操作：按编号加入已有对局
type JoinGame struct {
	ID  string
	Now int64
}

// PlaceOrder 玩家操作：为某区域录入移动指令（提交前可覆盖）
type PlaceOrder struct {
	Region    game.Region
	Amount    int
	Direction game.Direction
}

// Submit 玩家操作：提交本回合全部指令
type Submit struct {
	Now int64
}

// Exit 对方离开或本方主动退出，回到访客状态
type Exit struct{}

// Reset 终局确认后的完全重置，回到初始状态
type Reset struct{}

// AttachResponse 等待客户端加入的轮询响应
// Peer 为 nil 表示尚无客户端加入（瞬时缺失，不是错误）
type AttachResponse struct {
	Gen  string
	Now  int64
	Peer *PeerRecord
}

// ClientPollResponse 主机方轮询响应
// Game 是主键上的对局记录（客户端和解推进后会出现更新的快照）
// Peer 是客户端记录键上的提交（可能为 nil）
type ClientPollResponse struct {
	Gen  string
	Now  int64
	Game *game.Game
	Peer *PeerRecord
}

// HostPollResponse 客户端方轮询响应，携带主键上的对局记录
type HostPollResponse struct {
	Gen  string
	Now  int64
	Game *game.Game
}

func (TimeReady) isEvent()          {}
func (Tick) isEvent()               {}
func (HostGame) isEvent()           {}
func (JoinGame) isEvent()           {}
func (PlaceOrder) isEvent()         {}
func (Submit) isEvent()             {}
func (Exit) isEvent()               {}
func (Reset) isEvent()              {}
func (AttachResponse) isEvent()     {}
func (ClientPollResponse) isEvent() {}
func (HostPollResponse) isEvent()   {}

// responseGen 返回响应事件携带的代际令牌；非响应事件返回空串
func responseGen(ev Event) (string, bool) {
	switch e := ev.(type) {
	case AttachResponse:
		return e.Gen, true
	case ClientPollResponse:
		return e.Gen, true
	case HostPollResponse:
		return e.Gen, true
	default:
		return "", false
	}
}
