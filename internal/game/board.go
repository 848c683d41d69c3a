package game

import (
	"github.com/wfunc/region-war/internal/errors"
)

// Region 地图区域枚举（固定五个区域，不会增减）
type Region string

const (
	RegionCenter Region = "center" // 中央区域
	RegionNorth  Region = "north"  // 北部区域
	RegionEast   Region = "east"   // 东部区域
	RegionSouth  Region = "south"  // 南部区域
	RegionWest   Region = "west"   // 西部区域
)

// AllRegions 返回全部区域（固定顺序，保证遍历结果确定）
func AllRegions() []Region {
	return []Region{RegionCenter, RegionNorth, RegionEast, RegionSouth, RegionWest}
}

// Side 玩家阵营
type Side string

const (
	SideFirst  Side = "first"  // 先手阵营（主机方）
	SideSecond Side = "second" // 后手阵营（客户端方）
)

// Opponent 返回对方阵营
func (s Side) Opponent() Side {
	if s == SideFirst {
		return SideSecond
	}
	return SideFirst
}

// Direction 移动方向
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// neighbors 区域邻接表（十字形地图，中央与四方相邻）
var neighbors = map[Region]map[Direction]Region{
	RegionCenter: {
		DirUp:    RegionNorth,
		DirDown:  RegionSouth,
		DirLeft:  RegionWest,
		DirRight: RegionEast,
	},
	RegionNorth: {DirDown: RegionCenter},
	RegionSouth: {DirUp: RegionCenter},
	RegionWest:  {DirRight: RegionCenter},
	RegionEast:  {DirLeft: RegionCenter},
}

// Neighbor 计算区域沿某方向的邻居，不存在时返回 false
func Neighbor(r Region, d Direction) (Region, bool) {
	dst, ok := neighbors[r][d]
	return dst, ok
}

// Unit 驻扎在区域上的部队（数量为 0 时不存在 Unit 条目）
type Unit struct {
	Amount int  `json:"amount"`
	Owner  Side `json:"owner"`
}

// Move 玩家提交的移动指令
type Move struct {
	Amount    int       `json:"amount"`
	Direction Direction `json:"direction"`
}

// Board 区域到可选值的映射；五个区域永远是合法键，缺失表示"空"
type Board[T any] map[Region]T

// Get 读取区域上的值，第二个返回值表示是否存在
func (b Board[T]) Get(r Region) (T, bool) {
	v, ok := b[r]
	return v, ok
}

// Set 写入区域上的值并返回新棋盘，value 为 nil 表示清空该区域
func (b Board[T]) Set(r Region, value *T) Board[T] {
	next := make(Board[T], len(b)+1)
	for k, v := range b {
		next[k] = v
	}
	if value == nil {
		delete(next, r)
	} else {
		next[r] = *value
	}
	return next
}

// UnitBoard 部队棋盘
type UnitBoard = Board[Unit]

// MoveBoard 指令棋盘
type MoveBoard = Board[Move]

// GameState 对局状态
type GameState string

const (
	StateRunning   GameState = "running"    // 双方均未提交
	StateHostReady GameState = "host_ready" // 主机已提交，等待客户端
	StateBothReady GameState = "both_ready" // 双方已提交，可以结算
	StateWinFirst  GameState = "win_first"  // 先手获胜（终局）
	StateWinSecond GameState = "win_second" // 后手获胜（终局）
	StateDraw      GameState = "draw"       // 平局（终局）
)

// IsTerminal 判断是否为终局状态
func (s GameState) IsTerminal() bool {
	return s == StateWinFirst || s == StateWinSecond || s == StateDraw
}

// WinState 返回某阵营获胜对应的终局状态
func WinState(s Side) GameState {
	if s == SideFirst {
		return StateWinFirst
	}
	return StateWinSecond
}

// Game 对局快照，是双方同步的最小单元
// LastUpdated 是主机时钟下的毫秒时间戳，作为逻辑时钟使用，
// 对同一局游戏的任何可观测序列都严格递增
type Game struct {
	UnitBoard   UnitBoard `json:"unit_board"`
	MoveBoard   MoveBoard `json:"move_board"`
	State       GameState `json:"state"`
	LastUpdated int64     `json:"last_updated"`
}

// NewGame 创建初始对局：双方各三支部队，分驻两翼
func NewGame(now int64) Game {
	return Game{
		UnitBoard: UnitBoard{
			RegionNorth: {Amount: 3, Owner: SideFirst},
			RegionWest:  {Amount: 3, Owner: SideFirst},
			RegionSouth: {Amount: 3, Owner: SideSecond},
			RegionEast:  {Amount: 3, Owner: SideSecond},
		},
		MoveBoard:   MoveBoard{},
		State:       StateRunning,
		LastUpdated: now,
	}
}

// NewMove 构造移动指令；数量超过源区域驻军或方向越界时返回错误
// 越界校验发生在提交时刻，结算器不再重复校验
func NewMove(g Game, src Region, amount int, d Direction) (Move, error) {
	if amount <= 0 {
		return Move{}, errors.Newf(errors.ErrInvalidMove, "移动数量必须为正: %d", amount)
	}
	unit, ok := g.UnitBoard.Get(src)
	if !ok {
		return Move{}, errors.Newf(errors.ErrInvalidMove, "区域 %s 没有驻军", src)
	}
	if amount > unit.Amount {
		return Move{}, errors.Newf(errors.ErrInvalidMove, "移动数量 %d 超过驻军 %d", amount, unit.Amount)
	}
	if _, ok := Neighbor(src, d); !ok {
		return Move{}, errors.Newf(errors.ErrInvalidMove, "区域 %s 没有 %s 方向的邻居", src, d)
	}
	return Move{Amount: amount, Direction: d}, nil
}

// AddMoveBoard 将对方提交的指令棋盘合并进本地对局
// 采用整体替换：每一方只会发送自己签发的指令棋盘，
// 因此替换不会丢失另一方的指令
func AddMoveBoard(g Game, incoming MoveBoard) Game {
	g.MoveBoard = incoming
	return g
}

// TotalUnits 统计某阵营在全图的部队总数
func TotalUnits(b UnitBoard, s Side) int {
	total := 0
	for _, r := range AllRegions() {
		if u, ok := b.Get(r); ok && u.Owner == s {
			total += u.Amount
		}
	}
	return total
}
