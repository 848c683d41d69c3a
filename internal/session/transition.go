package session

import (
	"github.com/wfunc/region-war/internal/game"
)

// Transition 会话状态机的核心转换函数
// 纯函数：不做IO、不读时钟、不产生随机数，所有输入都在参数里，
// 因此每一条分支都可以直接做表驱动测试
//
// 正确性要点在 Client 收到 HostReady 的分支：这是唯一一条
// 把客户端本地指令并入主机已推进快照的路径，缺了它客户端的
// 指令会被静默丢弃
func Transition(r Role, ev Event) (Role, []Effect) {
	// 全局事件：任何角色都响应退出与重置
	switch ev.(type) {
	case Exit:
		return applyExit(r)
	case Reset:
		return applyReset(r)
	}

	switch r.Kind {
	case RoleFetchingTime:
		return transitionFetchingTime(r, ev)
	case RoleGuest:
		return transitionGuest(r, ev)
	case RoleWaitingHost:
		return transitionWaitingHost(r, ev)
	case RoleHost:
		return transitionHost(r, ev)
	case RoleClient:
		return transitionClient(r, ev)
	default:
		return r, nil
	}
}

// applyExit 回到访客状态
// 主机方清理全部存储记录；客户端方写入离开记录，
// 让主机的下一次轮询发现对方已走
func applyExit(r Role) (Role, []Effect) {
	return Role{Kind: RoleGuest, Generation: r.Generation}, departureEffects(r)
}

// applyReset 终局确认后的完全重置
func applyReset(r Role) (Role, []Effect) {
	return Role{Kind: RoleFetchingTime, Generation: r.Generation}, departureEffects(r)
}

func departureEffects(r Role) []Effect {
	if r.GameID == "" {
		return nil
	}
	switch r.Kind {
	case RoleWaitingHost, RoleHost:
		return []Effect{CleanupGame{GameID: r.GameID}}
	case RoleClient:
		return []Effect{PollHost{
			GameID: r.GameID,
			Record: PeerRecord{Joined: false},
		}}
	}
	return nil
}

func transitionFetchingTime(r Role, ev Event) (Role, []Effect) {
	if _, ok := ev.(TimeReady); ok {
		return Role{Kind: RoleGuest}, nil
	}
	return r, nil
}

func transitionGuest(r Role, ev Event) (Role, []Effect) {
	switch e := ev.(type) {
	case HostGame:
		id, seed := game.GameID(e.Seed)
		next := Role{
			Kind:   RoleWaitingHost,
			GameID: id,
			Time:   e.Now,
			Seed:   seed,
		}
		return next, []Effect{RegisterOpen{GameID: id}}

	case JoinGame:
		next := Role{
			Kind:   RoleClient,
			GameID: e.ID,
			Model: Model{
				Game: game.NewGame(e.Now),
				Side: game.SideSecond,
			},
		}
		// 立即宣告加入，让主机的下一次轮询发现本方
		announce := PollHost{
			GameID: e.ID,
			Record: PeerRecord{Joined: true, MoveBoard: game.MoveBoard{}},
		}
		return next, []Effect{announce}
	}
	return r, nil
}

func transitionWaitingHost(r Role, ev Event) (Role, []Effect) {
	switch e := ev.(type) {
	case Tick:
		return r, []Effect{PollAttach{GameID: r.GameID}}

	case AttachResponse:
		if e.Peer == nil || !e.Peer.Joined {
			// 瞬时缺失：还没有客户端加入，下个滴答再问
			return r, nil
		}
		// 客户端已加入：用占位对局加上客户端的初始指令立刻结算一次，
		// 产出第一个真实对局快照
		placeholder := game.NewGame(r.Time)
		placeholder = game.AddMoveBoard(placeholder, e.Peer.MoveBoard)
		placeholder.State = game.StateBothReady

		first, seed := game.NextRound(placeholder, e.Now, r.Seed)

		next := Role{
			Kind:   RoleHost,
			GameID: r.GameID,
			Seed:   seed,
			Model: Model{
				Game:      first,
				Side:      game.SideFirst,
				RoundBase: first.LastUpdated,
			},
		}
		effects := []Effect{
			RegisterRunning{GameID: r.GameID},
			PushGame{GameID: r.GameID, Game: first},
		}
		return next, effects
	}
	return r, nil
}

func transitionHost(r Role, ev Event) (Role, []Effect) {
	switch e := ev.(type) {
	case PlaceOrder:
		r.Model = stageOrder(r.Model, e)
		return r, nil

	case Submit:
		if r.Model.Ready || r.Model.Game.State.IsTerminal() {
			return r, nil
		}
		g := r.Model.Game
		g.State = game.StateHostReady
		g.LastUpdated = stampAfter(e.Now, g.LastUpdated)
		r.Model.Game = g
		r.Model.Ready = true
		return r, []Effect{PushGame{GameID: r.GameID, Game: g}}

	case Tick:
		if r.Model.Ready && r.Model.Game.State == game.StateBothReady {
			// 双方均已提交：结算并公布结果，这是唯一把对局带出
			// BothReady 的写入方，因此不需要任何互斥
			result, seed := game.NextRound(r.Model.Game, stampAfter(e.Now, r.Model.Game.LastUpdated), r.Seed)
			r.Seed = seed
			r.Model.Game = result
			r.Model.RoundBase = result.LastUpdated
			r.Model.Ready = false
			return r, []Effect{PushGame{GameID: r.GameID, Game: result}}
		}
		return r, []Effect{PollClient{GameID: r.GameID}}

	case ClientPollResponse:
		return hostHandlePoll(r, e)
	}
	return r, nil
}

// hostHandlePoll 处理主机方轮询响应
func hostHandlePoll(r Role, e ClientPollResponse) (Role, []Effect) {
	// 对方显式离开：回到访客并清理记录
	if e.Peer != nil && !e.Peer.Joined {
		return applyExit(r)
	}

	// 主键上出现更新的快照：客户端已完成和解并推进到 BothReady
	// 时间戳不严格更新的记录一律不触发状态逻辑（过期守卫）
	if e.Game != nil && e.Game.LastUpdated > r.Model.Game.LastUpdated {
		if r.Model.Ready && e.Game.State == game.StateBothReady {
			merged := game.AddMoveBoard(r.Model.Game, e.Game.MoveBoard)
			merged.State = game.StateBothReady
			merged.LastUpdated = e.Game.LastUpdated
			r.Model.Game = merged
			return r, nil
		}
	}

	// 客户端记录携带对方那一半指令棋盘
	// Observed 必须等于本回合起点时间戳，否则是上一回合的残留
	if e.Peer != nil && e.Peer.Ready && r.Model.Ready &&
		e.Peer.Observed == r.Model.RoundBase &&
		r.Model.Game.State == game.StateHostReady {
		combined := overlayOrders(r.Model.Game.MoveBoard, e.Peer.MoveBoard)
		merged := game.AddMoveBoard(r.Model.Game, combined)
		merged.State = game.StateBothReady
		r.Model.Game = merged
		return r, nil
	}

	return r, nil
}

func transitionClient(r Role, ev Event) (Role, []Effect) {
	switch e := ev.(type) {
	case PlaceOrder:
		r.Model = stageOrder(r.Model, e)
		return r, nil

	case Submit:
		if r.Model.Game.State.IsTerminal() {
			return r, nil
		}
		r.Model.Ready = true
		return r, nil

	case Tick:
		if !r.Model.Ready {
			// 玩家本回合尚未提交：空转等待
			return r, nil
		}
		record := PeerRecord{
			Joined:    true,
			Ready:     true,
			MoveBoard: r.Model.Game.MoveBoard,
			Observed:  r.Model.RoundBase,
		}
		return r, []Effect{PollHost{GameID: r.GameID, Record: record}}

	case HostPollResponse:
		return clientHandlePoll(r, e)
	}
	return r, nil
}

// clientHandlePoll 处理客户端方轮询响应
// HostReady 分支是整个协议的和解核心：主机在未收到本方指令的
// 情况下先行提交了，本方必须把旧快照里的指令并入新快照推回去，
// 否则这些指令会被静默丢弃
func clientHandlePoll(r Role, e HostPollResponse) (Role, []Effect) {
	if e.Game == nil {
		return r, nil
	}
	// 过期守卫：不严格更新的快照不触发任何状态逻辑
	if e.Game.LastUpdated <= r.Model.Game.LastUpdated {
		return r, nil
	}

	switch e.Game.State {
	case game.StateRunning:
		// 新回合开始：原样采纳，清除提交标记
		r.Model.Game = *e.Game
		r.Model.Ready = false
		r.Model.RoundBase = e.Game.LastUpdated
		return r, nil

	case game.StateHostReady:
		// 和解：把旧快照里本方签发的指令叠到收到的快照上，
		// 标记 BothReady 后推回存储，让主机的下一次轮询观察到
		combined := overlayOrders(e.Game.MoveBoard, r.Model.Game.MoveBoard)
		merged := game.AddMoveBoard(*e.Game, combined)
		merged.State = game.StateBothReady
		merged.LastUpdated = stampAfter(e.Now, e.Game.LastUpdated)
		r.Model.Game = merged
		return r, []Effect{PushGame{GameID: r.GameID, Game: merged}}

	default:
		// BothReady 与终局状态：原样采纳
		r.Model.Game = *e.Game
		r.Model.RoundBase = e.Game.LastUpdated
		return r, nil
	}
}

// stageOrder 校验并录入一条移动指令；非法指令原样忽略
// 指令越界校验发生在这里（提交时刻），结算器信任输入
func stageOrder(m Model, e PlaceOrder) Model {
	if m.Ready || m.Game.State.IsTerminal() {
		return m
	}
	unit, ok := m.Game.UnitBoard.Get(e.Region)
	if !ok || unit.Owner != m.Side {
		return m
	}
	mv, err := game.NewMove(m.Game, e.Region, e.Amount, e.Direction)
	if err != nil {
		return m
	}
	m.Game.MoveBoard = m.Game.MoveBoard.Set(e.Region, &mv)
	return m
}

// overlayOrders 把一方签发的指令逐区域叠加到基础棋盘上
// 双方指令只会出现在各自拥有的区域，键不冲突
func overlayOrders(base, orders game.MoveBoard) game.MoveBoard {
	out := base
	for _, region := range game.AllRegions() {
		if mv, ok := orders.Get(region); ok {
			out = out.Set(region, &mv)
		}
	}
	return out
}

// stampAfter 返回 now，但保证严格大于 prev（逻辑时钟单调性）
func stampAfter(now, prev int64) int64 {
	if now <= prev {
		return prev + 1
	}
	return now
}
