package protocol

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wfunc/region-war/internal/game"
	"github.com/wfunc/region-war/internal/session"
	"github.com/wfunc/region-war/internal/store"
)

// pair 把两个状态机接到同一个内存存储上，模拟一局双人对战
// 时钟由测试手工推进，保证每一步都可复现
type pair struct {
	ctx     context.Context
	clock   int64
	host    *session.Machine
	client  *session.Machine
	hostS   *Syncer
	clientS *Syncer
}

func newPair(t *testing.T) *pair {
	t.Helper()
	shared := store.NewMemoryStore()
	p := &pair{ctx: context.Background(), clock: 1000}

	p.host = session.NewMachine(nil)
	p.client = session.NewMachine(nil)
	p.hostS = NewSyncer(shared, p.host, nil)
	p.clientS = NewSyncer(shared, p.client, nil)
	p.hostS.now = func() int64 { return p.clock }
	p.clientS.now = func() int64 { return p.clock }
	return p
}

// step 推进时钟并把一个事件送入指定状态机，效果立即执行
func (p *pair) step(m *session.Machine, s *Syncer, ev session.Event) {
	p.clock += 100
	s.Dispatch(p.ctx, m.Handle(ev))
}

func (p *pair) hostStep(ev session.Event)   { p.step(p.host, p.hostS, ev) }
func (p *pair) clientStep(ev session.Event) { p.step(p.client, p.clientS, ev) }

// setup 走完建局流程：主机创建、客户端加入、主机产出第一个真实对局、
// 客户端采纳之（客户端通过一次提交后的轮询学到新快照）
func (p *pair) setup(t *testing.T) string {
	t.Helper()
	p.hostStep(session.TimeReady{Now: p.clock})
	p.hostStep(session.HostGame{Now: p.clock, Seed: game.NewSeed(42)})
	id := p.host.Role().GameID
	require.Equal(t, session.RoleWaitingHost, p.host.Role().Kind)

	p.clientStep(session.TimeReady{Now: p.clock})
	p.clientStep(session.JoinGame{ID: id, Now: p.clock})
	require.Equal(t, session.RoleClient, p.client.Role().Kind)

	p.hostStep(session.Tick{Now: p.clock})
	require.Equal(t, session.RoleHost, p.host.Role().Kind)

	// 客户端提交空指令集后轮询，采纳第一个真实对局
	p.clientStep(session.Submit{Now: p.clock})
	p.clientStep(session.Tick{Now: p.clock})
	require.Equal(t, p.host.Role().Model.Game, p.client.Role().Model.Game)
	require.False(t, p.client.Role().Model.Ready)
	return id
}

// 测试建局流程与索引登记
func TestSetupFlow(t *testing.T) {
	p := newPair(t)

	p.hostStep(session.TimeReady{Now: p.clock})
	p.hostStep(session.HostGame{Now: p.clock, Seed: game.NewSeed(42)})
	id := p.host.Role().GameID

	open, err := p.hostS.ListOpenGames(p.ctx)
	require.NoError(t, err)
	require.Equal(t, []string{id}, open)

	p.clientStep(session.TimeReady{Now: p.clock})
	p.clientStep(session.JoinGame{ID: id, Now: p.clock})
	p.hostStep(session.Tick{Now: p.clock})

	// 加入后对局从待加入索引移入进行中索引
	open, err = p.hostS.ListOpenGames(p.ctx)
	require.NoError(t, err)
	require.Empty(t, open)
	running, err := p.hostS.ListRunningGames(p.ctx)
	require.NoError(t, err)
	require.Equal(t, []string{id}, running)
}

// 测试完整回合：客户端先提交，主机后提交并结算，双方收敛到同一快照
func TestFullRoundClientFirst(t *testing.T) {
	p := newPair(t)
	p.setup(t)

	p.clientStep(session.PlaceOrder{Region: game.RegionSouth, Amount: 1, Direction: game.DirUp})
	p.clientStep(session.Submit{Now: p.clock})
	p.clientStep(session.Tick{Now: p.clock})

	p.hostStep(session.PlaceOrder{Region: game.RegionNorth, Amount: 1, Direction: game.DirDown})
	p.hostStep(session.Submit{Now: p.clock})

	// 主机轮询发现客户端提交，合并为 BothReady
	p.hostStep(session.Tick{Now: p.clock})
	require.Equal(t, game.StateBothReady, p.host.Role().Model.Game.State)

	// 下一个滴答结算并公布
	p.hostStep(session.Tick{Now: p.clock})
	hostGame := p.host.Role().Model.Game
	require.False(t, hostGame.State == game.StateBothReady)
	require.Empty(t, hostGame.MoveBoard)

	// 客户端轮询采纳结算结果
	p.clientStep(session.Tick{Now: p.clock})
	require.Equal(t, hostGame, p.client.Role().Model.Game)
	require.False(t, p.client.Role().Model.Ready)

	// 双方指令都生效了：两翼各派一支部队进入中央同归于尽
	_, occupied := hostGame.UnitBoard.Get(game.RegionCenter)
	require.False(t, occupied)
	north, _ := hostGame.UnitBoard.Get(game.RegionNorth)
	require.Equal(t, 2, north.Amount)
	south, _ := hostGame.UnitBoard.Get(game.RegionSouth)
	require.Equal(t, 2, south.Amount)
}

// 测试和解路径：主机先行提交，客户端把本地指令并入后推回，
// 主机采纳并结算，客户端的指令不丢失
func TestFullRoundHostFirst(t *testing.T) {
	p := newPair(t)
	p.setup(t)

	p.hostStep(session.PlaceOrder{Region: game.RegionNorth, Amount: 2, Direction: game.DirDown})
	p.hostStep(session.Submit{Now: p.clock})

	// 客户端此后才提交；轮询读到 HostReady 快照，触发和解回推
	p.clientStep(session.PlaceOrder{Region: game.RegionSouth, Amount: 2, Direction: game.DirUp})
	p.clientStep(session.Submit{Now: p.clock})
	p.clientStep(session.Tick{Now: p.clock})
	require.Equal(t, game.StateBothReady, p.client.Role().Model.Game.State)

	// 主机轮询采纳和解快照，再结算
	p.hostStep(session.Tick{Now: p.clock})
	require.Equal(t, game.StateBothReady, p.host.Role().Model.Game.State)
	require.Len(t, p.host.Role().Model.Game.MoveBoard, 2)
	p.hostStep(session.Tick{Now: p.clock})

	resolved := p.host.Role().Model.Game
	require.Empty(t, resolved.MoveBoard)

	// 客户端的指令生效：南翼只剩一支部队
	south, ok := resolved.UnitBoard.Get(game.RegionSouth)
	require.True(t, ok)
	require.Equal(t, 1, south.Amount)

	p.clientStep(session.Tick{Now: p.clock})
	require.Equal(t, resolved, p.client.Role().Model.Game)
}

// 测试多回合后部队总量不增（战斗只消耗）
func TestMultiRoundAttrition(t *testing.T) {
	p := newPair(t)
	p.setup(t)

	for round := 0; round < 4; round++ {
		g := p.client.Role().Model.Game
		if g.State.IsTerminal() {
			break
		}
		if u, ok := g.UnitBoard.Get(game.RegionSouth); ok && u.Owner == game.SideSecond {
			p.clientStep(session.PlaceOrder{Region: game.RegionSouth, Amount: 1, Direction: game.DirUp})
		}
		p.clientStep(session.Submit{Now: p.clock})
		p.clientStep(session.Tick{Now: p.clock})

		g = p.host.Role().Model.Game
		if u, ok := g.UnitBoard.Get(game.RegionNorth); ok && u.Owner == game.SideFirst {
			p.hostStep(session.PlaceOrder{Region: game.RegionNorth, Amount: 1, Direction: game.DirDown})
		}
		p.hostStep(session.Submit{Now: p.clock})
		p.hostStep(session.Tick{Now: p.clock})
		p.hostStep(session.Tick{Now: p.clock})
		p.clientStep(session.Tick{Now: p.clock})

		resolved := p.host.Role().Model.Game
		total := game.TotalUnits(resolved.UnitBoard, game.SideFirst) +
			game.TotalUnits(resolved.UnitBoard, game.SideSecond)
		require.LessOrEqual(t, total, 12)
		if !resolved.State.IsTerminal() {
			require.Equal(t, resolved, p.client.Role().Model.Game)
		}
	}
}

// 测试主机退出后存储被清理，索引维护摘除残留条目
func TestExitCleanupAndSweep(t *testing.T) {
	p := newPair(t)
	id := p.setup(t)

	p.hostStep(session.Exit{})
	require.Equal(t, session.RoleGuest, p.host.Role().Kind)

	_, found, err := p.hostS.store.Get(p.ctx, GameKey(id))
	require.NoError(t, err)
	require.False(t, found)
	running, err := p.hostS.ListRunningGames(p.ctx)
	require.NoError(t, err)
	require.Empty(t, running)

	// 人为制造残留索引条目，维护扫描负责摘除
	require.NoError(t, p.hostS.indexAdd(p.ctx, RunningGamesKey, "dead01"))
	require.NoError(t, p.hostS.Sweep(p.ctx))
	running, err = p.hostS.ListRunningGames(p.ctx)
	require.NoError(t, err)
	require.Empty(t, running)
}
