package game

import (
	"reflect"
	"testing"
)

// bothReady 构造一个可结算的对局
func bothReady(units UnitBoard, moves MoveBoard) Game {
	return Game{
		UnitBoard:   units,
		MoveBoard:   moves,
		State:       StateBothReady,
		LastUpdated: 100,
	}
}

func TestNextRound_Determinism(t *testing.T) {
	g := bothReady(
		UnitBoard{
			RegionNorth: {Amount: 3, Owner: SideFirst},
			RegionSouth: {Amount: 3, Owner: SideSecond},
		},
		MoveBoard{
			RegionNorth: {Amount: 2, Direction: DirDown},
			RegionSouth: {Amount: 2, Direction: DirUp},
		},
	)
	seed := NewSeed(42)

	r1, s1 := NextRound(g, 200, seed)
	r2, s2 := NextRound(g, 999, seed)

	// 除 LastUpdated 外结果必须逐字节一致
	r2.LastUpdated = r1.LastUpdated
	if !reflect.DeepEqual(r1, r2) {
		t.Errorf("相同种子与输入产生了不同结果:\n%+v\n%+v", r1, r2)
	}
	if s1 != s2 {
		t.Errorf("相同输入推进出不同种子: %v != %v", s1, s2)
	}
}

func TestNextRound_NoMoves(t *testing.T) {
	units := UnitBoard{
		RegionNorth: {Amount: 3, Owner: SideFirst},
		RegionSouth: {Amount: 3, Owner: SideSecond},
	}
	g := bothReady(units, MoveBoard{})

	result, _ := NextRound(g, 200, NewSeed(1))

	if !reflect.DeepEqual(result.UnitBoard, units) {
		t.Errorf("空指令棋盘不应改变部队分布: %+v", result.UnitBoard)
	}
	if result.State != StateRunning {
		t.Errorf("State = %v, 期望 running", result.State)
	}
	if len(result.MoveBoard) != 0 {
		t.Errorf("指令棋盘应保持为空: %+v", result.MoveBoard)
	}
	if result.LastUpdated != 200 {
		t.Errorf("LastUpdated = %d, 期望 200", result.LastUpdated)
	}
}

func TestNextRound_SimultaneousMoves(t *testing.T) {
	// 双方同时离开原区域并互不冲突：先算到达再扣出发，
	// 结果不应依赖区域遍历顺序
	g := bothReady(
		UnitBoard{
			RegionNorth: {Amount: 2, Owner: SideFirst},
			RegionSouth: {Amount: 2, Owner: SideSecond},
		},
		MoveBoard{
			RegionNorth: {Amount: 2, Direction: DirDown},
			RegionSouth: {Amount: 1, Direction: DirUp},
		},
	)

	result, _ := NextRound(g, 200, NewSeed(7))

	// 北方清空，南方留守 1 人，中央发生 2v1 战斗
	if _, ok := result.UnitBoard.Get(RegionNorth); ok {
		t.Error("北方应已清空")
	}
	if u, ok := result.UnitBoard.Get(RegionSouth); !ok || u.Amount != 1 || u.Owner != SideSecond {
		t.Errorf("南方 = %+v, %v, 期望留守 1 人", u, ok)
	}
}

func TestNextRound_Reinforcement(t *testing.T) {
	g := bothReady(
		UnitBoard{
			RegionNorth:  {Amount: 2, Owner: SideFirst},
			RegionCenter: {Amount: 1, Owner: SideFirst},
			RegionSouth:  {Amount: 3, Owner: SideSecond},
		},
		MoveBoard{
			RegionNorth: {Amount: 1, Direction: DirDown},
		},
	)

	result, _ := NextRound(g, 200, NewSeed(3))

	if u, _ := result.UnitBoard.Get(RegionCenter); u.Amount != 2 || u.Owner != SideFirst {
		t.Errorf("中央 = %+v, 期望己方增援到 2 人", u)
	}
	if u, _ := result.UnitBoard.Get(RegionNorth); u.Amount != 1 {
		t.Errorf("北方 = %+v, 期望留守 1 人", u)
	}
}

func TestNextRound_Conservation(t *testing.T) {
	// 消耗战只会减员，不会凭空增兵
	g := bothReady(
		UnitBoard{
			RegionNorth:  {Amount: 4, Owner: SideFirst},
			RegionCenter: {Amount: 2, Owner: SideSecond},
			RegionSouth:  {Amount: 3, Owner: SideSecond},
		},
		MoveBoard{
			RegionNorth: {Amount: 4, Direction: DirDown},
			RegionSouth: {Amount: 1, Direction: DirUp},
		},
	)

	beforeFirst := TotalUnits(g.UnitBoard, SideFirst)
	beforeSecond := TotalUnits(g.UnitBoard, SideSecond)

	seed := NewSeed(0)
	for i := 0; i < 16; i++ {
		var result Game
		result, seed = NextRound(g, 200, seed)
		if after := TotalUnits(result.UnitBoard, SideFirst); after > beforeFirst {
			t.Fatalf("先手兵力从 %d 增加到 %d", beforeFirst, after)
		}
		if after := TotalUnits(result.UnitBoard, SideSecond); after > beforeSecond {
			t.Fatalf("后手兵力从 %d 增加到 %d", beforeSecond, after)
		}
	}
}

func TestNextRound_CombatOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		attacker int
		defender int
		// 对 r=0 和 r=1 都成立的断言
		check func(t *testing.T, u Unit, ok bool)
	}{
		{
			name: "以多打少必夺取区域", attacker: 5, defender: 2,
			check: func(t *testing.T, u Unit, ok bool) {
				if !ok || u.Owner != SideFirst {
					t.Fatalf("进攻方应夺取区域, got %+v, %v", u, ok)
				}
				// 进攻方损失 2 或 3 人
				if u.Amount != 2 && u.Amount != 3 {
					t.Errorf("进攻方残余 = %d, 期望 2 或 3", u.Amount)
				}
			},
		},
		{
			name: "兵力相等同归于尽", attacker: 3, defender: 3,
			check: func(t *testing.T, u Unit, ok bool) {
				if ok {
					t.Errorf("区域应清空, got %+v", u)
				}
			},
		},
		{
			name: "以少打多守方保住区域", attacker: 1, defender: 4,
			check: func(t *testing.T, u Unit, ok bool) {
				if !ok || u.Owner != SideSecond || u.Amount != 3 {
					t.Errorf("守方应剩 3 人, got %+v, %v", u, ok)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for s := int64(1); s <= 8; s++ {
				g := bothReady(
					UnitBoard{
						RegionNorth:  {Amount: tt.attacker, Owner: SideFirst},
						RegionCenter: {Amount: tt.defender, Owner: SideSecond},
					},
					MoveBoard{
						RegionNorth: {Amount: tt.attacker, Direction: DirDown},
					},
				)
				result, _ := NextRound(g, 200, NewSeed(s))
				u, ok := result.UnitBoard.Get(RegionCenter)
				tt.check(t, u, ok)
			}
		})
	}
}

func TestNextRound_Terminal(t *testing.T) {
	// 后手仅剩的区域被攻陷，判先手胜
	g := bothReady(
		UnitBoard{
			RegionNorth:  {Amount: 5, Owner: SideFirst},
			RegionCenter: {Amount: 1, Owner: SideSecond},
		},
		MoveBoard{
			RegionNorth: {Amount: 5, Direction: DirDown},
		},
	)

	result, _ := NextRound(g, 200, NewSeed(9))

	if result.State != StateWinFirst {
		t.Errorf("State = %v, 期望 win_first", result.State)
	}
	if !result.State.IsTerminal() {
		t.Error("win_first 应为终局状态")
	}
}

func TestSeed_Deterministic(t *testing.T) {
	s := NewSeed(123)
	a1, n1 := s.Next()
	a2, n2 := s.Next()
	if a1 != a2 || n1 != n2 {
		t.Error("相同种子的 Next() 结果应一致")
	}
	if Seed(0) == NewSeed(0) {
		t.Error("零种子应被映射为非零常量")
	}

	id1, _ := GameID(NewSeed(456))
	id2, _ := GameID(NewSeed(456))
	if id1 != id2 || len(id1) != 6 {
		t.Errorf("GameID 应确定且为 6 位: %q %q", id1, id2)
	}
}
