package game

// 回合结算器：给定双方已提交的指令棋盘，把对局推进一个回合。
// 对 (UnitBoard, MoveBoard, Seed) 完全确定，now 只用于盖 LastUpdated 的章。

// arrival 一次移动的到达记录
type arrival struct {
	dst    Region
	amount int
	owner  Side
}

// NextRound 结算一个回合并返回新对局与推进后的种子
// 仅允许在 BothReady 状态下调用，调用方（会话状态机）保证前置条件
//
// 结算顺序：
//  1. 收集所有移动的出发与到达（先全部计算再落子，保证同时性）
//  2. 出发：源区域减员，减到 0 则移除条目
//  3. 到达：空区域或己方区域为增援；敌方区域触发战斗
//  4. 清空整个指令棋盘
//  5. 计算终局：一方全灭判负，双方全灭判平
func NextRound(g Game, now int64, seed Seed) (Game, Seed) {
	units := g.UnitBoard
	var arrivals []arrival

	// 先收集全部到达，再统一扣除出发，避免结算顺序影响结果
	for _, src := range AllRegions() {
		mv, ok := g.MoveBoard.Get(src)
		if !ok {
			continue
		}
		unit, ok := units.Get(src)
		if !ok {
			// 提交校验保证不会发生；宽容跳过而不是崩溃
			continue
		}
		dst, ok := Neighbor(src, mv.Direction)
		if !ok {
			continue
		}
		arrivals = append(arrivals, arrival{dst: dst, amount: mv.Amount, owner: unit.Owner})

		remain := unit.Amount - mv.Amount
		if remain <= 0 {
			units = units.Set(src, nil)
		} else {
			units = units.Set(src, &Unit{Amount: remain, Owner: unit.Owner})
		}
	}

	// 到达结算
	for _, a := range arrivals {
		defender, occupied := units.Get(a.dst)
		switch {
		case !occupied:
			units = units.Set(a.dst, &Unit{Amount: a.amount, Owner: a.owner})
		case defender.Owner == a.owner:
			units = units.Set(a.dst, &Unit{Amount: defender.Amount + a.amount, Owner: a.owner})
		default:
			units, seed = resolveCombat(units, a, defender, seed)
		}
	}

	result := Game{
		UnitBoard:   units,
		MoveBoard:   MoveBoard{},
		State:       terminalState(units),
		LastUpdated: now,
	}
	return result, seed
}

// resolveCombat 战斗消耗规则（策略选择，记录如下）：
//
//	进攻方 a 人、防守方 d 人，消耗一次种子得 r ∈ {0, 1}：
//	  防守方损失 min(d, a)
//	  进攻方损失 min(a, d+r)
//	即小方全灭，大方按小方人数减员；进攻方额外以 1/2 概率多损失一人
//	（守方地利）。兵力只会减少不会凭空产生，同种子同输入结果恒定。
func resolveCombat(units UnitBoard, a arrival, defender Unit, seed Seed) (UnitBoard, Seed) {
	r, next := seed.NextN(2)

	defenderLoss := min(defender.Amount, a.amount)
	attackerLoss := min(a.amount, defender.Amount+r)

	defenderLeft := defender.Amount - defenderLoss
	attackerLeft := a.amount - attackerLoss

	switch {
	case defenderLeft > 0:
		units = units.Set(a.dst, &Unit{Amount: defenderLeft, Owner: defender.Owner})
	case attackerLeft > 0:
		units = units.Set(a.dst, &Unit{Amount: attackerLeft, Owner: a.owner})
	default:
		units = units.Set(a.dst, nil)
	}
	return units, next
}

// terminalState 终局判定：一方全灭判另一方胜，双方全灭判平
func terminalState(units UnitBoard) GameState {
	first := TotalUnits(units, SideFirst)
	second := TotalUnits(units, SideSecond)

	switch {
	case first == 0 && second == 0:
		return StateDraw
	case second == 0:
		return StateWinFirst
	case first == 0:
		return StateWinSecond
	default:
		return StateRunning
	}
}
