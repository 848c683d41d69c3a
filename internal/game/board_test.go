package game

import (
	"testing"
)

func TestBoardGetSet(t *testing.T) {
	b := UnitBoard{}

	// 空棋盘：所有区域都是合法键，读取返回不存在
	for _, r := range AllRegions() {
		if _, ok := b.Get(r); ok {
			t.Errorf("空棋盘的区域 %s 不应有值", r)
		}
	}

	// 写入后读取
	b2 := b.Set(RegionCenter, &Unit{Amount: 2, Owner: SideFirst})
	u, ok := b2.Get(RegionCenter)
	if !ok || u.Amount != 2 || u.Owner != SideFirst {
		t.Errorf("Get() = %+v, %v, 期望 {2 first}, true", u, ok)
	}

	// 原棋盘不受影响
	if _, ok := b.Get(RegionCenter); ok {
		t.Error("Set() 修改了原棋盘")
	}

	// 置空是合法操作
	b3 := b2.Set(RegionCenter, nil)
	if _, ok := b3.Get(RegionCenter); ok {
		t.Error("Set(nil) 后区域应为空")
	}
}

func TestNeighbor(t *testing.T) {
	tests := []struct {
		name    string
		src     Region
		dir     Direction
		want    Region
		wantOK  bool
	}{
		{"中央向上", RegionCenter, DirUp, RegionNorth, true},
		{"中央向右", RegionCenter, DirRight, RegionEast, true},
		{"北方向下", RegionNorth, DirDown, RegionCenter, true},
		{"北方向上越界", RegionNorth, DirUp, "", false},
		{"东方向右越界", RegionEast, DirRight, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Neighbor(tt.src, tt.dir)
			if ok != tt.wantOK {
				t.Errorf("Neighbor() ok = %v, 期望 %v", ok, tt.wantOK)
				return
			}
			if ok && got != tt.want {
				t.Errorf("Neighbor() = %v, 期望 %v", got, tt.want)
			}
		})
	}
}

func TestNewMove(t *testing.T) {
	g := NewGame(100)

	tests := []struct {
		name    string
		src     Region
		amount  int
		dir     Direction
		wantErr bool
	}{
		{"合法移动", RegionNorth, 2, DirDown, false},
		{"全军移动", RegionNorth, 3, DirDown, false},
		{"数量超过驻军", RegionNorth, 4, DirDown, true},
		{"数量为零", RegionNorth, 0, DirDown, true},
		{"数量为负", RegionNorth, -1, DirDown, true},
		{"空区域", RegionCenter, 1, DirUp, true},
		{"方向越界", RegionNorth, 1, DirUp, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMove(g, tt.src, tt.amount, tt.dir)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMove() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddMoveBoard(t *testing.T) {
	g := NewGame(100)
	incoming := MoveBoard{
		RegionSouth: {Amount: 2, Direction: DirUp},
	}

	merged := AddMoveBoard(g, incoming)
	mv, ok := merged.MoveBoard.Get(RegionSouth)
	if !ok || mv.Amount != 2 {
		t.Fatalf("合并后应包含南方指令, got %+v, %v", mv, ok)
	}

	// 幂等：重复合并同一棋盘结果不变
	again := AddMoveBoard(merged, incoming)
	if len(again.MoveBoard) != len(merged.MoveBoard) {
		t.Error("重复合并改变了指令棋盘")
	}
	mv2, _ := again.MoveBoard.Get(RegionSouth)
	if mv2 != mv {
		t.Errorf("重复合并改变了指令: %+v != %+v", mv2, mv)
	}
}

func TestTotalUnits(t *testing.T) {
	g := NewGame(100)
	if got := TotalUnits(g.UnitBoard, SideFirst); got != 6 {
		t.Errorf("先手初始总兵力 = %d, 期望 6", got)
	}
	if got := TotalUnits(g.UnitBoard, SideSecond); got != 6 {
		t.Errorf("后手初始总兵力 = %d, 期望 6", got)
	}
}
