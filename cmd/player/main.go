package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wfunc/region-war/internal/config"
	"github.com/wfunc/region-war/internal/game"
	"github.com/wfunc/region-war/internal/logger"
	"github.com/wfunc/region-war/internal/protocol"
	"github.com/wfunc/region-war/internal/session"
	"github.com/wfunc/region-war/internal/store"
)

// Player 玩家进程：状态机 + 同步层 + 命令行界面
type Player struct {
	machine *session.Machine
	syncer  *protocol.Syncer
	logger  *zap.Logger
}

func main() {
	var (
		configPath = flag.String("config", "", "配置文件路径")
		storeURL   = flag.String("store", "", "存储服务地址（覆盖配置文件）")
	)
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Cleanup()

	url := cfg.Client.StoreURL
	if *storeURL != "" {
		url = *storeURL
	}

	st := store.NewHTTPStore(url, logger.WithModule("store"),
		store.WithTimeout(cfg.Client.RequestTimeout),
		store.WithToken(cfg.Client.Token),
	)

	player := &Player{
		machine: session.NewMachine(logger.WithModule("session")),
		logger:  logger.GetLogger(),
	}
	player.syncer = protocol.NewSyncer(st, player.machine, logger.WithModule("protocol"))

	fmt.Printf("已连接存储服务: %s\n", url)
	fmt.Println("输入 help 查看命令")

	player.run(cfg)
}

// run 主循环：定时滴答、维护扫描、命令行输入、退出信号
func (p *Player) run(cfg *config.Config) {
	ctx := context.Background()

	// 本地时间源就绪
	p.dispatch(ctx, session.TimeReady{Now: p.syncer.Now()})

	ticker := time.NewTicker(cfg.Client.PollInterval)
	defer ticker.Stop()
	sweeper := time.NewTicker(cfg.Client.SweepInterval)
	defer sweeper.Stop()

	commands := make(chan string)
	go readCommands(commands)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			p.dispatch(ctx, session.Tick{Now: p.syncer.Now()})

		case <-sweeper.C:
			if err := p.syncer.Sweep(ctx); err != nil {
				p.logger.Warn("索引维护失败", zap.Error(err))
			}

		case line, ok := <-commands:
			if !ok {
				return
			}
			if quit := p.handleCommand(ctx, line); quit {
				return
			}

		case sig := <-sigCh:
			p.logger.Info("收到退出信号", zap.String("signal", sig.String()))
			p.dispatch(ctx, session.Exit{})
			return
		}
	}
}

// readCommands 从标准输入逐行读取命令
func readCommands(out chan<- string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		out <- strings.TrimSpace(scanner.Text())
	}
	close(out)
}

// dispatch 把事件送入状态机并执行产生的效果
func (p *Player) dispatch(ctx context.Context, ev session.Event) {
	before := p.machine.Role()
	p.syncer.Dispatch(ctx, p.machine.Handle(ev))
	after := p.machine.Role()

	// 角色或对局推进时向玩家播报
	if after.Kind != before.Kind {
		p.announceRole(before, after)
	} else if after.Kind == session.RoleHost || after.Kind == session.RoleClient {
		if after.Model.Game.LastUpdated != before.Model.Game.LastUpdated {
			p.printGame(after)
		}
	}
}

// announceRole 播报角色变化
func (p *Player) announceRole(before, after session.Role) {
	switch after.Kind {
	case session.RoleGuest:
		if before.Kind == session.RoleHost || before.Kind == session.RoleClient {
			fmt.Println("对局已结束，回到大厅")
		} else {
			fmt.Println("已进入大厅")
		}
	case session.RoleWaitingHost:
		fmt.Printf("对局 %s 已创建，等待对手加入...\n", after.GameID)
	case session.RoleHost:
		fmt.Println("对手已加入，对局开始（本方执先手，驻守北、西两翼）")
		p.printGame(after)
	case session.RoleClient:
		fmt.Printf("已加入对局 %s（本方执后手，驻守南、东两翼）\n", after.GameID)
	}
}

// handleCommand 处理一条玩家命令，返回真表示退出进程
func (p *Player) handleCommand(ctx context.Context, line string) bool {
	if line == "" {
		return false
	}
	fields := strings.Fields(line)

	switch fields[0] {
	case "help":
		printUsage()

	case "host":
		seed := config.Get().Game.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		p.dispatch(ctx, session.HostGame{Now: p.syncer.Now(), Seed: game.NewSeed(seed)})

	case "join":
		if len(fields) != 2 {
			fmt.Println("用法: join <对局编号>")
			return false
		}
		p.dispatch(ctx, session.JoinGame{ID: fields[1], Now: p.syncer.Now()})

	case "list":
		ids, err := p.syncer.ListOpenGames(ctx)
		if err != nil {
			fmt.Printf("查询失败: %v\n", err)
			return false
		}
		if len(ids) == 0 {
			fmt.Println("当前没有待加入的对局")
			return false
		}
		fmt.Println("待加入的对局:")
		for _, id := range ids {
			fmt.Printf("  %s\n", id)
		}

	case "move":
		if len(fields) != 4 {
			fmt.Println("用法: move <区域> <数量> <方向>")
			return false
		}
		region, ok := parseRegion(fields[1])
		if !ok {
			fmt.Printf("未知区域: %s\n", fields[1])
			return false
		}
		amount, err := strconv.Atoi(fields[2])
		if err != nil {
			fmt.Printf("数量无效: %s\n", fields[2])
			return false
		}
		direction, ok := parseDirection(fields[3])
		if !ok {
			fmt.Printf("未知方向: %s\n", fields[3])
			return false
		}

		// 先在本地校验一遍，非法指令当场报错而不是被默默忽略
		role := p.machine.Role()
		if role.Kind != session.RoleHost && role.Kind != session.RoleClient {
			fmt.Println("尚未进入对局")
			return false
		}
		if unit, ok := role.Model.Game.UnitBoard.Get(region); !ok || unit.Owner != role.Model.Side {
			fmt.Println("该区域没有本方部队")
			return false
		}
		if _, err := game.NewMove(role.Model.Game, region, amount, direction); err != nil {
			fmt.Printf("指令无效: %v\n", err)
			return false
		}
		p.dispatch(ctx, session.PlaceOrder{Region: region, Amount: amount, Direction: direction})
		fmt.Printf("已录入: %s 的 %d 支部队向%s移动\n", region, amount, directionName(direction))

	case "submit":
		p.dispatch(ctx, session.Submit{Now: p.syncer.Now()})
		fmt.Println("本回合已提交，等待对方...")

	case "board":
		role := p.machine.Role()
		if role.Kind != session.RoleHost && role.Kind != session.RoleClient {
			fmt.Println("尚未进入对局")
			return false
		}
		p.printGame(role)

	case "exit":
		p.dispatch(ctx, session.Exit{})

	case "reset":
		p.dispatch(ctx, session.Reset{})
		p.dispatch(ctx, session.TimeReady{Now: p.syncer.Now()})

	case "quit":
		p.dispatch(ctx, session.Exit{})
		return true

	default:
		fmt.Printf("未知命令: %s（输入 help 查看命令）\n", fields[0])
	}
	return false
}

// printGame 渲染当前对局
func (p *Player) printGame(role session.Role) {
	g := role.Model.Game

	fmt.Println()
	fmt.Printf("对局 %s | 状态: %s | 本方: %s\n", role.GameID, stateName(g.State), sideName(role.Model.Side))
	fmt.Printf("            %s\n", cell(g, game.RegionNorth))
	fmt.Printf("  %s  %s  %s\n", cell(g, game.RegionWest), cell(g, game.RegionCenter), cell(g, game.RegionEast))
	fmt.Printf("            %s\n", cell(g, game.RegionSouth))

	if g.State.IsTerminal() {
		fmt.Printf("终局: %s（输入 exit 回到大厅，reset 完全重置）\n", stateName(g.State))
	} else if role.Model.Ready {
		fmt.Println("本回合已提交，等待对方")
	}
	fmt.Println()
}

// cell 渲染单个区域
func cell(g game.Game, r game.Region) string {
	unit, ok := g.UnitBoard.Get(r)
	if !ok {
		return fmt.Sprintf("[%s:  --  ]", regionShort(r))
	}
	mark := "先"
	if unit.Owner == game.SideSecond {
		mark = "后"
	}
	return fmt.Sprintf("[%s: %s x%d]", regionShort(r), mark, unit.Amount)
}

func parseRegion(s string) (game.Region, bool) {
	switch strings.ToLower(s) {
	case "center", "c", "中":
		return game.RegionCenter, true
	case "north", "n", "北":
		return game.RegionNorth, true
	case "east", "e", "东":
		return game.RegionEast, true
	case "south", "s", "南":
		return game.RegionSouth, true
	case "west", "w", "西":
		return game.RegionWest, true
	}
	return "", false
}

func parseDirection(s string) (game.Direction, bool) {
	switch strings.ToLower(s) {
	case "up", "u", "上":
		return game.DirUp, true
	case "down", "d", "下":
		return game.DirDown, true
	case "left", "l", "左":
		return game.DirLeft, true
	case "right", "r", "右":
		return game.DirRight, true
	}
	return "", false
}

func regionShort(r game.Region) string {
	switch r {
	case game.RegionCenter:
		return "中"
	case game.RegionNorth:
		return "北"
	case game.RegionEast:
		return "东"
	case game.RegionSouth:
		return "南"
	case game.RegionWest:
		return "西"
	}
	return "?"
}

func directionName(d game.Direction) string {
	switch d {
	case game.DirUp:
		return "上"
	case game.DirDown:
		return "下"
	case game.DirLeft:
		return "左"
	case game.DirRight:
		return "右"
	}
	return "?"
}

func sideName(s game.Side) string {
	if s == game.SideFirst {
		return "先手"
	}
	return "后手"
}

func stateName(s game.GameState) string {
	switch s {
	case game.StateRunning:
		return "进行中"
	case game.StateHostReady:
		return "主机已提交"
	case game.StateBothReady:
		return "双方已提交"
	case game.StateWinFirst:
		return "先手获胜"
	case game.StateWinSecond:
		return "后手获胜"
	case game.StateDraw:
		return "平局"
	}
	return string(s)
}

func printUsage() {
	fmt.Println("命令:")
	fmt.Println("  host                     创建新对局")
	fmt.Println("  join <编号>              加入对局")
	fmt.Println("  list                     列出待加入的对局")
	fmt.Println("  move <区域> <数量> <方向>  录入移动指令 (区域: north/south/east/west/center, 方向: up/down/left/right)")
	fmt.Println("  submit                   提交本回合指令")
	fmt.Println("  board                    查看当前棋盘")
	fmt.Println("  exit                     退出当前对局")
	fmt.Println("  reset                    完全重置")
	fmt.Println("  quit                     退出进程")
}
