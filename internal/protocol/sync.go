package protocol

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wfunc/region-war/internal/game"
	"github.com/wfunc/region-war/internal/session"
	"github.com/wfunc/region-war/internal/store"
)

// Syncer 把状态机效果翻译成存储操作
// 存储操作的结果包装成响应事件立即喂回状态机；状态机可能
// 因此产生新效果（典型例子是和解后的回推），新效果排队继续
// 执行，直到队列耗尽
type Syncer struct {
	store   store.Store
	machine *session.Machine
	logger  *zap.Logger
	now     func() int64
}

// NewSyncer 创建同步器
func NewSyncer(st store.Store, m *session.Machine, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		store:   st,
		machine: m,
		logger:  logger,
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

// Now 返回当前毫秒时间戳
func (s *Syncer) Now() int64 {
	return s.now()
}

// Dispatch 依次执行效果列表
// 存储故障按瞬时异常处理：记一条日志后放弃本次操作，
// 下一个滴答的轮询会重新覆盖，协议对丢失的单次请求免疫
func (s *Syncer) Dispatch(ctx context.Context, effects []session.Effect) {
	queue := effects
	for len(queue) > 0 {
		effect := queue[0]
		queue = queue[1:]

		ev, err := s.apply(ctx, effect)
		if err != nil {
			s.logger.Warn("存储操作失败，等待下一个滴答重试", zap.Error(err))
			continue
		}
		if ev != nil {
			queue = append(queue, s.machine.Handle(ev)...)
		}
	}
}

// apply 执行单个效果，带外请求效果返回对应的响应事件
func (s *Syncer) apply(ctx context.Context, effect session.Effect) (session.Event, error) {
	switch e := effect.(type) {
	case session.PollAttach:
		peer, err := s.readPeer(ctx, e.GameID)
		if err != nil {
			return nil, err
		}
		return session.AttachResponse{Gen: e.Gen, Now: s.now(), Peer: peer}, nil

	case session.PollClient:
		g, err := s.readGame(ctx, e.GameID)
		if err != nil {
			return nil, err
		}
		peer, err := s.readPeer(ctx, e.GameID)
		if err != nil {
			return nil, err
		}
		return session.ClientPollResponse{Gen: e.Gen, Now: s.now(), Game: g, Peer: peer}, nil

	case session.PollHost:
		data, err := EncodePeer(e.Record)
		if err != nil {
			return nil, err
		}
		if err := s.store.Set(ctx, PeerKey(e.GameID), data); err != nil {
			return nil, err
		}
		g, err := s.readGame(ctx, e.GameID)
		if err != nil {
			return nil, err
		}
		return session.HostPollResponse{Gen: e.Gen, Now: s.now(), Game: g}, nil

	case session.PushGame:
		data, err := EncodeGame(e.Game)
		if err != nil {
			return nil, err
		}
		return nil, s.store.Set(ctx, GameKey(e.GameID), data)

	case session.RegisterOpen:
		return nil, s.indexAdd(ctx, OpenGamesKey, e.GameID)

	case session.RegisterRunning:
		if err := s.indexRemove(ctx, OpenGamesKey, e.GameID); err != nil {
			return nil, err
		}
		return nil, s.indexAdd(ctx, RunningGamesKey, e.GameID)

	case session.CleanupGame:
		if err := s.store.Delete(ctx, GameKey(e.GameID)); err != nil {
			return nil, err
		}
		if err := s.store.Delete(ctx, PeerKey(e.GameID)); err != nil {
			return nil, err
		}
		if err := s.indexRemove(ctx, OpenGamesKey, e.GameID); err != nil {
			return nil, err
		}
		return nil, s.indexRemove(ctx, RunningGamesKey, e.GameID)

	default:
		return nil, nil
	}
}

// readGame 读取对局主键，键不存在时返回 nil
func (s *Syncer) readGame(ctx context.Context, id string) (*game.Game, error) {
	data, found, err := s.store.Get(ctx, GameKey(id))
	if err != nil || !found {
		return nil, err
	}
	g, err := DecodeGame(data)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// readPeer 读取客户端记录键，键不存在时返回 nil
func (s *Syncer) readPeer(ctx context.Context, id string) (*session.PeerRecord, error) {
	data, found, err := s.store.Get(ctx, PeerKey(id))
	if err != nil || !found {
		return nil, err
	}
	p, err := DecodePeer(data)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListOpenGames 列出待加入的对局编号
func (s *Syncer) ListOpenGames(ctx context.Context) ([]string, error) {
	return s.readIndex(ctx, OpenGamesKey)
}

// ListRunningGames 列出进行中的对局编号
func (s *Syncer) ListRunningGames(ctx context.Context) ([]string, error) {
	return s.readIndex(ctx, RunningGamesKey)
}

// Sweep 索引维护：摘除主键已不存在的残留条目
// 索引的读改写没有互斥，偶发的并发丢失由这里定期修复
func (s *Syncer) Sweep(ctx context.Context) error {
	for _, key := range []string{OpenGamesKey, RunningGamesKey} {
		ids, err := s.readIndex(ctx, key)
		if err != nil {
			return err
		}
		kept := ids[:0]
		for _, id := range ids {
			_, found, err := s.store.Get(ctx, GameKey(id))
			if err != nil {
				return err
			}
			if found {
				kept = append(kept, id)
			}
		}
		if len(kept) != len(ids) {
			if err := s.writeIndex(ctx, key, kept); err != nil {
				return err
			}
			s.logger.Info("索引维护完成",
				zap.String("index", key),
				zap.Int("removed", len(ids)-len(kept)))
		}
	}
	return nil
}

func (s *Syncer) readIndex(ctx context.Context, key string) ([]string, error) {
	data, found, err := s.store.Get(ctx, key)
	if err != nil || !found {
		return nil, err
	}
	return DecodeIndex(data)
}

func (s *Syncer) writeIndex(ctx context.Context, key string, ids []string) error {
	if len(ids) == 0 {
		return s.store.Delete(ctx, key)
	}
	data, err := EncodeIndex(ids)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, data)
}

func (s *Syncer) indexAdd(ctx context.Context, key, id string) error {
	ids, err := s.readIndex(ctx, key)
	if err != nil {
		return err
	}
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	return s.writeIndex(ctx, key, append(ids, id))
}

func (s *Syncer) indexRemove(ctx context.Context, key, id string) error {
	ids, err := s.readIndex(ctx, key)
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(ids) {
		return nil
	}
	return s.writeIndex(ctx, key, kept)
}
