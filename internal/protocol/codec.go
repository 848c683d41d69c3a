package protocol

import (
	"encoding/json"

	"github.com/wfunc/region-war/internal/errors"
	"github.com/wfunc/region-war/internal/game"
	"github.com/wfunc/region-war/internal/session"
)

// EncodeGame 对局快照编码为存储值
func EncodeGame(g game.Game) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRecordEncode, "对局快照")
	}
	return data, nil
}

// DecodeGame 从存储值解码对局快照
func DecodeGame(data []byte) (game.Game, error) {
	var g game.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return game.Game{}, errors.Wrap(err, errors.ErrRecordDecode, "对局快照")
	}
	return g, nil
}

// EncodePeer 客户端记录编码为存储值
func EncodePeer(p session.PeerRecord) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRecordEncode, "客户端记录")
	}
	return data, nil
}

// DecodePeer 从存储值解码客户端记录
func DecodePeer(data []byte) (session.PeerRecord, error) {
	var p session.PeerRecord
	if err := json.Unmarshal(data, &p); err != nil {
		return session.PeerRecord{}, errors.Wrap(err, errors.ErrRecordDecode, "客户端记录")
	}
	return p, nil
}

// EncodeIndex 对局编号索引编码为存储值
func EncodeIndex(ids []string) ([]byte, error) {
	data, err := json.Marshal(ids)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRecordEncode, "对局索引")
	}
	return data, nil
}

// DecodeIndex 从存储值解码对局编号索引
func DecodeIndex(data []byte) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, errors.Wrap(err, errors.ErrRecordDecode, "对局索引")
	}
	return ids, nil
}
