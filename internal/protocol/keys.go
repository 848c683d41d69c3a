// Package protocol 实现状态机与键值存储之间的同步层
// 职责有三：键名布局、记录编解码、把状态机效果翻译成存储操作
// 并把结果包装成响应事件送回状态机
package protocol

const (
	// OpenGamesKey 待加入对局索引（编号列表）
	OpenGamesKey = "games:open"
	// RunningGamesKey 进行中对局索引
	RunningGamesKey = "games:running"
)

// GameKey 对局主键：权威对局快照，除客户端和解推进外均由主机写入
func GameKey(id string) string {
	return "game:" + id
}

// PeerKey 客户端记录键：只由客户端写入，主机只读
func PeerKey(id string) string {
	return "game:" + id + ":client"
}
