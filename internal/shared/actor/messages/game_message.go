package messages

import "SixKingdoms/internal/shared/transport/ws"

// GameMessage 是发往世界 actor 的指令集。每条指令都携带发起方的
// 会话 id，actor 以它为唯一身份，不信任载荷里的任何玩家 id。
type GameMessage interface {
	SessionID() string
}

type GameBaseMessage struct {
	SessionId string
}

func (m GameBaseMessage) SessionID() string {
	return m.SessionId
}

// JoinCmd 进入世界。Conn 只用于建立会话绑定，不进入世界状态。
type JoinCmd struct {
	GameBaseMessage
	Name string
	Conn ws.WSConn
}

type MoveCmd struct {
	GameBaseMessage
	X, Y float64
}

type RecruitCmd struct {
	GameBaseMessage
	UnitType string
	Count    int
}

type AttackCmd struct {
	GameBaseMessage
	TargetID string
}

type ChatCmd struct {
	GameBaseMessage
	Text string
}

// LeaveCmd 由连接生命周期 watcher 发出，没有直接响应。
// Conn 标识发出者感知到关闭的那条连接：会话换连接重连后，
// 旧连接的 LeaveCmd 不应把在线玩家移出世界。
type LeaveCmd struct {
	GameBaseMessage
	Conn ws.WSConn
}
