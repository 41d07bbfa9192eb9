package broadcast

import (
	"SixKingdoms/internal/shared/session"
	"SixKingdoms/internal/shared/transport/ws"
)

// Broadcaster 把游戏事件推给在线会话。目标连接已断开时静默跳过，
// 发送本身由连接的发送队列异步完成，调用方不会被慢客户端拖住。
type Broadcaster struct {
	sessions session.Manager
}

func NewBroadcaster(sessions session.Manager) *Broadcaster {
	return &Broadcaster{sessions: sessions}
}

// SendTo 单播给指定会话。会话不在线时丢弃。
func (b *Broadcaster) SendTo(sessionID string, name string, data any) {
	conn, ok := b.sessions.GetConn(sessionID)
	if !ok {
		return
	}
	conn.Push(name, data)
}

// Broadcast 推给所有在线会话。
func (b *Broadcaster) Broadcast(name string, data any) {
	b.sessions.Range(func(_ string, conn ws.WSConn) bool {
		conn.Push(name, data)
		return true
	})
}

// BroadcastExcept 推给除 excluded 之外的所有在线会话。
func (b *Broadcaster) BroadcastExcept(name string, data any, excluded ...string) {
	skip := make(map[string]struct{}, len(excluded))
	for _, sid := range excluded {
		skip[sid] = struct{}{}
	}
	b.sessions.Range(func(sid string, conn ws.WSConn) bool {
		if _, ok := skip[sid]; ok {
			return true
		}
		conn.Push(name, data)
		return true
	})
}
