package session

import (
	"sync"

	"SixKingdoms/internal/shared/transport/ws"
)

type Manager interface {
	Bind(sessionID string, token string, conn ws.WSConn)
	UnbindConn(conn ws.WSConn)
	UnbindSession(sessionID string)
	GetConn(sessionID string) (ws.WSConn, bool)
	GetSessionID(conn ws.WSConn) (string, bool)
	Range(fn func(sessionID string, conn ws.WSConn) bool)
}

type SessMgr struct {
	sync.RWMutex
	sid2token map[string]string
	sid2conn  map[string]ws.WSConn
	conn2sid  map[ws.WSConn]string
	watched   map[ws.WSConn]struct{}
}

func NewSessMgr() Manager {
	return &SessMgr{
		sid2token: make(map[string]string),
		sid2conn:  make(map[string]ws.WSConn),
		conn2sid:  make(map[ws.WSConn]string),
		watched:   make(map[ws.WSConn]struct{}),
	}
}

func (s *SessMgr) Bind(sessionID string, token string, conn ws.WSConn) {
	if conn == nil {
		return
	}
	s.Lock()
	defer s.Unlock()

	// 为每条连接只启动一次 watcher：连接关闭后自动解绑，避免 conn2sid 逐步膨胀
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}

	oldConn := s.sid2conn[sessionID]
	// 踢掉原来的那个
	if oldConn != nil && oldConn != conn {
		oldConn.Push("robLogin", nil)
		oldConn.Close()
	}
	s.sid2conn[sessionID] = conn
	s.conn2sid[conn] = sessionID
	s.sid2token[sessionID] = token
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	sid := s.conn2sid[conn]
	delete(s.watched, conn)
	delete(s.conn2sid, conn)
	if s.sid2conn[sid] == conn {
		delete(s.sid2conn, sid)
		delete(s.sid2token, sid)
	}
}

func (s *SessMgr) UnbindSession(sessionID string) {
	s.Lock()
	defer s.Unlock()
	conn, ok := s.sid2conn[sessionID]
	if ok {
		delete(s.watched, conn)
		delete(s.conn2sid, conn)
	}
	delete(s.sid2conn, sessionID)
	delete(s.sid2token, sessionID)
}

func (s *SessMgr) GetConn(sessionID string) (ws.WSConn, bool) {
	s.RLock()
	defer s.RUnlock()
	conn, ok := s.sid2conn[sessionID]
	return conn, ok
}

func (s *SessMgr) GetSessionID(conn ws.WSConn) (string, bool) {
	s.RLock()
	defer s.RUnlock()
	sid, ok := s.conn2sid[conn]
	return sid, ok
}

// Range 在读锁内遍历全部在线会话；fn 返回 false 时提前停止。
// fn 里不要再调用会拿写锁的方法。
func (s *SessMgr) Range(fn func(sessionID string, conn ws.WSConn) bool) {
	s.RLock()
	defer s.RUnlock()
	for sid, conn := range s.sid2conn {
		if !fn(sid, conn) {
			return
		}
	}
}
