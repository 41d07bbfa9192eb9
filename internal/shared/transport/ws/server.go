package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"SixKingdoms/modules/kit/logx"
)

// Server 把 HTTP 请求升级成游戏长连接。实现 http.Handler，可直接挂到任意路由上。
type Server struct {
	router     *Router
	needSecret bool
	log        logx.Logger
}

func NewServer(r *Router, needSecret bool, l logx.Logger) *Server {
	return &Server{
		router:     r,
		needSecret: needSecret,
		log:        l,
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	upgrader := websocket.Upgrader{
		// 允许所有CORS跨域请求
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	wsConn, err := upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	s.log.Info("websocket upgrade success", zap.String("remote", wsConn.RemoteAddr().String()))

	wsServer := NewWsServer(wsConn, s.needSecret, s.log)
	wsServer.Router(s.router)
	wsServer.Run()
	if s.needSecret {
		wsServer.Handshake()
	}
}
