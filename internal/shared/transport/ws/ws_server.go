package ws

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-think/openssl"
	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"SixKingdoms/internal/shared/security"
	"SixKingdoms/internal/shared/utils"
	"SixKingdoms/modules/kit/logx"
)

type WsServer struct {
	conn       *websocket.Conn
	router     *Router
	outChan    chan *RespBody
	needSecret bool
	property   map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, needSecret bool, l logx.Logger) *WsServer {
	return &WsServer{
		conn:       wsConn,
		outChan:    make(chan *RespBody, 1000),
		needSecret: needSecret,
		property:   make(map[string]any),
		done:       make(chan struct{}),
		log:        l,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 服务端主动推送一条事件消息（seq 固定为 0）。
// 连接已关闭时丢弃，不报错。
func (s *WsServer) Push(name string, data any) {
	s.push(&RespBody{Seq: 0, Name: name, Msg: data})
}

func (s *WsServer) push(body *RespBody) {
	select {
	case <-s.done:
	case s.outChan <- body:
	default:
		// 出站缓冲打满说明客户端已经跟不上了，丢弃该条，不阻塞世界推进
		s.log.Warn("ws out channel full, drop message", zap.String("name", body.Name))
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			e := fmt.Sprintf("%v", err)
			s.log.Error("ws readMsgLoop error", zap.String("err", e))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			// 对端断开属于正常生命周期结束
			s.log.Debug("ws_server read msg", zap.Error(err))
			return
		}

		if s.needSecret {
			data, err = s.decode(data)
			if err != nil {
				continue
			}
		}

		// 畸形消息：记日志后丢弃，连接保持
		reqBody := ReqBody{}
		if err := json.Unmarshal(data, &reqBody); err != nil {
			s.log.Warn("ws_server drop malformed message", zap.Error(err))
			continue
		}

		req := WsMsgReq{Body: &reqBody, Conn: s}
		// req 和 resp 的 Seq 必须一致
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixNano() / 1e6
			resp.Body.Msg = h
		} else {
			if !s.router.Dispatch(&req, &resp) {
				continue
			}
			// handler 把 Name 清空表示这条请求不回帧（静默丢弃语义）
			if resp.Body.Name == "" {
				continue
			}
		}

		s.push(resp.Body)
	}
}

// decode 解“压缩+加密”的入站帧；密钥缺失或解密失败时重新发起握手。
func (s *WsServer) decode(data []byte) ([]byte, error) {
	unzipped, err := security.UnZip(data)
	if err != nil {
		s.log.Warn("ws_server readMsgLoop unzip", zap.Error(err))
		return nil, err
	}

	secretKey := s.GetProperty(SecretKey)
	if secretKey == nil {
		s.log.Warn("ws_server readMsgLoop not found secretKey")
		s.Handshake()
		return nil, fmt.Errorf("secret key not found")
	}

	key := secretKey.(string)
	decrypted, err := security.AesCBCDecrypt(unzipped, []byte(key), []byte(key), openssl.ZEROS_PADDING)
	if err != nil {
		s.log.Warn("ws_server readMsgLoop decrypt error", zap.Error(err))
		s.Handshake()
		return nil, err
	}
	return decrypted, nil
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case body, ok := <-s.outChan:
			if ok {
				if body.Name != HeartbeatMsg {
					s.log.Debug("ws_server write msg", zap.Any("msg", body))
				}
				s.write(body)
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(body *RespBody) {
	marshal, err := json.Marshal(body)
	if err != nil {
		s.log.Error("ws_server write marshal json error", zap.Error(err))
		return
	}

	if !s.needSecret {
		if err := s.conn.WriteMessage(websocket.TextMessage, marshal); err != nil {
			s.log.Debug("ws_server write error", zap.Error(err))
		}
		return
	}

	secretKey := s.GetProperty(SecretKey)
	if secretKey == nil {
		s.log.Error("ws_server write not found secretKey", zap.String("name", body.Name))
		return
	}

	key := secretKey.(string)
	encrypted, err := security.AesCBCEncrypt(marshal, []byte(key), []byte(key), openssl.ZEROS_PADDING)
	if err != nil {
		s.log.Error("ws_server write encrypt error", zap.Error(err))
		return
	}

	zipped, err := security.Zip(encrypted)
	if err != nil {
		s.log.Error("ws_server write zip error", zap.Error(err))
		return
	}

	// 压缩后的密文是二进制字节流，必须走 BinaryMessage，不能走 TextMessage
	if err := s.conn.WriteMessage(websocket.BinaryMessage, zipped); err != nil {
		s.log.Debug("ws_server write error", zap.Error(err))
	}
}

// Handshake 下发对称密钥（仅加密模式）。握手帧本身只压缩不加密。
func (s *WsServer) Handshake() {
	secretKey := ""
	key := s.GetProperty(SecretKey)
	if key == nil {
		secretKey = utils.RandSeq(16)
	} else {
		secretKey = key.(string)
	}

	handshake := &Handshake{Key: secretKey}
	body := &RespBody{Name: HandshakeMsg, Msg: handshake}

	data, err := json.Marshal(body)
	if err != nil {
		s.log.Error("ws_server handshake marshal json error", zap.Error(err))
		return
	}

	s.SetProperty(SecretKey, secretKey)

	zipped, err := security.Zip(data)
	if err != nil {
		s.log.Error("ws_server handshake zip error", zap.Error(err))
		return
	}

	if err := s.conn.WriteMessage(websocket.BinaryMessage, zipped); err != nil {
		s.log.Error("ws_server handshake write error", zap.Error(err))
	}
}
