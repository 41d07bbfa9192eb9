package handler

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"SixKingdoms/internal/game/interfaces/dto"
	"SixKingdoms/internal/shared/actor/messages"
	"SixKingdoms/internal/shared/session"
	"SixKingdoms/internal/shared/transport"
	"SixKingdoms/internal/shared/transport/ws"
	"SixKingdoms/internal/shared/utils"
)

// 网关等待世界 actor 应答的上限。超时说明邮箱积压，按系统繁忙处理。
const requestTimeout = 3 * time.Second

// Game 把入站 ws 帧翻译成世界 actor 的指令并等待直接应答。
// 广播类推送不经过这里，由 actor 直接走会话管理器。
type Game struct {
	root     *actor.RootContext
	pid      *actor.PID
	ids      *utils.Snowflake
	sessions session.Manager
}

func NewGame(root *actor.RootContext, pid *actor.PID, ids *utils.Snowflake, sessions session.Manager) *Game {
	return &Game{root: root, pid: pid, ids: ids, sessions: sessions}
}

func (h *Game) RegisterRoutes(r *ws.Router) {
	r.Handle("join", h.join)
	r.Handle("move", h.move)
	r.Handle("recruit", h.recruit)
	r.Handle("attack", h.attack)
	r.Handle("chat", h.chat)
}

func (h *Game) join(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	var req dto.JoinReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	// 会话 id 就是玩家身份：同连接重复 join 复用，不再发新身份
	sid, ok := sessionOf(wsReq.Conn)
	if !ok {
		sid = h.ids.NextString()
		wsReq.Conn.SetProperty(ws.ConnKeySessionID, sid)
	}

	h.request(wsResp, &messages.JoinCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: sid},
		Name:            req.Name,
		Conn:            wsReq.Conn,
	})
}

func (h *Game) move(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	sid, ok := h.requireSession(wsReq, wsResp)
	if !ok {
		return
	}

	var req dto.MoveReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	h.request(wsResp, &messages.MoveCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: sid},
		X:               req.X,
		Y:               req.Y,
	})
}

func (h *Game) recruit(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	sid, ok := h.requireSession(wsReq, wsResp)
	if !ok {
		return
	}

	var req dto.RecruitReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	h.request(wsResp, &messages.RecruitCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: sid},
		UnitType:        req.UnitType,
		Count:           req.Count,
	})
}

func (h *Game) attack(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	sid, ok := h.requireSession(wsReq, wsResp)
	if !ok {
		return
	}

	var req dto.AttackReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	// territoryId 只解析不处理，领土归属不变更
	if req.TargetID == "" {
		h.silent(wsResp)
		return
	}

	h.request(wsResp, &messages.AttackCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: sid},
		TargetID:        req.TargetID,
	})
}

func (h *Game) chat(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	sid, ok := h.requireSession(wsReq, wsResp)
	if !ok {
		return
	}

	var req dto.ChatReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	h.request(wsResp, &messages.ChatCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: sid},
		Text:            req.Text,
	})
}

// request 同步问询世界 actor，把应答原样写回响应帧。
func (h *Game) request(wsResp *ws.WsMsgResp, cmd messages.GameMessage) {
	res, err := h.root.RequestFuture(h.pid, cmd, requestTimeout).Result()
	if err != nil {
		h.fail(wsResp, transport.SystemError, "服务器繁忙，请稍后重试")
		return
	}
	reply, ok := res.(*messages.Reply)
	if !ok {
		h.fail(wsResp, transport.SystemError, "服务器内部错误")
		return
	}
	if reply.Name == "" {
		h.silent(wsResp)
		return
	}
	wsResp.Body.Name = reply.Name
	wsResp.Body.Code = reply.Code
	wsResp.Body.Msg = reply.Msg
}

// requireSession 业务指令的身份以会话管理器的绑定为准：
// 没 join 过（或绑定已被清理）的连接按过期引用静默丢弃。
func (h *Game) requireSession(wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) (string, bool) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		return "", false
	}
	sid, ok := h.sessions.GetSessionID(wsReq.Conn)
	if !ok {
		h.silent(wsResp)
		return "", false
	}
	return sid, true
}

func sessionOf(conn ws.WSConn) (string, bool) {
	sid, ok := conn.GetProperty(ws.ConnKeySessionID).(string)
	return sid, ok && sid != ""
}

func (h *Game) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Name = "error"
	resp.Body.Code = code
	resp.Body.Msg = dto.ErrorPush{Message: msg}
}

// silent 清空 Name，连接层看到空 Name 不回帧。
func (h *Game) silent(resp *ws.WsMsgResp) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Name = ""
	resp.Body.Code = transport.OK
	resp.Body.Msg = nil
}
