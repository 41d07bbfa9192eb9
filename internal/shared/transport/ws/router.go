package ws

import (
	"context"

	"go.uber.org/zap"

	"SixKingdoms/internal/shared/logs"
	"SixKingdoms/internal/shared/transport"
	"SixKingdoms/modules/kit/logx"
)

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

// Router 按消息名分发到处理器。消息集是封闭的：
// 未注册的消息名静默丢弃（向前兼容容忍，不回错误）。
type Router struct {
	handlers map[string]HandlerFunc
	log      logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.NewZapLogger(logs.Logger())
	}
	return &Router{
		handlers: make(map[string]HandlerFunc),
		log:      l,
	}
}

func (r *Router) Handle(name string, h HandlerFunc) {
	r.handlers[name] = h
}

// Dispatch 分发一条入站消息；返回是否有处理器接手。
// 未知消息名只打 debug 日志，不推任何响应。
func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) bool {
	if req == nil || req.Body == nil || resp == nil || resp.Body == nil {
		return false
	}

	handlerFunc := r.handlers[req.Body.Name]
	if handlerFunc == nil {
		r.log.Debug("ws router drop unknown message", zap.String("name", req.Body.Name))
		return false
	}

	ctx := transport.NewContext("WS " + req.Body.Name)
	// 先置系统错误，避免 handler 漏设时出现“成功假象”。
	resp.Body.Code = transport.SystemError
	defer func() {
		transport.SetBizCode(ctx, transport.BizCode(resp.Body.Code))
		transport.WriteAccessLog(ctx, r.log)
	}()

	handlerFunc(ctx, req, resp)
	return true
}
