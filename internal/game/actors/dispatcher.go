package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"SixKingdoms/internal/shared/actor/messages"
	"SixKingdoms/internal/shared/transport"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, GH.HandleJoin)
	register(d, GH.HandleMove)
	register(d, GH.HandleRecruit)
	register(d, GH.HandleAttack)
	register(d, GH.HandleChat)
	register(d, GH.HandleLeave)
}

func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, p *GameActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType == nil {
		panic("dispatcher req type cannot be nil")
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, p *GameActor, req messages.GameMessage) {
	if req == nil {
		respond(ctx, fail(transport.InvalidParam, "nil req"))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		respond(ctx, fail(transport.InvalidParam, "no handler for request body"))
		return
	}

	if bodyType != handler.reqType {
		respond(ctx, fail(transport.InvalidParam, "request body type mismatch"))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(p),
		reflect.ValueOf(req),
	})
}
