package actors

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"SixKingdoms/internal/game/broadcast"
	"SixKingdoms/internal/game/entity"
	"SixKingdoms/internal/game/interfaces/dto"
	"SixKingdoms/internal/game/service"
	"SixKingdoms/internal/shared/actor/messages"
	"SixKingdoms/internal/shared/session"
	"SixKingdoms/internal/shared/transport"
	"SixKingdoms/internal/shared/transport/ws"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

// GameActor 是世界状态的唯一写者：加入、移动、招募、战斗、聊天、
// 掉线、tick 全部以消息形式进它的邮箱，串行处理，实体上不加锁。
type GameActor struct {
	state      State
	world      *entity.World
	moveSvc    *service.MoveService
	battleSvc  *service.BattleService
	recruitSvc *service.RecruitService
	sessions   session.Manager
	bcast      *broadcast.Broadcaster
	dispatcher *Dispatcher
	// 每条连接只挂一个生命周期 watcher，重复 join 不叠加 goroutine
	watched   map[ws.WSConn]struct{}
	tickEvery time.Duration
	tickStop  chan struct{}
}

type worldTick struct{}

func (worldTick) NotInfluenceReceiveTimeout() {}

func NewGameActor(world *entity.World, battleSvc *service.BattleService,
	sessions session.Manager, tickEvery time.Duration) *GameActor {
	return &GameActor{
		state:      None,
		world:      world,
		moveSvc:    service.NewMoveService(world.MapSize()),
		battleSvc:  battleSvc,
		recruitSvc: service.NewRecruitService(),
		sessions:   sessions,
		bcast:      broadcast.NewBroadcaster(sessions),
		dispatcher: NewDispatcher(),
		watched:    make(map[ws.WSConn]struct{}),
		tickEvery:  tickEvery,
	}
}

func (p *GameActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Online
		p.startTickLoop(ctx)
		return
	case *actor.Stopping:
		p.stopTickLoop()
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopTickLoop()
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopTickLoop()
		p.state = Init
		return
	case worldTick:
		if p.state != Online {
			return
		}
		p.handleTick()
		return
	case messages.GameMessage:
		if msg == nil {
			respond(ctx, fail(transport.InvalidParam, "nil request"))
			return
		}
		if p.state != Online {
			respond(ctx, fail(transport.SystemError, "world not online"))
			return
		}
		p.dispatcher.Dispatch(ctx, p, msg)
	default:
		return
	}
}

func (p *GameActor) World() *entity.World {
	return p.world
}

// handleTick 推进世界一个 tick：到点发收益、到点广播全量快照。
func (p *GameActor) handleTick() {
	_, payout, snapshot := p.world.Advance()
	if payout {
		for _, e := range p.world.Payout() {
			p.bcast.SendTo(e.PlayerID, "gold_update", dto.GoldUpdatePush{Gold: e.Gold})
		}
	}
	if snapshot {
		p.bcast.Broadcast("tick", dto.TickPush{
			Tick:    p.world.Tick(),
			Players: dto.NewPlayers(p.world.Registry().List()),
		})
	}
}

func (p *GameActor) startTickLoop(ctx actor.Context) {
	if p.tickStop != nil {
		return
	}
	if p.tickEvery <= 0 {
		return
	}
	p.tickStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, worldTick{})
			case <-stop:
				return
			}
		}
	}(p.tickStop, p.tickEvery)
}

func (p *GameActor) stopTickLoop() {
	if p.tickStop == nil {
		return
	}
	close(p.tickStop)
	p.tickStop = nil
}

// respond 只在有等待方时应答，fire-and-forget 消息不产生死信。
func respond(ctx actor.Context, reply *messages.Reply) {
	if ctx.Sender() == nil {
		return
	}
	ctx.Respond(reply)
}

func fail(code int, message string) *messages.Reply {
	return &messages.Reply{
		Name: "error",
		Code: code,
		Msg:  dto.ErrorPush{Message: message},
	}
}

// silent 表示这条请求不回任何帧。
func silent() *messages.Reply {
	return &messages.Reply{}
}

func ok(name string, msg any) *messages.Reply {
	return &messages.Reply{Name: name, Code: transport.OK, Msg: msg}
}
