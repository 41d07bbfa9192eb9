package actors

import (
	"errors"

	"github.com/asynkron/protoactor-go/actor"

	"SixKingdoms/internal/game/interfaces/dto"
	"SixKingdoms/internal/game/service"
	"SixKingdoms/internal/shared/actor/messages"
	"SixKingdoms/internal/shared/security"
	"SixKingdoms/internal/shared/transport"
	"SixKingdoms/modules/kit/errx"
)

// 聊天文本超长时按 rune 截断到这个长度。
const chatMaxRunes = 200

type GameHandler struct{}

var GH = &GameHandler{}

// HandleJoin 进入世界：建玩家、绑会话、发凭据，
// 给本人回 init，给其他人广播 player_joined。
// 同一会话重复 join 幂等：只换绑连接，不再造玩家、不再广播。
func (h *GameHandler) HandleJoin(ctx actor.Context, p *GameActor, cmd *messages.JoinCmd) {
	if cmd == nil || cmd.Conn == nil {
		respond(ctx, fail(transport.InvalidParam, "join 缺少连接"))
		return
	}
	sid := cmd.SessionID()

	player, existed := p.world.Registry().Get(sid)
	if !existed {
		player = p.world.Registry().Create(sid, cmd.Name)
	}

	// 凭据签发失败不拦加入：身份本来就只是会话 id，token 是增值信息
	token, err := security.Award(sid)
	if err != nil {
		ctx.Logger().Warn("mint session token failed", "session_id", sid, "err", err)
	}
	p.sessions.Bind(sid, token, cmd.Conn)

	// 连接断开后由 actor 自己收口清理，watcher 不直接摸世界状态；
	// 同一条连接只挂一次
	if _, watching := p.watched[cmd.Conn]; !watching {
		p.watched[cmd.Conn] = struct{}{}
		self := ctx.Self()
		root := ctx.ActorSystem().Root
		go func() {
			<-cmd.Conn.Done()
			root.Send(self, &messages.LeaveCmd{
				GameBaseMessage: messages.GameBaseMessage{SessionId: sid},
				Conn:            cmd.Conn,
			})
		}()
	}

	// 先广播后应答：请求方拿到应答时，世界对其他人已经一致
	if !existed {
		p.bcast.BroadcastExcept("player_joined", dto.PlayerJoinedPush{
			Player: dto.NewPlayer(player),
		}, sid)
	}

	respond(ctx, ok("init", dto.InitResp{
		PlayerID:    player.ID,
		Token:       token,
		Player:      dto.NewPlayer(player),
		Players:     dto.NewPlayers(p.world.Registry().List()),
		Territories: dto.NewTerritories(p.world.Territories()),
	}))
}

// HandleMove 套速度预算与地图边界后落位，给所有人发 player_moved
// （本人通过直接应答拿到同一份载荷）。
func (h *GameHandler) HandleMove(ctx actor.Context, p *GameActor, cmd *messages.MoveCmd) {
	player, found := p.world.Registry().Get(cmd.SessionID())
	if !found {
		respond(ctx, silent())
		return
	}

	x, y := p.moveSvc.Apply(player, cmd.X, cmd.Y)
	payload := dto.PlayerMovedPush{PlayerID: player.ID, X: x, Y: y}
	p.bcast.BroadcastExcept("player_moved", payload, player.ID)
	respond(ctx, ok("player_moved", payload))
}

// HandleRecruit 招募只影响本人：成功单播 recruited，失败单播 error。
func (h *GameHandler) HandleRecruit(ctx actor.Context, p *GameActor, cmd *messages.RecruitCmd) {
	player, found := p.world.Registry().Get(cmd.SessionID())
	if !found {
		respond(ctx, silent())
		return
	}

	if err := p.recruitSvc.Recruit(player, cmd.UnitType, cmd.Count); err != nil {
		respond(ctx, bizFail(err))
		return
	}
	respond(ctx, ok("recruited", dto.RecruitedResp{Player: dto.NewPlayer(player)}))
}

// HandleAttack 结算一场战斗：双方各收一份带己方视角 role 的
// battle_result，旁观者收 battle_occurred。失效目标静默忽略。
func (h *GameHandler) HandleAttack(ctx actor.Context, p *GameActor, cmd *messages.AttackCmd) {
	attacker, found := p.world.Registry().Get(cmd.SessionID())
	if !found {
		respond(ctx, silent())
		return
	}

	if cmd.TargetID == attacker.ID {
		respond(ctx, bizFail(service.ErrCannotAttackSelf))
		return
	}
	defender, found := p.world.Registry().Get(cmd.TargetID)
	if !found {
		// 目标刚下线或从未存在：视为过期引用，不回错误
		respond(ctx, silent())
		return
	}
	if !service.WithinRange(attacker, defender) {
		respond(ctx, bizFail(service.ErrTargetOutOfRange))
		return
	}

	result := p.battleSvc.Resolve(attacker, defender)

	resultFor := func(role string) dto.BattleResultResp {
		return dto.BattleResultResp{
			Winner:       result.WinnerName,
			Loser:        result.LoserName,
			AttackPower:  result.AttackPower,
			DefensePower: result.DefensePower,
			Loot:         result.Loot,
			Role:         role,
		}
	}
	p.bcast.SendTo(defender.ID, "battle_result", resultFor("defender"))
	p.bcast.BroadcastExcept("battle_occurred", dto.BattleOccurredPush{
		Attacker: attacker.Name,
		Defender: defender.Name,
		Winner:   result.WinnerName,
	}, attacker.ID, defender.ID)
	respond(ctx, ok("battle_result", resultFor("attacker")))
}

// HandleChat 聊天广播给所有人，本人通过直接应答拿到同一份载荷。
func (h *GameHandler) HandleChat(ctx actor.Context, p *GameActor, cmd *messages.ChatCmd) {
	player, found := p.world.Registry().Get(cmd.SessionID())
	if !found {
		respond(ctx, silent())
		return
	}

	text := cmd.Text
	if runes := []rune(text); len(runes) > chatMaxRunes {
		text = string(runes[:chatMaxRunes])
	}
	payload := dto.ChatPush{
		PlayerID: player.ID,
		Name:     player.Name,
		Faction:  player.Faction,
		Text:     text,
	}
	p.bcast.BroadcastExcept("chat", payload, player.ID)
	respond(ctx, ok("chat", payload))
}

// HandleLeave 连接生命周期收口：只有会话当前的连接真断了才移除
// 玩家；换连接重连的旧连接回调不动世界。
func (h *GameHandler) HandleLeave(ctx actor.Context, p *GameActor, cmd *messages.LeaveCmd) {
	sid := cmd.SessionID()
	// 发出 LeaveCmd 的连接已经死了，watcher 登记一并清掉
	delete(p.watched, cmd.Conn)
	if cur, online := p.sessions.GetConn(sid); online && cur != cmd.Conn {
		return
	}

	if _, found := p.world.Registry().Get(sid); !found {
		return
	}
	p.world.Registry().Remove(sid)
	p.sessions.UnbindSession(sid)
	p.bcast.Broadcast("player_left", dto.PlayerLeftPush{PlayerID: sid})
}

// bizFail 把业务错误映射为 error 帧；非业务错误一律按系统错误兜底。
func bizFail(err error) *messages.Reply {
	var e *errx.Error
	if errors.As(err, &e) && e.IsBiz() {
		return fail(transport.BizReject, e.Msg())
	}
	return fail(transport.SystemError, "服务器内部错误")
}
