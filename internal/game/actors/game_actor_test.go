package actors

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"SixKingdoms/internal/game/entity"
	"SixKingdoms/internal/game/interfaces/dto"
	"SixKingdoms/internal/game/service"
	"SixKingdoms/internal/shared/actor/messages"
	"SixKingdoms/internal/shared/gameconfig/territory"
	"SixKingdoms/internal/shared/session"
	"SixKingdoms/internal/shared/transport/ws"
)

type fakeConn struct {
	mu     sync.Mutex
	pushes []pushRecord
	props  map[string]any
	done   chan struct{}
	once   sync.Once
}

type pushRecord struct {
	Name string
	Data any
}

func newFakeConn() *fakeConn {
	return &fakeConn{props: make(map[string]any), done: make(chan struct{})}
}

func (f *fakeConn) SetProperty(key string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.props[key] = value
}

func (f *fakeConn) GetProperty(key string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.props[key]
}

func (f *fakeConn) RemoveProperty(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.props, key)
}

func (f *fakeConn) Addr() string { return "fake" }

func (f *fakeConn) Push(name string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, pushRecord{Name: name, Data: data})
}

func (f *fakeConn) Close() {
	f.once.Do(func() { close(f.done) })
}

func (f *fakeConn) Done() <-chan struct{} { return f.done }

func (f *fakeConn) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.pushes))
	for _, p := range f.pushes {
		out = append(out, p.Name)
	}
	return out
}

func (f *fakeConn) count(name string) int {
	n := 0
	for _, got := range f.names() {
		if got == name {
			n++
		}
	}
	return n
}

var _ ws.WSConn = (*fakeConn)(nil)

func testEntries() []territory.Entry {
	return []territory.Entry{
		{Name: "临淄", Type: "city", Income: 150},
		{Name: "郢都", Type: "city", Income: 150},
		{Name: "蓟城", Type: "city", Income: 150},
		{Name: "阳翟", Type: "city", Income: 150},
		{Name: "邯郸", Type: "city", Income: 150},
		{Name: "大梁", Type: "city", Income: 150},
		{Name: "边陲小村", Type: "village", Income: 50},
	}
}

type worldFixture struct {
	world    *entity.World
	sessions session.Manager
	system   *protoactor.ActorSystem
	pid      *protoactor.PID
	actor    *GameActor
}

func newWorldFixture(t *testing.T, roll func() float64) *worldFixture {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	world := entity.NewWorld(testEntries(), 100, rng)
	sessMgr := session.NewSessMgr()

	battleSvc := service.NewBattleService(nil)
	if roll != nil {
		battleSvc = service.NewBattleServiceWithRoll(roll)
	}

	fx := &worldFixture{world: world, sessions: sessMgr}
	system := protoactor.NewActorSystem()
	// tickEvery=0：测试里不跑自走节拍，时序全部由消息驱动
	props := protoactor.PropsFromProducer(func() protoactor.Actor {
		fx.actor = NewGameActor(world, battleSvc, sessMgr, 0)
		return fx.actor
	})
	pid := system.Root.Spawn(props)
	t.Cleanup(func() {
		_ = system.Root.StopFuture(pid).Wait()
		system.Shutdown()
	})

	fx.system = system
	fx.pid = pid
	return fx
}

func (fx *worldFixture) request(t *testing.T, cmd messages.GameMessage) *messages.Reply {
	t.Helper()
	res, err := fx.system.Root.RequestFuture(fx.pid, cmd, 3*time.Second).Result()
	if err != nil {
		t.Fatalf("request future: %v", err)
	}
	reply, ok := res.(*messages.Reply)
	if !ok {
		t.Fatalf("期望 *messages.Reply, got=%T", res)
	}
	return reply
}

func (fx *worldFixture) join(t *testing.T, sid, name string, conn *fakeConn) dto.InitResp {
	t.Helper()
	reply := fx.request(t, &messages.JoinCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: sid},
		Name:            name,
		Conn:            conn,
	})
	if reply.Name != "init" {
		t.Fatalf("期望 init 应答, got=%s", reply.Name)
	}
	init, ok := reply.Msg.(dto.InitResp)
	if !ok {
		t.Fatalf("期望 InitResp, got=%T", reply.Msg)
	}
	return init
}

func TestJoin_返回init并广播player_joined(t *testing.T) {
	fx := newWorldFixture(t, nil)
	c1 := newFakeConn()
	c2 := newFakeConn()

	init1 := fx.join(t, "s1", "张三", c1)
	if init1.PlayerID != "s1" || init1.Player.Name != "张三" {
		t.Fatalf("init 玩家不对: %+v", init1.Player)
	}
	if len(init1.Players) != 1 || len(init1.Territories) != len(testEntries()) {
		t.Fatalf("init 世界快照不对: players=%d territories=%d",
			len(init1.Players), len(init1.Territories))
	}

	init2 := fx.join(t, "s2", "", c2)
	if init2.Player.Name == "" {
		t.Fatalf("期望空名字有回退名")
	}
	if len(init2.Players) != 2 {
		t.Fatalf("期望第二人能看到两人, got=%d", len(init2.Players))
	}
	if fx.world.Registry().Len() != 2 {
		t.Fatalf("期望注册表 2 人, got=%d", fx.world.Registry().Len())
	}

	if got := c1.count("player_joined"); got != 1 {
		t.Fatalf("期望先到者收到 1 次 player_joined, got=%d", got)
	}
	if got := c2.count("player_joined"); got != 0 {
		t.Fatalf("期望新人不收自己的 player_joined, got=%d", got)
	}
}

func TestJoin_同会话重复join幂等(t *testing.T) {
	fx := newWorldFixture(t, nil)
	c1 := newFakeConn()
	c2 := newFakeConn()

	fx.join(t, "s1", "张三", c1)
	fx.join(t, "s2", "李四", c2)
	before := c2.count("player_joined")

	again := fx.join(t, "s1", "张三", c1)
	if again.Player.Name != "张三" {
		t.Fatalf("期望复用原玩家, got=%+v", again.Player)
	}
	if fx.world.Registry().Len() != 2 {
		t.Fatalf("期望不重复建玩家, got=%d", fx.world.Registry().Len())
	}
	if got := c2.count("player_joined"); got != before {
		t.Fatalf("期望重复 join 不再广播, before=%d after=%d", before, got)
	}
}

func TestJoin_重复join不叠加连接watcher(t *testing.T) {
	fx := newWorldFixture(t, nil)
	c1 := newFakeConn()

	fx.join(t, "s1", "张三", c1)
	fx.join(t, "s1", "张三", c1)
	fx.join(t, "s1", "张三", c1)

	// actor 此刻空闲，读登记表安全
	if got := len(fx.actor.watched); got != 1 {
		t.Fatalf("期望同一连接只挂 1 个 watcher, got=%d", got)
	}
}

func TestJoin_换连接重连不被旧连接误踢(t *testing.T) {
	fx := newWorldFixture(t, nil)
	c1 := newFakeConn()
	fx.join(t, "s1", "张三", c1)

	// 换连接重连：旧连接被踢下线并关闭
	c2 := newFakeConn()
	fx.join(t, "s1", "张三", c2)
	select {
	case <-c1.Done():
	case <-time.After(3 * time.Second):
		t.Fatalf("期望旧连接被踢后关闭")
	}

	// 旧连接的关闭回调不应把在线玩家移出世界
	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		if _, found := fx.world.Registry().Get("s1"); !found {
			t.Fatalf("期望玩家仍在线")
		}
		time.Sleep(10 * time.Millisecond)
	}
	conn, ok := fx.sessions.GetConn("s1")
	if !ok || conn != c2 {
		t.Fatalf("期望会话指向新连接")
	}
}

func TestMove_应答和广播同一份修正后位置(t *testing.T) {
	fx := newWorldFixture(t, nil)
	c1 := newFakeConn()
	c2 := newFakeConn()
	fx.join(t, "s1", "张三", c1)
	fx.join(t, "s2", "李四", c2)

	reply := fx.request(t, &messages.MoveCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: "s1"},
		X:               1e9, Y: 1e9,
	})
	if reply.Name != "player_moved" {
		t.Fatalf("期望 player_moved 应答, got=%s", reply.Name)
	}
	moved, ok := reply.Msg.(dto.PlayerMovedPush)
	if !ok {
		t.Fatalf("期望 PlayerMovedPush, got=%T", reply.Msg)
	}
	if moved.X < 0 || moved.X > 100 || moved.Y < 0 || moved.Y > 100 {
		t.Fatalf("期望修正到地图内, got=(%v,%v)", moved.X, moved.Y)
	}

	p, _ := fx.world.Registry().Get("s1")
	if p.X != moved.X || p.Y != moved.Y {
		t.Fatalf("期望世界状态与应答一致")
	}
	if got := c2.count("player_moved"); got != 1 {
		t.Fatalf("期望他人收到 1 次 player_moved, got=%d", got)
	}
	if got := c1.count("player_moved"); got != 0 {
		t.Fatalf("期望本人不收广播（应答已带）, got=%d", got)
	}
}

func TestMove_未加入的会话静默忽略(t *testing.T) {
	fx := newWorldFixture(t, nil)
	reply := fx.request(t, &messages.MoveCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: "ghost"},
		X:               1, Y: 1,
	})
	if reply.Name != "" {
		t.Fatalf("期望静默应答, got=%s", reply.Name)
	}
}

func TestRecruit_失败只回error成功只回本人(t *testing.T) {
	fx := newWorldFixture(t, nil)
	c1 := newFakeConn()
	c2 := newFakeConn()
	fx.join(t, "s1", "张三", c1)
	fx.join(t, "s2", "李四", c2)

	// 1000 金币买 200 骑兵不够
	reply := fx.request(t, &messages.RecruitCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: "s1"},
		UnitType:        "cavalry", Count: 200,
	})
	if reply.Name != "error" {
		t.Fatalf("期望 error 应答, got=%s", reply.Name)
	}
	p, _ := fx.world.Registry().Get("s1")
	if p.Gold != 1000 {
		t.Fatalf("期望失败不扣钱, got=%d", p.Gold)
	}

	reply = fx.request(t, &messages.RecruitCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: "s1"},
		UnitType:        "cavalry", Count: 10,
	})
	if reply.Name != "recruited" {
		t.Fatalf("期望 recruited 应答, got=%s", reply.Name)
	}
	recruited, ok := reply.Msg.(dto.RecruitedResp)
	if !ok {
		t.Fatalf("期望 RecruitedResp, got=%T", reply.Msg)
	}
	if recruited.Player.Gold != 700 {
		t.Fatalf("期望扣 300, got=%d", recruited.Player.Gold)
	}
	if got := c2.count("recruited"); got != 0 {
		t.Fatalf("期望招募不广播, got=%d", got)
	}
}

func TestAttack_结果按角色单播旁观者收battle_occurred(t *testing.T) {
	fx := newWorldFixture(t, func() float64 { return 1.0 })
	c1 := newFakeConn()
	c2 := newFakeConn()
	c3 := newFakeConn()
	fx.join(t, "s1", "攻", c1)
	fx.join(t, "s2", "守", c2)
	fx.join(t, "s3", "路人", c3)

	// 摆位：actor 空闲时直接落位，避免依赖随机出生点
	a, _ := fx.world.Registry().Get("s1")
	d, _ := fx.world.Registry().Get("s2")
	a.X, a.Y = 50, 50
	d.X, d.Y = 52, 50

	reply := fx.request(t, &messages.AttackCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: "s1"},
		TargetID:        "s2",
	})
	if reply.Name != "battle_result" {
		t.Fatalf("期望 battle_result 应答, got=%s", reply.Name)
	}
	result, ok := reply.Msg.(dto.BattleResultResp)
	if !ok {
		t.Fatalf("期望 BattleResultResp, got=%T", reply.Msg)
	}
	if result.Role != "attacker" {
		t.Fatalf("期望攻方视角, got=%s", result.Role)
	}
	// 等战力乘数为 1：守方胜
	if result.Winner != "守" {
		t.Fatalf("期望守方胜, got=%s", result.Winner)
	}

	if got := c2.count("battle_result"); got != 1 {
		t.Fatalf("期望守方收 1 次 battle_result, got=%d", got)
	}
	if got := c3.count("battle_result"); got != 0 {
		t.Fatalf("期望旁观者不收 battle_result, got=%d", got)
	}
	if got := c3.count("battle_occurred"); got != 1 {
		t.Fatalf("期望旁观者收 1 次 battle_occurred, got=%d", got)
	}
	if got := c1.count("battle_occurred") + c2.count("battle_occurred"); got != 0 {
		t.Fatalf("期望当事双方不收 battle_occurred, got=%d", got)
	}
}

func TestAttack_边界情况(t *testing.T) {
	fx := newWorldFixture(t, nil)
	c1 := newFakeConn()
	fx.join(t, "s1", "张三", c1)

	reply := fx.request(t, &messages.AttackCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: "s1"},
		TargetID:        "s1",
	})
	if reply.Name != "error" {
		t.Fatalf("期望攻击自己回 error, got=%s", reply.Name)
	}

	// 目标不存在：过期引用，静默
	reply = fx.request(t, &messages.AttackCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: "s1"},
		TargetID:        "gone",
	})
	if reply.Name != "" {
		t.Fatalf("期望过期目标静默, got=%s", reply.Name)
	}

	c2 := newFakeConn()
	fx.join(t, "s2", "李四", c2)
	a, _ := fx.world.Registry().Get("s1")
	d, _ := fx.world.Registry().Get("s2")
	a.X, a.Y = 0, 0
	d.X, d.Y = 90, 90

	reply = fx.request(t, &messages.AttackCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: "s1"},
		TargetID:        "s2",
	})
	if reply.Name != "error" {
		t.Fatalf("期望超距回 error, got=%s", reply.Name)
	}
}

func TestChat_超长截断并广播(t *testing.T) {
	fx := newWorldFixture(t, nil)
	c1 := newFakeConn()
	c2 := newFakeConn()
	fx.join(t, "s1", "张三", c1)
	fx.join(t, "s2", "李四", c2)

	long := make([]rune, 0, 300)
	for i := 0; i < 300; i++ {
		long = append(long, '喂')
	}
	reply := fx.request(t, &messages.ChatCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: "s1"},
		Text:            string(long),
	})
	if reply.Name != "chat" {
		t.Fatalf("期望 chat 应答, got=%s", reply.Name)
	}
	chat, ok := reply.Msg.(dto.ChatPush)
	if !ok {
		t.Fatalf("期望 ChatPush, got=%T", reply.Msg)
	}
	if got := len([]rune(chat.Text)); got != chatMaxRunes {
		t.Fatalf("期望截断到 %d, got=%d", chatMaxRunes, got)
	}
	if chat.Name != "张三" {
		t.Fatalf("期望带发言人, got=%+v", chat)
	}
	if got := c2.count("chat"); got != 1 {
		t.Fatalf("期望他人收到 1 次 chat, got=%d", got)
	}
}

func TestChat_重复发送不去重(t *testing.T) {
	fx := newWorldFixture(t, nil)
	c1 := newFakeConn()
	c2 := newFakeConn()
	fx.join(t, "s1", "张三", c1)
	fx.join(t, "s2", "李四", c2)

	cmd := &messages.ChatCmd{
		GameBaseMessage: messages.GameBaseMessage{SessionId: "s1"},
		Text:            "全军出击",
	}
	fx.request(t, cmd)
	fx.request(t, cmd)

	if got := c2.count("chat"); got != 2 {
		t.Fatalf("期望同样的话广播两次, got=%d", got)
	}
}

func TestLeave_连接断开移除玩家并广播player_left(t *testing.T) {
	fx := newWorldFixture(t, nil)
	c1 := newFakeConn()
	c2 := newFakeConn()
	fx.join(t, "s1", "张三", c1)
	fx.join(t, "s2", "李四", c2)

	c1.Close()
	deadline := time.Now().Add(3 * time.Second)
	for fx.world.Registry().Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("等待离场清理超时")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, found := fx.world.Registry().Get("s1"); found {
		t.Fatalf("期望玩家已移除")
	}
	if got := c2.count("player_left"); got != 1 {
		t.Fatalf("期望收到 1 次 player_left, got=%d", got)
	}
}

func TestTick_快照与收益节拍(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	world := entity.NewWorld(testEntries(), 100, rng)
	sessMgr := session.NewSessMgr()
	p := NewGameActor(world, service.NewBattleService(nil), sessMgr, 0)

	c1 := newFakeConn()
	world.Registry().Create("s1", "张三")
	sessMgr.Bind("s1", "", c1)

	for i := 0; i < entity.IncomeEveryTicks; i++ {
		p.handleTick()
	}

	wantTicks := entity.IncomeEveryTicks / entity.SnapshotEveryTicks
	if got := c1.count("tick"); got != wantTicks {
		t.Fatalf("期望 %d 次快照, got=%d", wantTicks, got)
	}
	// 最后一次快照携带当前 tick 计数
	var lastTick dto.TickPush
	for _, rec := range c1.pushes {
		if rec.Name == "tick" {
			lastTick = rec.Data.(dto.TickPush)
		}
	}
	if lastTick.Tick != entity.IncomeEveryTicks {
		t.Fatalf("期望快照 tick=%d, got=%d", entity.IncomeEveryTicks, lastTick.Tick)
	}
	if got := c1.count("gold_update"); got != 1 {
		t.Fatalf("期望 1 次收益, got=%d", got)
	}

	player, _ := world.Registry().Get("s1")
	// 底薪 50 + 本阵营一座城 150/10
	if player.Gold != 1000+entity.BaseIncome+15 {
		t.Fatalf("期望收益入账 65, got=%d", player.Gold)
	}
}
