package domain

// Player 一个在线会话对应的玩家状态。
// 连接句柄不放在这里：conn 只存在于 session.Manager，
// 玩家记录本身永远不可能把连接序列化出去。
type Player struct {
	ID      string
	Name    string
	Faction string
	X       float64
	Y       float64
	Gold    int
	Army    []*Stack
}

// Color 阵营显示色（派生属性，不落在状态里）。
func (p *Player) Color() string {
	return FactionColor(p.Faction)
}

// Speed 当前军队移动速度。
func (p *Player) Speed() int {
	return ArmySpeed(p.Army)
}

// Power 当前军队战力。
func (p *Player) Power() int {
	return ArmyPower(p.Army)
}
