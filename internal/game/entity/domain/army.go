package domain

// 兵种。
const (
	UnitInfantry = "infantry"
	UnitArcher   = "archer"
	UnitCavalry  = "cavalry"
)

type unitStat struct {
	Attack  int
	Defense int
	Cost    int
}

// 兵种基础数值表。攻防参与战力计算，cost 是单兵招募价。
var unitStats = map[string]unitStat{
	UnitInfantry: {Attack: 10, Defense: 15, Cost: 10},
	UnitArcher:   {Attack: 15, Defense: 5, Cost: 15},
	UnitCavalry:  {Attack: 20, Defense: 10, Cost: 30},
}

// Stack 是同兵种同等级的一摞单位。每个玩家每兵种至多一摞。
type Stack struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// KnownUnitType 判断兵种是否在封闭集合内。
func KnownUnitType(unitType string) bool {
	_, ok := unitStats[unitType]
	return ok
}

// UnitCost 返回兵种单兵招募价格；未知兵种返回 ok=false。
func UnitCost(unitType string) (int, bool) {
	s, ok := unitStats[unitType]
	if !ok {
		return 0, false
	}
	return s.Cost, true
}

// ArmySpeed 计算军队移动速度：
// 有骑兵（count>0）为 2；否则非空军队为 1；空军队为 2（无兵无辎重，跑得最快）。
func ArmySpeed(army []*Stack) int {
	if len(army) == 0 {
		return 2
	}
	for _, s := range army {
		if s.Type == UnitCavalry && s.Count > 0 {
			return 2
		}
	}
	return 1
}

// ArmyPower 计算军队战力：sum((攻+防) * 数量 * 等级)。纯函数，无随机。
func ArmyPower(army []*Stack) int {
	power := 0
	for _, s := range army {
		stat, ok := unitStats[s.Type]
		if !ok {
			continue
		}
		power += (stat.Attack + stat.Defense) * s.Count * s.Level
	}
	return power
}

// PruneArmy 剔除数量为 0 的摞。任何军队变更之后都要调用。
func PruneArmy(army []*Stack) []*Stack {
	out := army[:0]
	for _, s := range army {
		if s.Count > 0 {
			out = append(out, s)
		}
	}
	return out
}
