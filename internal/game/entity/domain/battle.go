package domain

// BattleResult 一次战斗的结算结果。瞬态：下发给相关方之后即丢弃，
// 不保留任何战斗历史实体。
type BattleResult struct {
	WinnerID     string
	LoserID      string
	WinnerName   string
	LoserName    string
	AttackPower  int
	DefensePower int
	Loot         int
}
