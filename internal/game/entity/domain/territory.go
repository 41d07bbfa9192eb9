package domain

// 地块类型。
const (
	TerritoryVillage = "village"
	TerritoryCastle  = "castle"
	TerritoryCity    = "city"
)

// Territory 每次进程启动生成一次的静态地块。
// Owner 是阵营名的弱引用（空串表示无主），只参与 tick 收益计算，
// 本设计里生成之后不再变更。
type Territory struct {
	ID     int
	Name   string
	X      float64
	Y      float64
	Owner  string
	Type   string
	Income int
}
