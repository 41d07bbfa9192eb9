package entity

import (
	"math/rand"

	"SixKingdoms/internal/game/entity/domain"
	"SixKingdoms/internal/shared/gameconfig/territory"
)

// 经济/快照节拍：每 tick 自增一次计数，
// 每 60 tick 发一次收益（参考间隔 500ms 下约 30s），
// 每 10 tick 广播一次全量快照（约 5s）。
const (
	IncomeEveryTicks   = 60
	SnapshotEveryTicks = 10
	BaseIncome         = 50
)

// World 世界聚合：玩家注册表 + 静态地块 + tick 计数。
// 只被 GameActor 单线程访问（所有变更都走它的邮箱）。
type World struct {
	registry    *Registry
	territories []*domain.Territory
	mapSize     float64
	tick        int64
}

// NewWorld 生成世界：地块目录固定，位置随机，
// 前 N 条（N=阵营数）按目录顺序预分配给各阵营。
func NewWorld(entries []territory.Entry, mapSize float64, rng *rand.Rand) *World {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	territories := make([]*domain.Territory, 0, len(entries))
	for i, e := range entries {
		owner := ""
		if i < domain.FactionCount() {
			owner = domain.FactionByIndex(i).Name
		}
		territories = append(territories, &domain.Territory{
			ID:     i + 1,
			Name:   e.Name,
			X:      rng.Float64() * mapSize,
			Y:      rng.Float64() * mapSize,
			Owner:  owner,
			Type:   e.Type,
			Income: e.Income,
		})
	}
	return &World{
		registry:    NewRegistry(rng),
		territories: territories,
		mapSize:     mapSize,
	}
}

func (w *World) Registry() *Registry {
	return w.registry
}

func (w *World) Territories() []*domain.Territory {
	return w.territories
}

func (w *World) MapSize() float64 {
	return w.mapSize
}

func (w *World) Tick() int64 {
	return w.tick
}

// Advance 推进一个 tick，返回推进后的计数与两个触发标记。
func (w *World) Advance() (tick int64, payout bool, snapshot bool) {
	w.tick++
	return w.tick, w.tick%IncomeEveryTicks == 0, w.tick%SnapshotEveryTicks == 0
}

// PayoutEntry 一次收益结算里单个玩家的入账。
type PayoutEntry struct {
	PlayerID string
	Gold     int
}

// Payout 给所有在线玩家发收益：固定底薪 + 本阵营地块收益的 1/10。
// 返回每人入账后的余额，用于逐人单播 gold_update。
func (w *World) Payout() []PayoutEntry {
	players := w.registry.List()
	out := make([]PayoutEntry, 0, len(players))
	for _, p := range players {
		income := BaseIncome
		for _, t := range w.territories {
			if t.Owner != "" && t.Owner == p.Faction {
				income += t.Income / 10
			}
		}
		p.Gold += income
		out = append(out, PayoutEntry{PlayerID: p.ID, Gold: p.Gold})
	}
	return out
}
