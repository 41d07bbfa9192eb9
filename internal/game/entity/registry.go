package entity

import (
	"fmt"
	"math/rand"
	"sync"

	"SixKingdoms/internal/game/entity/domain"
)

const (
	startingGold    = 1000
	spawnMin        = 20.0
	spawnMax        = 80.0
	starterInfantry = 20
	starterArcher   = 10
)

// Registry 在线玩家注册表。玩家记录归它独占所有，
// 会话 id 由外部提供（雪花 id），假定全局唯一。
type Registry struct {
	mu      sync.RWMutex
	players map[string]*domain.Player
	rng     *rand.Rand
}

func NewRegistry(rng *rand.Rand) *Registry {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Registry{
		players: make(map[string]*domain.Player),
		rng:     rng,
	}
}

// Create 为一个会话建档：
// - 阵营按“当前人数 mod 阵营数”轮转分配（加入顺序影响分布，不影响唯一性）
// - 出生点落在 [20,80]×[20,80]
// - 起始 1000 金币 + 20 步兵 + 10 弓兵（均 1 级）
// - 空名字回退为 Warrior_<id 前 4 位>
func (r *Registry) Create(sessionID, name string) *domain.Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		name = fmt.Sprintf("Warrior_%s", shortID(sessionID))
	}

	faction := domain.FactionByIndex(len(r.players))
	p := &domain.Player{
		ID:      sessionID,
		Name:    name,
		Faction: faction.Name,
		X:       spawnMin + r.rng.Float64()*(spawnMax-spawnMin),
		Y:       spawnMin + r.rng.Float64()*(spawnMax-spawnMin),
		Gold:    startingGold,
		Army: []*domain.Stack{
			{Type: domain.UnitInfantry, Count: starterInfantry, Level: 1},
			{Type: domain.UnitArcher, Count: starterArcher, Level: 1},
		},
	}
	r.players[sessionID] = p
	return p
}

func shortID(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[:4]
}

func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, sessionID)
}

func (r *Registry) Get(sessionID string) (*domain.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[sessionID]
	return p, ok
}

// List 返回当前全部玩家（快照切片，元素仍是注册表里的记录）。
func (r *Registry) List() []*domain.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
