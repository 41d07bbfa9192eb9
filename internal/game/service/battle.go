package service

import (
	"math"
	"math/rand"
	"time"

	"SixKingdoms/internal/game/entity/domain"
)

// InteractRadius 交战半径：超过这个距离的攻击请求由调用方拒绝，
// 解算器本身假定距离已经校验过。
const InteractRadius = 5.0

// BattleService 战斗解算器。双方战力各乘一个独立的 U(0.8,1.2)
// 随机系数，让原始战力不直接决定胜负。
type BattleService struct {
	roll func() float64
}

func NewBattleService(rng *rand.Rand) *BattleService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &BattleService{
		roll: func() float64 { return 0.8 + rng.Float64()*0.4 },
	}
}

// NewBattleServiceWithRoll 用自定义乘数来源构造（测试/复盘用）。
func NewBattleServiceWithRoll(roll func() float64) *BattleService {
	return &BattleService{roll: roll}
}

// Resolve 结算一场战斗并原地修改双方军队与金币。
// 规则：
// - 胜者为攻方当且仅当 attackPower 严格大于 defensePower（平局判守方胜）
// - ratio = 小/大 战力，刻画战斗胶着程度
// - 胜方损兵比例 = ratio*0.3；败方 = 0.5+(1-ratio)*0.5（至少损一半）
// - 每摞数量按比例缩减并向下取整，0 摞双方都要剔除
// - 战利品 = floor(败方金币*0.3)，败方转给胜方，两人总金币守恒
func (s *BattleService) Resolve(attacker, defender *domain.Player) *domain.BattleResult {
	attackPower := float64(domain.ArmyPower(attacker.Army)) * s.roll()
	defensePower := float64(domain.ArmyPower(defender.Army)) * s.roll()

	winner, loser := defender, attacker
	if attackPower > defensePower {
		winner, loser = attacker, defender
	}

	minP := math.Min(attackPower, defensePower)
	maxP := math.Max(attackPower, defensePower)
	ratio := 1.0
	if maxP > 0 {
		ratio = minP / maxP
	}

	winnerLoss := ratio * 0.3
	loserLoss := 0.5 + (1-ratio)*0.5

	applyLoss(winner, winnerLoss)
	applyLoss(loser, loserLoss)

	loot := int(math.Floor(float64(loser.Gold) * 0.3))
	loser.Gold -= loot
	winner.Gold += loot

	return &domain.BattleResult{
		WinnerID:     winner.ID,
		LoserID:      loser.ID,
		WinnerName:   winner.Name,
		LoserName:    loser.Name,
		AttackPower:  int(attackPower),
		DefensePower: int(defensePower),
		Loot:         loot,
	}
}

func applyLoss(p *domain.Player, lossFraction float64) {
	for _, stack := range p.Army {
		stack.Count = int(math.Floor(float64(stack.Count) * (1 - lossFraction)))
	}
	p.Army = domain.PruneArmy(p.Army)
}

// WithinRange 判断两名玩家是否在交战半径内。
func WithinRange(a, b *domain.Player) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= InteractRadius
}
