package service

import (
	"math"

	"SixKingdoms/internal/game/entity/domain"
)

// 每 tick 移动预算 = 军速 * MoveBudgetPerSpeed。
const MoveBudgetPerSpeed = 5.0

// MoveService 移动校验器。客户端不可信：超速和越界都静默修正，
// 轻微非法输入降级处理而不是断开会话。
type MoveService struct {
	MapSize float64
}

func NewMoveService(mapSize float64) *MoveService {
	return &MoveService{MapSize: mapSize}
}

// Apply 把请求的绝对目标位置套上速度预算和地图边界后落到玩家身上，
// 返回修正后的位置。永不拒绝，只缩短。
func (s *MoveService) Apply(p *domain.Player, targetX, targetY float64) (float64, float64) {
	dx := targetX - p.X
	dy := targetY - p.Y
	dist := math.Hypot(dx, dy)

	budget := float64(domain.ArmySpeed(p.Army)) * MoveBudgetPerSpeed
	if dist > budget && dist > 0 {
		// 沿原方向缩到预算长度
		scale := budget / dist
		targetX = p.X + dx*scale
		targetY = p.Y + dy*scale
	}

	p.X = clamp(targetX, 0, s.MapSize)
	p.Y = clamp(targetY, 0, s.MapSize)
	return p.X, p.Y
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
