package service

import "SixKingdoms/internal/game/entity/domain"

// RecruitService 招募：金币不够就整单拒绝，不做部分成交。
type RecruitService struct{}

func NewRecruitService() *RecruitService {
	return &RecruitService{}
}

// Recruit 校验并执行招募：扣金币，并入同兵种已有摞，
// 没有同兵种摞就追加一摞 1 级新摞。失败时不改任何状态。
func (s *RecruitService) Recruit(p *domain.Player, unitType string, count int) error {
	cost, ok := domain.UnitCost(unitType)
	if !ok {
		return ErrUnknownUnitType
	}
	if count <= 0 {
		return ErrInvalidCount
	}
	// 先用除法判断付不付得起再算总价，天文数字的 count 不会把乘法
	// 溢出成负数绕过扣款
	if count > p.Gold/cost {
		return ErrGoldNotEnough
	}
	total := count * cost

	p.Gold -= total
	for _, stack := range p.Army {
		if stack.Type == unitType {
			stack.Count += count
			return nil
		}
	}
	p.Army = append(p.Army, &domain.Stack{Type: unitType, Count: count, Level: 1})
	return nil
}
