package service

import (
	"errors"
	"testing"

	"SixKingdoms/internal/game/entity/domain"
)

func TestRecruit_金币不足整单拒绝不改状态(t *testing.T) {
	s := NewRecruitService()
	p := testPlayer("a", 100, []*domain.Stack{
		{Type: domain.UnitInfantry, Count: 5, Level: 1},
	})

	// 11 * 10 = 110 > 100
	err := s.Recruit(p, domain.UnitInfantry, 11)
	if !errors.Is(err, ErrGoldNotEnough) {
		t.Fatalf("期望金币不足错误, got=%v", err)
	}
	if p.Gold != 100 || p.Army[0].Count != 5 {
		t.Fatalf("期望失败不改状态, gold=%d count=%d", p.Gold, p.Army[0].Count)
	}
}

func TestRecruit_天文数字的count按金币不足拒绝(t *testing.T) {
	s := NewRecruitService()
	p := testPlayer("a", 1000, []*domain.Stack{
		{Type: domain.UnitInfantry, Count: 5, Level: 1},
	})

	// 1e18 * 10 会把 int64 乘溢出成负数，扣款门禁不能被它绕过
	err := s.Recruit(p, domain.UnitInfantry, 1_000_000_000_000_000_000)
	if !errors.Is(err, ErrGoldNotEnough) {
		t.Fatalf("期望溢出量级的请求按金币不足拒绝, got=%v", err)
	}
	if p.Gold != 1000 {
		t.Fatalf("期望金币原封不动, got=%d", p.Gold)
	}
	if len(p.Army) != 1 || p.Army[0].Count != 5 {
		t.Fatalf("期望军队原封不动, got=%+v", p.Army)
	}
}

func TestRecruit_恰好够花到底(t *testing.T) {
	s := NewRecruitService()
	p := testPlayer("a", 100, nil)

	// 10 * 10 = 100，贴着预算
	if err := s.Recruit(p, domain.UnitInfantry, 10); err != nil {
		t.Fatalf("期望恰好够时成功, got=%v", err)
	}
	if p.Gold != 0 {
		t.Fatalf("期望金币花光, got=%d", p.Gold)
	}
}

func TestRecruit_并入同兵种已有摞(t *testing.T) {
	s := NewRecruitService()
	p := testPlayer("a", 1000, []*domain.Stack{
		{Type: domain.UnitArcher, Count: 10, Level: 2},
	})

	if err := s.Recruit(p, domain.UnitArcher, 4); err != nil {
		t.Fatalf("unexpected err=%v", err)
	}
	if len(p.Army) != 1 || p.Army[0].Count != 14 {
		t.Fatalf("期望并入已有摞, army=%+v", p.Army)
	}
	if p.Gold != 1000-4*15 {
		t.Fatalf("期望扣 60, gold=%d", p.Gold)
	}
}

func TestRecruit_新兵种追加一级新摞(t *testing.T) {
	s := NewRecruitService()
	p := testPlayer("a", 1000, []*domain.Stack{
		{Type: domain.UnitInfantry, Count: 20, Level: 1},
	})

	if err := s.Recruit(p, domain.UnitCavalry, 3); err != nil {
		t.Fatalf("unexpected err=%v", err)
	}
	if len(p.Army) != 2 {
		t.Fatalf("期望追加新摞, army=%+v", p.Army)
	}
	last := p.Army[1]
	if last.Type != domain.UnitCavalry || last.Count != 3 || last.Level != 1 {
		t.Fatalf("期望 3 个 1 级骑兵, got=%+v", last)
	}
	if p.Gold != 1000-3*30 {
		t.Fatalf("期望扣 90, gold=%d", p.Gold)
	}
}

func TestRecruit_非法入参(t *testing.T) {
	s := NewRecruitService()
	p := testPlayer("a", 1000, nil)

	if err := s.Recruit(p, "catapult", 1); !errors.Is(err, ErrUnknownUnitType) {
		t.Fatalf("期望未知兵种错误, got=%v", err)
	}
	if err := s.Recruit(p, domain.UnitInfantry, 0); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("期望数量无效错误, got=%v", err)
	}
	if err := s.Recruit(p, domain.UnitInfantry, -5); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("期望数量无效错误, got=%v", err)
	}
	if p.Gold != 1000 || len(p.Army) != 0 {
		t.Fatalf("期望失败不改状态, gold=%d army=%v", p.Gold, p.Army)
	}
}
