package entity

import (
	"math/rand"
	"testing"

	"SixKingdoms/internal/shared/gameconfig/territory"
)

func testEntries() []territory.Entry {
	return []territory.Entry{
		{Name: "临淄", Type: "city", Income: 150},
		{Name: "郢都", Type: "city", Income: 150},
		{Name: "蓟城", Type: "city", Income: 150},
		{Name: "新郑", Type: "city", Income: 150},
		{Name: "邯郸", Type: "city", Income: 150},
		{Name: "大梁", Type: "city", Income: 150},
		{Name: "桃林村", Type: "village", Income: 50},
	}
}

func newTestWorld() *World {
	return NewWorld(testEntries(), 100, rand.New(rand.NewSource(7)))
}

func TestNewWorld_前六块地预分配给六个阵营(t *testing.T) {
	w := newTestWorld()
	ts := w.Territories()
	if len(ts) != 7 {
		t.Fatalf("期望 7 块地, got=%d", len(ts))
	}
	seen := make(map[string]bool)
	for i := 0; i < 6; i++ {
		owner := ts[i].Owner
		if owner == "" {
			t.Fatalf("期望第 %d 块地有主, got 无主", i)
		}
		if seen[owner] {
			t.Fatalf("期望前 6 块地归属互不相同, %s 重复", owner)
		}
		seen[owner] = true
	}
	if ts[6].Owner != "" {
		t.Fatalf("期望第 7 块地无主, got=%s", ts[6].Owner)
	}
	for _, tr := range ts {
		if tr.X < 0 || tr.X > 100 || tr.Y < 0 || tr.Y > 100 {
			t.Fatalf("期望地块位置落在地图内, got=(%v,%v)", tr.X, tr.Y)
		}
	}
}

func TestAdvance_从0推60次_恰好一次收益且第60次快照同时触发(t *testing.T) {
	w := newTestWorld()
	payouts := 0
	snapshots := 0
	var lastPayout, lastSnapshot bool
	for i := 0; i < 60; i++ {
		_, payout, snapshot := w.Advance()
		if payout {
			payouts++
		}
		if snapshot {
			snapshots++
		}
		lastPayout, lastSnapshot = payout, snapshot
	}
	if payouts != 1 {
		t.Fatalf("期望 60 tick 恰好一次收益, got=%d", payouts)
	}
	if snapshots != 6 {
		t.Fatalf("期望 60 tick 内 6 次快照, got=%d", snapshots)
	}
	if !lastPayout || !lastSnapshot {
		t.Fatalf("期望第 60 tick 收益与快照同时触发, payout=%v snapshot=%v", lastPayout, lastSnapshot)
	}
}

func TestPayout_底薪加本阵营地块收益十分之一(t *testing.T) {
	w := newTestWorld()
	p := w.Registry().Create("s1", "a")
	// 第 0 个加入者阵营为 Factions[0]，恰好拥有第 1 块地（income 150）
	before := p.Gold

	entries := w.Payout()
	if len(entries) != 1 {
		t.Fatalf("期望一条入账, got=%d", len(entries))
	}
	want := before + 50 + 150/10
	if p.Gold != want {
		t.Fatalf("期望入账后余额 %d, got=%d", want, p.Gold)
	}
	if entries[0].Gold != p.Gold {
		t.Fatalf("期望入账条目返回新余额, got=%d", entries[0].Gold)
	}
}
