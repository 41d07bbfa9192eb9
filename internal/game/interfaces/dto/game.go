package dto

import "SixKingdoms/internal/game/entity/domain"

// 出站载荷在这里统一收口：连接句柄、会话凭据永远不出现在
// 这些结构上，序列化边界即脱敏边界。

type Stack struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

type Player struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Faction string  `json:"faction"`
	Color   string  `json:"color"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Gold    int     `json:"gold"`
	Army    []Stack `json:"army"`
}

type Territory struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Owner  string  `json:"owner"`
	Type   string  `json:"type"`
	Income int     `json:"income"`
}

type InitResp struct {
	PlayerID    string      `json:"playerId"`
	Token       string      `json:"token"`
	Player      Player      `json:"player"`
	Players     []Player    `json:"players"`
	Territories []Territory `json:"territories"`
}

type PlayerJoinedPush struct {
	Player Player `json:"player"`
}

type PlayerLeftPush struct {
	PlayerID string `json:"playerId"`
}

type PlayerMovedPush struct {
	PlayerID string  `json:"playerId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type TickPush struct {
	Tick    int64    `json:"tick"`
	Players []Player `json:"players"`
}

type RecruitedResp struct {
	Player Player `json:"player"`
}

type GoldUpdatePush struct {
	Gold int `json:"gold"`
}

type ChatPush struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Faction  string `json:"faction"`
	Text     string `json:"text"`
}

type BattleResultResp struct {
	Winner       string `json:"winner"`
	Loser        string `json:"loser"`
	AttackPower  int    `json:"attackPower"`
	DefensePower int    `json:"defensePower"`
	Loot         int    `json:"loot"`
	Role         string `json:"role"`
}

type BattleOccurredPush struct {
	Attacker string `json:"attacker"`
	Defender string `json:"defender"`
	Winner   string `json:"winner"`
}

type ErrorPush struct {
	Message string `json:"message"`
}

type JoinReq struct {
	Name string `json:"name"`
}

type MoveReq struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type RecruitReq struct {
	UnitType string `json:"unitType"`
	Count    int    `json:"count"`
}

// AttackReq 的 territoryId 字段会被解析但不处理，领土归属不变更。
type AttackReq struct {
	TargetID    string `json:"targetId"`
	TerritoryID int    `json:"territoryId"`
}

type ChatReq struct {
	Text string `json:"text"`
}

func NewPlayer(p *domain.Player) Player {
	if p == nil {
		return Player{}
	}
	out := Player{
		ID:      p.ID,
		Name:    p.Name,
		Faction: p.Faction,
		Color:   p.Color(),
		X:       p.X,
		Y:       p.Y,
		Gold:    p.Gold,
		Army:    make([]Stack, 0, len(p.Army)),
	}
	for _, st := range p.Army {
		if st == nil {
			continue
		}
		out.Army = append(out.Army, Stack{Type: st.Type, Count: st.Count, Level: st.Level})
	}
	return out
}

func NewPlayers(players []*domain.Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		if p == nil {
			continue
		}
		out = append(out, NewPlayer(p))
	}
	return out
}

func NewTerritory(t *domain.Territory) Territory {
	if t == nil {
		return Territory{}
	}
	return Territory{
		ID:     t.ID,
		Name:   t.Name,
		X:      t.X,
		Y:      t.Y,
		Owner:  t.Owner,
		Type:   t.Type,
		Income: t.Income,
	}
}

func NewTerritories(territories []*domain.Territory) []Territory {
	out := make([]Territory, 0, len(territories))
	for _, t := range territories {
		if t == nil {
			continue
		}
		out = append(out, NewTerritory(t))
	}
	return out
}
