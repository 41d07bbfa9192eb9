package domain

// Faction 阵营。六国之一，决定显示颜色和地块收益归属，不是所有权实体。
type Faction struct {
	Name  string
	Color string
}

// Factions 固定阵营表。加入时按 join 顺序轮转分配，保证各阵营人数均匀。
var Factions = []Faction{
	{Name: "Qi", Color: "#d4a017"},
	{Name: "Chu", Color: "#b03a2e"},
	{Name: "Yan", Color: "#2e86c1"},
	{Name: "Han", Color: "#7d3c98"},
	{Name: "Zhao", Color: "#1e8449"},
	{Name: "Wei", Color: "#34495e"},
}

func FactionCount() int {
	return len(Factions)
}

// FactionByIndex 按轮转下标取阵营。
func FactionByIndex(i int) Faction {
	return Factions[i%len(Factions)]
}

// FactionColor 按名字取颜色；未知阵营返回空串。
func FactionColor(name string) string {
	for _, f := range Factions {
		if f.Name == name {
			return f.Color
		}
	}
	return ""
}
