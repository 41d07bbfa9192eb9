package territory

import (
	"path/filepath"
	"runtime"

	"SixKingdoms/internal/shared/config"
)

type cfg struct {
	Name   string `json:"name" mapstructure:"name"`
	Type   string `json:"type" mapstructure:"type"`
	Income int    `json:"income" mapstructure:"income"`
}

type territoryConf struct {
	Title string `json:"title" mapstructure:"title"`
	Cfg   []cfg  `json:"cfg" mapstructure:"cfg"`
}

var TerritoryConf = territoryConf{}

func Load() {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("load territory config failed: runtime.Caller(0) error")
	}
	configPath := filepath.Join(filepath.Dir(file), "territory.json")
	config.Load(configPath, &TerritoryConf)
}

// Entry 是地块目录里的一条静态记录。
type Entry struct {
	Name   string
	Type   string
	Income int
}

// Entries 返回目录顺序固定的地块列表（生成世界时前 N 条会被预先分配给各阵营）。
func Entries() []Entry {
	out := make([]Entry, 0, len(TerritoryConf.Cfg))
	for _, c := range TerritoryConf.Cfg {
		out = append(out, Entry{Name: c.Name, Type: c.Type, Income: c.Income})
	}
	return out
}
