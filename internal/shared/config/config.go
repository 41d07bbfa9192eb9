package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load 加载一个静态 JSON 配置表到目标结构体（游戏数值表专用，不参与热更）。
func Load(configPath string, out any) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("read game config %s: %w", configPath, err))
	}
	if err := v.Unmarshal(out); err != nil {
		panic(fmt.Errorf("unmarshal game config %s: %w", configPath, err))
	}
}
