package serverconfig

type Config struct {
	GameServer GameServerConfig `yaml:"gameserver" mapstructure:"gameserver"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Logic      LogicConfig      `yaml:"logic" mapstructure:"logic"`
}

type GameServerConfig struct {
	Host       string `yaml:"host" mapstructure:"host"`
	Port       int    `yaml:"port" mapstructure:"port"`
	NeedSecret bool   `yaml:"need_secret" mapstructure:"need_secret"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type LogicConfig struct {
	MapSize        float64 `yaml:"map_size" mapstructure:"map_size"`
	TickIntervalMS int     `yaml:"tick_interval_ms" mapstructure:"tick_interval_ms"`
	ServerID       int64   `yaml:"server_id" mapstructure:"server_id"`
}

// 缺省的逻辑参数；配置文件里没写时回填。
const (
	DefaultMapSize        = 100.0
	DefaultTickIntervalMS = 500
)

func (c *LogicConfig) ApplyDefaults() {
	if c.MapSize <= 0 {
		c.MapSize = DefaultMapSize
	}
	if c.TickIntervalMS <= 0 {
		c.TickIntervalMS = DefaultTickIntervalMS
	}
}
