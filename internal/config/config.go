package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Review ReviewConfig `toml:"review"`
	Schema SchemaConfig `toml:"schema"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// ReviewConfig 复核业务配置
type ReviewConfig struct {
	// 触发汇总增量的决策哨兵值（比较时大小写不敏感）
	DecisionSentinel string `toml:"decision_sentinel"`
	// 严格模式下数值转换失败会中止整批更新
	StrictCoercion bool `toml:"strict_coercion"`
}

// SchemaConfig 列名约定
// 列是否真实存在于文件中在加载时发现，这里只约定名字（匹配大小写不敏感）
type SchemaConfig struct {
	GroupColumn    string `toml:"group_column"`
	PatternColumn  string `toml:"pattern_column"`
	DecisionColumn string `toml:"decision_column"`
	ClusterColumn  string `toml:"cluster_column"`
	CountColumn    string `toml:"count_column"`

	SummaryCluster  string `toml:"summary_cluster"`
	SummaryIncrease string `toml:"summary_increase"`
	SummaryDecrease string `toml:"summary_decrease"`
	SummaryStatus   string `toml:"summary_status"`
	SummaryScope    string `toml:"summary_scope"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20372,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Review: ReviewConfig{
			DecisionSentinel: "No Change",
			StrictCoercion:   false,
		},
		Schema: SchemaConfig{
			GroupColumn:    "group_id",
			PatternColumn:  "pattern",
			DecisionColumn: "decision",
			ClusterColumn:  "cluster",
			CountColumn:    "ticket_count",

			SummaryCluster:  "cluster",
			SummaryIncrease: "increase",
			SummaryDecrease: "decrease",
			SummaryStatus:   "status",
			SummaryScope:    "scope",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件不存在，使用默认配置
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	// 环境变量覆盖（用于 E2E / 本地运行）
	if v := os.Getenv("REVIEWDESK_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}

	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在并返回路径
// 相对路径挂在可执行文件同目录下
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}
