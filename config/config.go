package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

// Config 是进程级配置（支持 YAML），覆盖引擎参数与外部依赖地址。
//
// 示例：
//
//	feed:
//	  recall_limit: 100
//	  rank_limit: 50
//	  parallel_recall: true
//	redis:
//	  addr: "127.0.0.1:6379"
//	  db: 0
//	feast:
//	  host: "127.0.0.1"
//	  port: 6565
//	  project: "vive"
//	log:
//	  level: "info"
type Config struct {
	Feed core.FeedConfig `yaml:"feed"`

	Redis RedisConfig `yaml:"redis"`
	Feast FeastConfig `yaml:"feast"`
	Log   LogConfig   `yaml:"log"`
}

// RedisConfig 是候选存储的 Redis 连接配置。Addr 为空表示使用内存存储。
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// FeastConfig 是实时特征服务配置。Host 为空表示不启用。
type FeastConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Project     string        `yaml:"project"`
	FeatureRefs []string      `yaml:"feature_refs"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// UnmarshalYAML 解析 Feast 配置，cache_ttl 写成 Go duration 字符串（如 "5m"）。
func (c *FeastConfig) UnmarshalYAML(value *yaml.Node) error {
	type raw struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Project     string   `yaml:"project"`
		FeatureRefs []string `yaml:"feature_refs"`
		CacheTTL    string   `yaml:"cache_ttl"`
	}
	var r raw
	if err := value.Decode(&r); err != nil {
		return err
	}
	c.Host = r.Host
	c.Port = r.Port
	c.Project = r.Project
	c.FeatureRefs = r.FeatureRefs
	if r.CacheTTL != "" {
		d, err := time.ParseDuration(r.CacheTTL)
		if err != nil {
			return fmt.Errorf("cache_ttl: %w", err)
		}
		c.CacheTTL = d
	}
	return nil
}

// LogConfig 是日志配置。
type LogConfig struct {
	// Level 取 zerolog 级别名：debug/info/warn/error，空值按 info。
	Level string `yaml:"level"`
}

// Load 从 YAML 文件加载配置，未出现的字段取默认值。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	cfg.Feed.Normalize()
	return &cfg, nil
}

// Default 返回全默认配置。
func Default() *Config {
	cfg := &Config{}
	cfg.Feed.Normalize()
	return cfg
}
