package core

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// FeedConfig 是推荐引擎的配置参数，零值字段由 Normalize 填充默认值。
type FeedConfig struct {
	// RecallLimit 召回阶段按优先级累积的最大候选数，达到后跳过后续策略。
	RecallLimit int `yaml:"recall_limit"`

	// RankLimit 排序阶段每个候选族的输出上限。
	RankLimit int `yaml:"rank_limit"`

	// RecentViewWindow 最近浏览排除窗口（同时作为"感兴趣的人"的访问窗口）。
	RecentViewWindow time.Duration `yaml:"recent_view_window"`

	// StrategyTimeout 单个召回策略的超时时间；超时按策略失败处理。
	StrategyTimeout time.Duration `yaml:"strategy_timeout"`

	// UserRatio:ContentRatio 是混排比例（默认 2:1，用户名片优先）。
	UserRatio    int `yaml:"user_ratio"`
	ContentRatio int `yaml:"content_ratio"`

	// DedupThreshold 内容标题相似度去重阈值。
	DedupThreshold float64 `yaml:"dedup_threshold"`

	// SeedPublisherID 冷启动专用内容发布者。
	SeedPublisherID string `yaml:"seed_publisher_id"`

	// CreatorBoostLimit 社群模式下群主内容的置顶条数上限。
	CreatorBoostLimit int `yaml:"creator_boost_limit"`

	// ParallelRecall 为 true 时召回策略并发执行（优先级合并语义不变）。
	ParallelRecall bool `yaml:"parallel_recall"`
}

// 默认配置参数。
const (
	DefaultRecallLimit       = 100
	DefaultRankLimit         = 50
	DefaultRecentViewDays    = 14
	DefaultStrategyTimeout   = 2 * time.Second
	DefaultUserRatio         = 2
	DefaultContentRatio      = 1
	DefaultDedupThreshold    = 0.8
	DefaultSeedPublisherID   = "xiaojingling-001"
	DefaultCreatorBoostLimit = 3
)

// UnmarshalYAML 解析 YAML 配置，时长字段写成 Go duration 字符串
// （如 recent_view_window: "336h"）。
func (cfg *FeedConfig) UnmarshalYAML(value *yaml.Node) error {
	type raw struct {
		RecallLimit       int     `yaml:"recall_limit"`
		RankLimit         int     `yaml:"rank_limit"`
		RecentViewWindow  string  `yaml:"recent_view_window"`
		StrategyTimeout   string  `yaml:"strategy_timeout"`
		UserRatio         int     `yaml:"user_ratio"`
		ContentRatio      int     `yaml:"content_ratio"`
		DedupThreshold    float64 `yaml:"dedup_threshold"`
		SeedPublisherID   string  `yaml:"seed_publisher_id"`
		CreatorBoostLimit int     `yaml:"creator_boost_limit"`
		ParallelRecall    bool    `yaml:"parallel_recall"`
	}
	var r raw
	if err := value.Decode(&r); err != nil {
		return err
	}

	cfg.RecallLimit = r.RecallLimit
	cfg.RankLimit = r.RankLimit
	cfg.UserRatio = r.UserRatio
	cfg.ContentRatio = r.ContentRatio
	cfg.DedupThreshold = r.DedupThreshold
	cfg.SeedPublisherID = r.SeedPublisherID
	cfg.CreatorBoostLimit = r.CreatorBoostLimit
	cfg.ParallelRecall = r.ParallelRecall

	if r.RecentViewWindow != "" {
		d, err := time.ParseDuration(r.RecentViewWindow)
		if err != nil {
			return fmt.Errorf("recent_view_window: %w", err)
		}
		cfg.RecentViewWindow = d
	}
	if r.StrategyTimeout != "" {
		d, err := time.ParseDuration(r.StrategyTimeout)
		if err != nil {
			return fmt.Errorf("strategy_timeout: %w", err)
		}
		cfg.StrategyTimeout = d
	}
	return nil
}

// DefaultFeedConfig 返回所有字段为默认值的配置。
func DefaultFeedConfig() *FeedConfig {
	cfg := &FeedConfig{}
	cfg.Normalize()
	return cfg
}

// Normalize 将零值字段填充为默认值并返回自身。
func (cfg *FeedConfig) Normalize() *FeedConfig {
	if cfg.RecallLimit <= 0 {
		cfg.RecallLimit = DefaultRecallLimit
	}
	if cfg.RankLimit <= 0 {
		cfg.RankLimit = DefaultRankLimit
	}
	if cfg.RecentViewWindow <= 0 {
		cfg.RecentViewWindow = DefaultRecentViewDays * 24 * time.Hour
	}
	if cfg.StrategyTimeout <= 0 {
		cfg.StrategyTimeout = DefaultStrategyTimeout
	}
	if cfg.UserRatio <= 0 {
		cfg.UserRatio = DefaultUserRatio
	}
	if cfg.ContentRatio <= 0 {
		cfg.ContentRatio = DefaultContentRatio
	}
	if cfg.DedupThreshold <= 0 {
		cfg.DedupThreshold = DefaultDedupThreshold
	}
	if cfg.SeedPublisherID == "" {
		cfg.SeedPublisherID = DefaultSeedPublisherID
	}
	if cfg.CreatorBoostLimit <= 0 {
		cfg.CreatorBoostLimit = DefaultCreatorBoostLimit
	}
	return cfg
}
