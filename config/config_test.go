package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
feed:
  recall_limit: 200
  rank_limit: 30
  recent_view_window: 168h
  parallel_recall: true
redis:
  addr: "127.0.0.1:6379"
  db: 2
feast:
  host: "10.0.0.5"
  port: 6566
  project: "vive"
  feature_refs:
    - "card_stats:engagement_count"
  cache_ttl: 1m
log:
  level: "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Feed.RecallLimit != 200 || cfg.Feed.RankLimit != 30 {
		t.Errorf("feed limits = %d/%d, want 200/30", cfg.Feed.RecallLimit, cfg.Feed.RankLimit)
	}
	if cfg.Feed.RecentViewWindow != 168*time.Hour {
		t.Errorf("recent_view_window = %v, want 168h", cfg.Feed.RecentViewWindow)
	}
	if !cfg.Feed.ParallelRecall {
		t.Error("parallel_recall not parsed")
	}
	if cfg.Redis.Addr != "127.0.0.1:6379" || cfg.Redis.DB != 2 {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	if cfg.Feast.Host != "10.0.0.5" || cfg.Feast.Port != 6566 || cfg.Feast.CacheTTL != time.Minute {
		t.Errorf("feast = %+v", cfg.Feast)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}

	// 未出现的字段补默认值。
	if cfg.Feed.SeedPublisherID != core.DefaultSeedPublisherID {
		t.Errorf("seed_publisher_id = %q, want default", cfg.Feed.SeedPublisherID)
	}
	if cfg.Feed.UserRatio != core.DefaultUserRatio || cfg.Feed.ContentRatio != core.DefaultContentRatio {
		t.Errorf("mix ratio = %d:%d, want default", cfg.Feed.UserRatio, cfg.Feed.ContentRatio)
	}
}

func TestLoad_EmptyFileGetsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Feed.RecallLimit != core.DefaultRecallLimit || cfg.Feed.RankLimit != core.DefaultRankLimit {
		t.Errorf("limits = %d/%d, want defaults", cfg.Feed.RecallLimit, cfg.Feed.RankLimit)
	}
	if cfg.Redis.Addr != "" || cfg.Feast.Host != "" {
		t.Error("external services should stay disabled by default")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file should fail")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "feed: [broken")); err == nil {
		t.Fatal("malformed yaml should fail")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Feed.DedupThreshold != core.DefaultDedupThreshold {
		t.Errorf("dedup_threshold = %v, want %v", cfg.Feed.DedupThreshold, core.DefaultDedupThreshold)
	}
	if cfg.Feed.CreatorBoostLimit != core.DefaultCreatorBoostLimit {
		t.Errorf("creator_boost_limit = %d", cfg.Feed.CreatorBoostLimit)
	}
}
