package rank

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/feature"
)

// zeroRand 去掉抖动，让分桶断言精确成立。
type zeroRand struct{}

func (zeroRand) Float64() float64            { return 0 }
func (zeroRand) Shuffle(int, func(int, int)) {}

func testScorer(now time.Time) *Scorer {
	return &Scorer{Clock: core.FixedClock{T: now}, Rand: zeroRand{}}
}

func TestScorer_UserCandidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rctx := &core.RecommendContext{
		RequesterTags: map[int64]struct{}{1: {}, 2: {}, 3: {}, 4: {}, 5: {}},
	}

	full := &core.UserCard{
		AvatarURL:  "https://example.com/a.png",
		Bio:        "一段超过十个字符的自我介绍",
		Occupation: "设计师",
		Location:   "上海",
		TagIDs:     []int64{1, 2, 3, 4, 5},
	}

	tests := []struct {
		name      string
		card      *core.UserCard
		updatedAt time.Time
		want      float64
	}{
		{
			// 5 个共同标签封顶 40 + 2 小时内更新 30 + 完整资料 20
			name:      "full profile fresh",
			card:      full,
			updatedAt: now.Add(-2 * time.Hour),
			want:      90,
		},
		{
			name:      "week old freshness bucket",
			card:      full,
			updatedAt: now.Add(-3 * 24 * time.Hour),
			want:      80,
		},
		{
			name:      "empty profile no overlap",
			card:      &core.UserCard{},
			updatedAt: now.Add(-60 * 24 * time.Hour),
			want:      0,
		},
		{
			// 简介不足十个字符不计分
			name:      "short bio not counted",
			card:      &core.UserCard{Bio: "短简介"},
			updatedAt: now.Add(-60 * 24 * time.Hour),
			want:      0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := core.NewUserCandidate("c1", "u1", tt.card)
			c.UpdatedAt = tt.updatedAt
			got := testScorer(now).Score(rctx, c, nil)
			if got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScorer_TagOverlapCapped(t *testing.T) {
	now := time.Now()
	rctx := &core.RecommendContext{RequesterTags: map[int64]struct{}{}}
	tags := make([]int64, 8)
	for i := range tags {
		tags[i] = int64(i + 1)
		rctx.RequesterTags[int64(i+1)] = struct{}{}
	}
	c := core.NewUserCandidate("c1", "u1", &core.UserCard{TagIDs: tags})
	c.UpdatedAt = now.Add(-60 * 24 * time.Hour)

	// 8 个共同标签仍旧封顶 40
	if got := testScorer(now).Score(rctx, c, nil); got != 40 {
		t.Errorf("Score() = %v, want 40", got)
	}
}

func TestScorer_ContentCandidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rctx := &core.RecommendContext{
		InterestedOwners: map[string]struct{}{"friend": {}},
	}

	tests := []struct {
		name      string
		owner     string
		likes     int64
		createdAt time.Time
		want      float64
	}{
		{
			// 感兴趣作者 30 + 互动 ≥100 30 + 一天内 30
			name:      "interested hot fresh",
			owner:     "friend",
			likes:     120,
			createdAt: now.Add(-3 * time.Hour),
			want:      90,
		},
		{
			name:      "engagement bucket 50",
			owner:     "other",
			likes:     60,
			createdAt: now.Add(-10 * 24 * time.Hour),
			want:      30,
		},
		{
			name:      "small engagement",
			owner:     "other",
			likes:     3,
			createdAt: now.Add(-60 * 24 * time.Hour),
			want:      5,
		},
		{
			name:      "zero engagement old",
			owner:     "other",
			likes:     0,
			createdAt: now.Add(-60 * 24 * time.Hour),
			want:      0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := core.NewTopicCandidate("t1", tt.owner, &core.TopicCard{LikeCount: tt.likes})
			c.CreatedAt = tt.createdAt
			got := testScorer(now).Score(rctx, c, nil)
			if got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScorer_RealtimeEngagementOverride(t *testing.T) {
	now := time.Now()
	rctx := &core.RecommendContext{}
	c := core.NewTopicCandidate("t1", "u1", &core.TopicCard{LikeCount: 3})
	c.CreatedAt = now.Add(-60 * 24 * time.Hour)

	realtime := map[string]float64{feature.FeatureEngagement: 150}
	if got := testScorer(now).Score(rctx, c, realtime); got != 30 {
		t.Errorf("Score() with realtime override = %v, want 30", got)
	}
}

func TestScorer_JitterRange(t *testing.T) {
	now := time.Now()
	s := &Scorer{Clock: core.FixedClock{T: now}, Rand: core.NewSeededRand(42)}
	c := core.NewUserCandidate("c1", "u1", &core.UserCard{})
	c.UpdatedAt = now.Add(-60 * 24 * time.Hour)

	for i := 0; i < 100; i++ {
		got := s.Score(&core.RecommendContext{}, c, nil)
		if got < 0 || got >= 10 {
			t.Fatalf("jitter-only score %v out of [0,10)", got)
		}
	}
}

type fixedFeatures struct {
	features map[string]map[string]float64
}

func (f *fixedFeatures) Name() string { return "feature.fixed" }

func (f *fixedFeatures) GetCardFeatures(ctx context.Context, id string) (map[string]float64, error) {
	return f.features[id], nil
}

func (f *fixedFeatures) BatchGetCardFeatures(ctx context.Context, ids []string) (map[string]map[string]float64, error) {
	return f.features, nil
}

func (f *fixedFeatures) Close() error { return nil }

func TestNode_SortsAndTruncates(t *testing.T) {
	now := time.Now()
	rctx := &core.RecommendContext{InterestedOwners: map[string]struct{}{"friend": {}}}

	fresh := core.NewTopicCandidate("fresh", "friend", &core.TopicCard{LikeCount: 200})
	fresh.CreatedAt = now.Add(-time.Hour)
	stale := core.NewTopicCandidate("stale", "other", &core.TopicCard{})
	stale.CreatedAt = now.Add(-90 * 24 * time.Hour)
	mid := core.NewTopicCandidate("mid", "other", &core.TopicCard{LikeCount: 60})
	mid.CreatedAt = now.Add(-2 * 24 * time.Hour)

	node := &Node{
		Scorer: testScorer(now),
		Limit:  2,
		Logger: zerolog.Nop(),
	}
	got, err := node.Process(context.Background(), rctx, []*core.Candidate{stale, mid, fresh})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2 after truncation", len(got))
	}
	if got[0].ID != "fresh" || got[1].ID != "mid" {
		t.Errorf("order = [%s %s], want [fresh mid]", got[0].ID, got[1].ID)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not descending: %v <= %v", got[0].Score, got[1].Score)
	}
}

func TestNode_RealtimeFeaturesReordering(t *testing.T) {
	now := time.Now()
	rctx := &core.RecommendContext{}

	a := core.NewTopicCandidate("a", "u1", &core.TopicCard{LikeCount: 5})
	a.CreatedAt = now.Add(-60 * 24 * time.Hour)
	b := core.NewTopicCandidate("b", "u2", &core.TopicCard{LikeCount: 5})
	b.CreatedAt = now.Add(-60 * 24 * time.Hour)

	node := &Node{
		Scorer: testScorer(now),
		Features: &fixedFeatures{features: map[string]map[string]float64{
			"b": {feature.FeatureEngagement: 500},
		}},
		Logger: zerolog.Nop(),
	}
	got, err := node.Process(context.Background(), rctx, []*core.Candidate{a, b})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got[0].ID != "b" {
		t.Errorf("realtime engagement should promote b, got %s first", got[0].ID)
	}
}
