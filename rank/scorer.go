package rank

import (
	"time"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/feature"
)

// Scorer 是多因子加法打分器。每个因子是分桶的整数贡献，
// 最后叠加 [0,10) 均匀抖动，总分落在 [0,100]。
//
// 用户卡片：标签重合（≤40）+ 新鲜度（≤30）+ 资料完整度（≤20）+ 抖动
// 内容卡片：感兴趣作者（30 或 0）+ 互动量（≤30）+ 新鲜度（≤30）+ 抖动
type Scorer struct {
	// Clock 提供当前时间，决定新鲜度分桶
	Clock core.Clock

	// Rand 提供抖动的随机源，测试中注入固定种子
	Rand core.Rand
}

// NewScorer 创建使用系统时钟和进程级随机源的打分器。
func NewScorer() *Scorer {
	return &Scorer{Clock: core.SystemClock{}, Rand: core.NewSystemRand()}
}

// Score 计算单个候选的分数。
// realtime 是可选的实时特征，存在 engagement_count 时覆盖存储快照里的互动量。
func (s *Scorer) Score(
	rctx *core.RecommendContext,
	c *core.Candidate,
	realtime map[string]float64,
) float64 {
	if c == nil {
		return 0
	}
	var score float64
	if c.IsContent() {
		score = s.interestScore(rctx, c) +
			engagementScore(resolveEngagement(c, realtime)) +
			freshnessScore(s.now().Sub(c.CreatedAt))
	} else {
		score = s.tagOverlapScore(rctx, c) +
			freshnessScore(s.now().Sub(c.UpdatedAt)) +
			completenessScore(c.User)
	}
	return score + s.jitter()
}

func (s *Scorer) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

func (s *Scorer) jitter() float64 {
	if s.Rand == nil {
		return 0
	}
	return s.Rand.Float64() * 10
}

// tagOverlapScore 按共同标签数打分，每个 10 分封顶 40 分。
func (s *Scorer) tagOverlapScore(rctx *core.RecommendContext, c *core.Candidate) float64 {
	if rctx == nil {
		return 0
	}
	common := 0
	for _, id := range c.TagIDs() {
		if rctx.HasTag(id) {
			common++
		}
	}
	score := float64(common * 10)
	if score > 40 {
		score = 40
	}
	return score
}

// interestScore 内容作者在请求者"感兴趣"集合中时给 30 分固定加分。
func (s *Scorer) interestScore(rctx *core.RecommendContext, c *core.Candidate) float64 {
	if rctx != nil && rctx.InterestedIn(c.OwnerID) {
		return 30
	}
	return 0
}

// resolveEngagement 决定参与互动量分桶的计数：
// 实时特征里有 engagement_count 时用实时值，否则用存储快照。
func resolveEngagement(c *core.Candidate, realtime map[string]float64) int64 {
	if v, ok := realtime[feature.FeatureEngagement]; ok && v >= 0 {
		return int64(v)
	}
	return c.Engagement()
}

func engagementScore(count int64) float64 {
	switch {
	case count >= 100:
		return 30
	case count >= 50:
		return 20
	case count >= 10:
		return 10
	case count > 0:
		return 5
	default:
		return 0
	}
}

func freshnessScore(age time.Duration) float64 {
	switch {
	case age <= 24*time.Hour:
		return 30
	case age <= 7*24*time.Hour:
		return 20
	case age <= 30*24*time.Hour:
		return 10
	default:
		return 0
	}
}

// completenessScore 资料完整度：头像、简介（>10 字符）、职业、地区各 5 分。
func completenessScore(u *core.UserCard) float64 {
	if u == nil {
		return 0
	}
	var score float64
	if u.AvatarURL != "" {
		score += 5
	}
	if len([]rune(u.Bio)) > 10 {
		score += 5
	}
	if u.Occupation != "" {
		score += 5
	}
	if u.Location != "" {
		score += 5
	}
	return score
}
