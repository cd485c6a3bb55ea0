package feed

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
	"github.com/xxcj-sh/vive-agent-backend-sub000/recall"
	"github.com/xxcj-sh/vive-agent-backend-sub000/rerank"
)

// FallbackProvider 提供个性化召回为空时的兜底候选：最近活跃的
// 公开用户与内容。兜底放宽个性化排除（看过的人可以再出现），
// 但永远排除请求者自己。
type FallbackProvider struct {
	Users   core.UserStore
	Cards   core.CardStore
	Content core.ContentStore

	// Limit 每个候选族的兜底条数上限
	Limit int

	Logger zerolog.Logger
}

// Provide 返回（用户候选，内容候选）。两路各自独立失败，
// 失败的一路按空处理。
func (p *FallbackProvider) Provide(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, []*core.Candidate) {
	// 兜底只保留"排除自己"这一条规则
	relaxed := *rctx
	if rctx.UserID != "" {
		relaxed.Exclusions = core.NewExclusionSet([]string{rctx.UserID}, nil)
	} else {
		relaxed.Exclusions = core.EmptyExclusionSet()
	}

	limit := p.Limit
	if limit <= 0 {
		limit = core.DefaultRankLimit
	}

	userSource := &recall.ActiveUsers{Users: p.Users, Cards: p.Cards}
	users, err := userSource.Recall(ctx, &relaxed, limit)
	if err != nil {
		p.Logger.Warn().Err(err).Msg("fallback user recall failed")
		users = nil
	}

	contentSource := &recall.ActiveContent{Content: p.Content}
	content, err := contentSource.Recall(ctx, &relaxed, limit)
	if err != nil {
		p.Logger.Warn().Err(err).Msg("fallback content recall failed")
		content = nil
	}

	for _, c := range users {
		c.SetLabel(recall.LabelReason, utils.Label{Value: recall.ReasonHotPick, Source: "fallback"})
	}
	return users, content
}

// fallbackFeed 输出兜底结果：is_fallback=true，保持存储给出的
// 最近更新序，不再打分。
func (s *Service) fallbackFeed(
	ctx context.Context,
	logger zerolog.Logger,
	rctx *core.RecommendContext,
) *core.FeedResult {
	provider := &FallbackProvider{
		Users:   s.stores.Users,
		Cards:   s.stores.Cards,
		Content: s.stores.Content,
		Limit:   s.cfg.RankLimit,
		Logger:  logger,
	}
	users, content := provider.Provide(ctx, rctx)
	if len(users) == 0 && len(content) == 0 {
		result := core.EmptyFeedResult(rctx.Page, rctx.PageSize)
		result.IsFallback = true
		return result
	}

	mixed := rerank.Mix(users, content, s.cfg.UserRatio, s.cfg.ContentRatio)
	return s.buildResult(ctx, rctx, mixed, resultFlags{IsFallback: true})
}
