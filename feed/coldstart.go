package feed

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
	"github.com/xxcj-sh/vive-agent-backend-sub000/recall"
	"github.com/xxcj-sh/vive-agent-backend-sub000/rerank"
)

// coldStartFeed 处理匿名请求：不做个性化排除，召回活跃用户与
// 种子发布者/热门内容，各自打散后混排。is_cold_start=true。
func (s *Service) coldStartFeed(
	ctx context.Context,
	logger zerolog.Logger,
	rctx *core.RecommendContext,
) *core.FeedResult {
	rctx.Exclusions = core.EmptyExclusionSet()

	userSource := &recall.ActiveUsers{Users: s.stores.Users, Cards: s.stores.Cards}
	users, uerr := userSource.Recall(ctx, rctx, s.cfg.RankLimit)
	if uerr != nil {
		logger.Warn().Err(uerr).Msg("cold start user recall failed")
	}

	contentSource := &recall.ColdStartContent{
		Content:         s.stores.Content,
		SeedPublisherID: s.cfg.SeedPublisherID,
	}
	content, cerr := contentSource.Recall(ctx, rctx, s.cfg.RankLimit)
	if cerr != nil {
		logger.Warn().Err(cerr).Msg("cold start content recall failed")
	}

	if uerr != nil && cerr != nil {
		result := core.EmptyFeedResult(rctx.Page, rctx.PageSize)
		result.Degraded = true
		result.IsColdStart = true
		return result
	}

	for _, c := range users {
		c.SetLabel(recall.LabelReason, utils.Label{Value: recall.ReasonRandomPick, Source: "cold_start"})
	}

	// 匿名请求没有个性化信号，打散代替打分
	s.rand.Shuffle(len(users), func(i, j int) { users[i], users[j] = users[j], users[i] })
	s.rand.Shuffle(len(content), func(i, j int) { content[i], content[j] = content[j], content[i] })

	mixed := rerank.Mix(users, content, s.cfg.UserRatio, s.cfg.ContentRatio)
	return s.buildResult(ctx, rctx, mixed, resultFlags{IsColdStart: true})
}
