package feed

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/filter"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pipeline"
	"github.com/xxcj-sh/vive-agent-backend-sub000/rank"
	"github.com/xxcj-sh/vive-agent-backend-sub000/recall"
	"github.com/xxcj-sh/vive-agent-backend-sub000/rerank"
)

// personalizedFeed 处理登录用户的常规请求：用户族与内容族各跑一条
// 完整流水线，按 2:1 混排后分页。
//
// 失败语义：单族失败按空候选处理；两族都失败返回降级空结果；
// 两族过滤后都为空时触发兜底召回。
func (s *Service) personalizedFeed(
	ctx context.Context,
	logger zerolog.Logger,
	rctx *core.RecommendContext,
) *core.FeedResult {
	s.prepareContext(ctx, logger, rctx)

	users, uerr := s.userPipeline(logger, rctx).Run(ctx, rctx, nil)
	if uerr != nil {
		logger.Warn().Err(uerr).Msg("user candidate pipeline failed")
	}
	content, cerr := s.contentPipeline(logger, rctx).Run(ctx, rctx, nil)
	if cerr != nil {
		logger.Warn().Err(cerr).Msg("content candidate pipeline failed")
	}

	if uerr != nil && cerr != nil {
		result := core.EmptyFeedResult(rctx.Page, rctx.PageSize)
		result.Degraded = true
		return result
	}

	if len(users) == 0 && len(content) == 0 {
		logger.Info().Msg("personalized recall empty, serving fallback")
		return s.fallbackFeed(ctx, logger, rctx)
	}

	mixed := rerank.Mix(users, content, s.cfg.UserRatio, s.cfg.ContentRatio)
	return s.buildResult(ctx, rctx, mixed, resultFlags{})
}

// userPipeline 组装用户族流水线：四路召回级联（活跃用户补量）->
// 过滤 -> 打分排序。
func (s *Service) userPipeline(logger zerolog.Logger, rctx *core.RecommendContext) *pipeline.Pipeline {
	cascade := &recall.Cascade{
		Sources: []recall.Source{
			&recall.CommunityUsers{Tags: s.stores.Tags, Cards: s.stores.Cards},
			&recall.PracticalPurposeUsers{Tags: s.stores.Tags, Cards: s.stores.Cards},
			&recall.SocialPurposeUsers{Tags: s.stores.Tags, Cards: s.stores.Cards},
			&recall.SocialRelationUsers{
				Connections: s.stores.Connections,
				Cards:       s.stores.Cards,
				Window:      s.cfg.RecentViewWindow,
				Clock:       s.clock,
			},
		},
		TopUp: []recall.Source{
			&recall.ActiveUsers{Users: s.stores.Users, Cards: s.stores.Cards},
		},
		Limit:       s.cfg.RecallLimit,
		Timeout:     s.cfg.StrategyTimeout,
		DedupOwners: true,
		Parallel:    s.cfg.ParallelRecall,
		Logger:      logger,
	}

	return &pipeline.Pipeline{Nodes: []pipeline.Node{
		cascade,
		s.filterNode(logger, rctx),
		s.rankNode(logger),
	}}
}

// contentPipeline 组装内容族流水线：两路召回（活跃内容补量）->
// 过滤 -> 打分排序 -> 标题去重。
func (s *Service) contentPipeline(logger zerolog.Logger, rctx *core.RecommendContext) *pipeline.Pipeline {
	cascade := &recall.Cascade{
		Sources: []recall.Source{
			&recall.CommunityContent{Tags: s.stores.Tags, Content: s.stores.Content},
			&recall.SocialInterestContent{Content: s.stores.Content},
		},
		TopUp: []recall.Source{
			&recall.ActiveContent{Content: s.stores.Content},
		},
		Limit:    s.cfg.RecallLimit,
		Timeout:  s.cfg.StrategyTimeout,
		Parallel: s.cfg.ParallelRecall,
		Logger:   logger,
	}

	return &pipeline.Pipeline{Nodes: []pipeline.Node{
		cascade,
		s.filterNode(logger, rctx),
		s.rankNode(logger),
		&rerank.TitleDedup{Threshold: s.cfg.DedupThreshold},
	}}
}

// filterNode 组装请求级过滤链：排除集兜底 + 属性筛选 + 表达式筛选。
// 非法表达式只记日志并忽略，不让整个请求失败。
func (s *Service) filterNode(logger zerolog.Logger, rctx *core.RecommendContext) *filter.FilterNode {
	filters := []filter.Filter{&filter.ExclusionFilter{}}

	if !rctx.Filters.Empty() {
		filters = append(filters, &filter.AttributeFilter{Filters: rctx.Filters})
	}
	if rctx.FilterExpr != "" {
		ef, err := filter.NewExprFilter(rctx.FilterExpr)
		if err != nil {
			logger.Warn().Err(err).Str("expr", rctx.FilterExpr).Msg("invalid filter expression, ignored")
		} else {
			filters = append(filters, ef)
		}
	}
	return &filter.FilterNode{Filters: filters}
}

func (s *Service) rankNode(logger zerolog.Logger) *rank.Node {
	return &rank.Node{
		Scorer:   &rank.Scorer{Clock: s.clock, Rand: s.rand},
		Limit:    s.cfg.RankLimit,
		Features: s.features,
		Logger:   logger,
	}
}
