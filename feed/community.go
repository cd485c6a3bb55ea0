package feed

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pipeline"
	"github.com/xxcj-sh/vive-agent-backend-sub000/recall"
	"github.com/xxcj-sh/vive-agent-backend-sub000/rerank"
)

// communityFeed 处理社群筛选模式：常规召回策略全部停用，只召回
// 社群成员的名片和内容；群主的近期内容置顶（上限 3 条）。
//
// 标签不存在/已删除/无成员时返回显式空结果——这是筛选条件不成立，
// 不是召回失败，因此绝不触发兜底。
func (s *Service) communityFeed(
	ctx context.Context,
	logger zerolog.Logger,
	rctx *core.RecommendContext,
) *core.FeedResult {
	tagID := *rctx.CommunityTagID
	logger = logger.With().Int64("community_tag_id", tagID).Logger()

	tag, err := s.stores.Tags.GetTag(ctx, tagID)
	if err != nil {
		if core.IsNotFound(err) {
			logger.Info().Msg("community tag not found")
			return core.EmptyFeedResult(rctx.Page, rctx.PageSize)
		}
		logger.Warn().Err(err).Msg("load community tag failed")
		result := core.EmptyFeedResult(rctx.Page, rctx.PageSize)
		result.Degraded = true
		return result
	}
	if tag.Deleted || tag.TagType != core.TagTypeCommunity {
		logger.Info().Msg("community tag deleted or not a community")
		return core.EmptyFeedResult(rctx.Page, rctx.PageSize)
	}

	members, err := s.stores.Tags.GetTagMembers(ctx, tagID)
	if err != nil {
		logger.Warn().Err(err).Msg("load community members failed")
		result := core.EmptyFeedResult(rctx.Page, rctx.PageSize)
		result.Degraded = true
		return result
	}
	if len(members) == 0 {
		logger.Info().Msg("community has no members")
		return core.EmptyFeedResult(rctx.Page, rctx.PageSize)
	}

	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.UserID
	}

	if rctx.UserID != "" {
		s.prepareContext(ctx, logger, rctx)
	} else {
		rctx.Exclusions = core.EmptyExclusionSet()
	}

	userPipe := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Cascade{
			Sources: []recall.Source{
				&recall.CommunityMemberCards{Cards: s.stores.Cards, MemberIDs: memberIDs},
			},
			Limit:       s.cfg.RecallLimit,
			Timeout:     s.cfg.StrategyTimeout,
			DedupOwners: true,
			Logger:      logger,
		},
		s.filterNode(logger, rctx),
		s.rankNode(logger),
	}}

	contentPipe := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Cascade{
			Sources: []recall.Source{
				&recall.CommunityMemberContent{Content: s.stores.Content, MemberIDs: memberIDs},
			},
			Limit:   s.cfg.RecallLimit,
			Timeout: s.cfg.StrategyTimeout,
			Logger:  logger,
		},
		s.filterNode(logger, rctx),
		s.rankNode(logger),
		&rerank.TitleDedup{Threshold: s.cfg.DedupThreshold},
		&rerank.CreatorBoost{CreatorID: tag.CreatorID, Limit: s.cfg.CreatorBoostLimit},
	}}

	users, uerr := userPipe.Run(ctx, rctx, nil)
	if uerr != nil {
		logger.Warn().Err(uerr).Msg("community user pipeline failed")
	}
	content, cerr := contentPipe.Run(ctx, rctx, nil)
	if cerr != nil {
		logger.Warn().Err(cerr).Msg("community content pipeline failed")
	}
	if uerr != nil && cerr != nil {
		result := core.EmptyFeedResult(rctx.Page, rctx.PageSize)
		result.Degraded = true
		return result
	}

	mixed := rerank.Mix(users, content, s.cfg.UserRatio, s.cfg.ContentRatio)
	return s.buildResult(ctx, rctx, mixed, resultFlags{})
}
