package feed

import (
	"context"
	"math"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/recall"
)

type resultFlags struct {
	IsFallback  bool
	IsColdStart bool
}

// buildResult 对混排后的完整候选序列做内存分页，并把当前页候选
// 转换为对外的 FeedItem。分页基于请求期间构建的全量序列，
// 不跨请求缓存，翻页会重新召回和打分。
func (s *Service) buildResult(
	ctx context.Context,
	rctx *core.RecommendContext,
	mixed []*core.Candidate,
	flags resultFlags,
) *core.FeedResult {
	total := len(mixed)
	totalPages := 1
	if total > 0 {
		totalPages = (total + rctx.PageSize - 1) / rctx.PageSize
	}

	start := (rctx.Page - 1) * rctx.PageSize
	if start > total {
		start = total
	}
	end := start + rctx.PageSize
	if end > total {
		end = total
	}

	items := make([]*core.FeedItem, 0, end-start)
	for _, c := range mixed[start:end] {
		items = append(items, s.formatItem(ctx, rctx, c))
	}

	return &core.FeedResult{
		Items:       items,
		Total:       total,
		Page:        rctx.Page,
		PageSize:    rctx.PageSize,
		TotalPages:  totalPages,
		HasNext:     rctx.Page < totalPages,
		HasPrev:     rctx.Page > 1,
		IsFallback:  flags.IsFallback,
		IsColdStart: flags.IsColdStart,
	}
}

// formatItem 把候选转换为对外的 Feed 项。投票卡片附带聚合结果，
// 读取失败时降级为不附带。
func (s *Service) formatItem(
	ctx context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) *core.FeedItem {
	createdAt := c.CreatedAt
	updatedAt := c.UpdatedAt
	item := &core.FeedItem{
		ID:        c.ID,
		CardType:  c.CardType,
		OwnerID:   c.OwnerID,
		CreatedAt: &createdAt,
		UpdatedAt: &updatedAt,

		IsRecommendation:     true,
		RecommendationReason: c.GetLabel(recall.LabelReason),
		RecommendScore:       math.Round(c.Score*100) / 100,
	}

	switch c.CardType {
	case core.CardTypeUser:
		if c.User != nil {
			item.DisplayName = c.User.DisplayName
			item.AvatarURL = c.User.AvatarURL
			item.Bio = c.User.Bio
			item.Occupation = c.User.Occupation
			item.Location = c.User.Location
		}
	case core.CardTypeTopic:
		if c.Topic != nil {
			item.Title = c.Topic.Title
			item.Content = c.Topic.Description
			item.Category = c.Topic.Category
			item.LikeCount = c.Topic.LikeCount
			item.CommentCount = c.Topic.DiscussionCount
			item.ViewCount = c.Topic.ViewCount
			item.IsAnonymous = c.Topic.IsAnonymous
		}
	case core.CardTypeVote:
		if c.Vote != nil {
			item.Title = c.Vote.Title
			item.Content = c.Vote.Description
			item.Category = c.Vote.Category
			item.VoteKind = c.Vote.VoteKind
			item.TotalVotes = c.Vote.TotalVotes
			item.ViewCount = c.Vote.ViewCount
			item.VoteDeadline = c.Vote.EndTime
		}
		if results, err := s.stores.Votes.GetVoteResults(ctx, c.ID, rctx.UserID); err == nil {
			item.VoteResults = results
		}
	}
	return item
}
