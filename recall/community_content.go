package recall

import (
	"context"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

// contentFilter 统一应用排除集合与可见性约束，保持输入顺序。
func contentFilter(rctx *core.RecommendContext, items []*core.Candidate, limit int) []*core.Candidate {
	out := make([]*core.Candidate, 0, len(items))
	for _, c := range items {
		if c == nil || !c.Surfaceable() {
			continue
		}
		if rctx.Exclusions.Excludes(c) {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// splitLimit 把策略配额在话题与投票之间对半拆分（奇数偏向话题）。
func splitLimit(limit int) (topics, votes int) {
	votes = limit / 2
	topics = limit - votes
	return topics, votes
}

// CommunityContent 是内容族策略 1：社群标签内容召回。
//
// 召回请求者所在社群的群主发布的话题/投票卡片，最新在前，
// 帮助创作者把内容分发给社群成员。
type CommunityContent struct {
	Tags    core.TagStore
	Content core.ContentStore
}

func (r *CommunityContent) Name() string { return "recall.community_content" }

func (r *CommunityContent) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	if rctx.Anonymous() {
		return nil, nil
	}

	tagIDs, err := r.Tags.GetUserTags(ctx, rctx.UserID, core.TagTypeCommunity)
	if err != nil {
		return nil, err
	}
	if len(tagIDs) == 0 {
		return nil, nil
	}

	// 群主集合（去重）。
	creators := make([]string, 0, len(tagIDs))
	seen := make(map[string]struct{})
	for _, tagID := range tagIDs {
		tag, err := r.Tags.GetTag(ctx, tagID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if tag.Deleted || tag.CreatorID == "" {
			continue
		}
		creators = uniqueAppend(creators, seen, tag.CreatorID)
	}
	if len(creators) == 0 {
		return nil, nil
	}

	topicLimit, voteLimit := splitLimit(limit)
	topics, err := r.Content.QueryTopics(ctx, core.ContentQuery{
		OwnerIDs:   creators,
		PublicOnly: true,
		ActiveOnly: true,
		OrderBy:    core.ContentOrderNewest,
		Limit:      topicLimit,
	})
	if err != nil {
		return nil, err
	}
	votes, err := r.Content.QueryVotes(ctx, core.ContentQuery{
		OwnerIDs:   creators,
		PublicOnly: true,
		ActiveOnly: true,
		OrderBy:    core.ContentOrderNewest,
		Limit:      voteLimit,
	})
	if err != nil {
		return nil, err
	}

	out := contentFilter(rctx, append(topics, votes...), limit)
	for _, c := range out {
		reason := ReasonRecommendTopic
		if c.CardType == core.CardTypeVote {
			reason = ReasonRecommendVote
		}
		c.PutLabel(LabelReason, utils.Label{Value: reason, Source: "recall"})
	}
	return out, nil
}
