package recall

import (
	"context"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

// ActiveContent 是内容族策略 4：活跃内容补充召回。
//
// 其他策略不足时，用最近更新的话题/投票卡片补位；
// 始终排除请求者自己发布的内容。
type ActiveContent struct {
	Content core.ContentStore
}

func (r *ActiveContent) Name() string { return "recall.active_content" }

func (r *ActiveContent) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	topicLimit, voteLimit := splitLimit(limit)

	topics, err := r.Content.QueryTopics(ctx, core.ContentQuery{
		ExcludeOwnerID: rctx.UserID,
		PublicOnly:     true,
		ActiveOnly:     true,
		OrderBy:        core.ContentOrderRecentlyUpdated,
		Limit:          topicLimit,
	})
	if err != nil {
		return nil, err
	}
	votes, err := r.Content.QueryVotes(ctx, core.ContentQuery{
		ExcludeOwnerID: rctx.UserID,
		PublicOnly:     true,
		ActiveOnly:     true,
		OrderBy:        core.ContentOrderRecentlyUpdated,
		Limit:          voteLimit,
	})
	if err != nil {
		return nil, err
	}

	out := contentFilter(rctx, append(topics, votes...), limit)
	for _, c := range out {
		reason := ReasonHotTopic
		if c.CardType == core.CardTypeVote {
			reason = ReasonHotVote
		}
		c.PutLabel(LabelReason, utils.Label{Value: reason, Source: "recall"})
	}
	return out, nil
}
