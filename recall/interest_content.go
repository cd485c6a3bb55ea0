package recall

import (
	"context"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

// SocialInterestContent 是内容族策略 2：社交兴趣内容召回。
//
// 召回请求者感兴趣的人（近期主动访问过的用户）发布的话题/投票卡片，
// 最新在前。
type SocialInterestContent struct {
	Content core.ContentStore
}

func (r *SocialInterestContent) Name() string { return "recall.social_interest_content" }

func (r *SocialInterestContent) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	if rctx.Anonymous() || len(rctx.InterestedOwners) == 0 {
		return nil, nil
	}

	owners := make([]string, 0, len(rctx.InterestedOwners))
	for uid := range rctx.InterestedOwners {
		owners = append(owners, uid)
	}

	topicLimit, voteLimit := splitLimit(limit)
	topics, err := r.Content.QueryTopics(ctx, core.ContentQuery{
		OwnerIDs:   owners,
		PublicOnly: true,
		ActiveOnly: true,
		OrderBy:    core.ContentOrderNewest,
		Limit:      topicLimit,
	})
	if err != nil {
		return nil, err
	}
	votes, err := r.Content.QueryVotes(ctx, core.ContentQuery{
		OwnerIDs:   owners,
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
