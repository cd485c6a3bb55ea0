package recall

import (
	"context"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

// 社群筛选模式专用策略：请求指定 communityTagId 时，
// 其余召回策略全部停用，只允许社群成员的卡片进入候选池。
// MemberIDs 为按加入时间倒序的成员列表，由 feed 层解析标签后注入。

// CommunityMemberCards 召回社群成员的用户名片。
type CommunityMemberCards struct {
	Cards     core.CardStore
	MemberIDs []string
}

func (r *CommunityMemberCards) Name() string { return "recall.community_member_cards" }

func (r *CommunityMemberCards) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	if len(r.MemberIDs) == 0 {
		return nil, nil
	}

	members := r.MemberIDs
	if len(members) > limit {
		members = members[:limit]
	}
	out, err := cardsForUsers(ctx, r.Cards, members)
	if err != nil {
		return nil, err
	}
	for _, c := range out {
		c.PutLabel(LabelReason, utils.Label{Value: ReasonCommunityMember, Source: "recall"})
	}
	return out, nil
}

// CommunityMemberContent 召回社群成员发布的话题/投票卡片。
type CommunityMemberContent struct {
	Content   core.ContentStore
	MemberIDs []string
}

func (r *CommunityMemberContent) Name() string { return "recall.community_member_content" }

func (r *CommunityMemberContent) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	if len(r.MemberIDs) == 0 {
		return nil, nil
	}

	topicLimit, voteLimit := splitLimit(limit)
	topics, err := r.Content.QueryTopics(ctx, core.ContentQuery{
		OwnerIDs:   r.MemberIDs,
		PublicOnly: true,
		ActiveOnly: true,
		OrderBy:    core.ContentOrderNewest,
		Limit:      topicLimit,
	})
	if err != nil {
		return nil, err
	}
	votes, err := r.Content.QueryVotes(ctx, core.ContentQuery{
		OwnerIDs:   r.MemberIDs,
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
