package recall

import (
	"context"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

// ColdStartContent 是内容族策略 3：冷启动内容召回。
//
// 仅用于匿名/新用户请求：优先召回运营种子账号发布的投票卡片，
// 不足时用全局热门内容补齐。
type ColdStartContent struct {
	Content core.ContentStore

	// SeedPublisherID 是冷启动专用内容发布者。
	SeedPublisherID string
}

func (r *ColdStartContent) Name() string { return "recall.cold_start_content" }

func (r *ColdStartContent) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	seedID := r.SeedPublisherID
	if seedID == "" {
		seedID = core.DefaultSeedPublisherID
	}

	// 种子账号的投票卡片，最新在前。
	seedVotes, err := r.Content.QueryVotes(ctx, core.ContentQuery{
		OwnerIDs:   []string{seedID},
		PublicOnly: true,
		ActiveOnly: true,
		OrderBy:    core.ContentOrderNewest,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	out := contentFilter(rctx, seedVotes, limit)
	seen := make(map[string]struct{}, len(out))
	for _, c := range out {
		seen[c.ID] = struct{}{}
	}

	// 种子内容不足时，按热度补齐话题与投票。
	if len(out) < limit {
		remaining := limit - len(out)
		topicLimit, voteLimit := splitLimit(remaining)

		hotTopics, err := r.Content.QueryTopics(ctx, core.ContentQuery{
			PublicOnly: true,
			ActiveOnly: true,
			OrderBy:    core.ContentOrderPopular,
			Limit:      topicLimit,
		})
		if err != nil {
			return nil, err
		}
		hotVotes, err := r.Content.QueryVotes(ctx, core.ContentQuery{
			PublicOnly: true,
			ActiveOnly: true,
			OrderBy:    core.ContentOrderPopular,
			Limit:      voteLimit,
		})
		if err != nil {
			return nil, err
		}

		for _, c := range contentFilter(rctx, append(hotTopics, hotVotes...), remaining) {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			out = append(out, c)
			if len(out) >= limit {
				break
			}
		}
	}

	for _, c := range out {
		reason := ReasonHotTopic
		if c.CardType == core.CardTypeVote {
			reason = ReasonHotVote
		}
		c.PutLabel(LabelReason, utils.Label{Value: reason, Source: "recall"})
	}
	return out, nil
}
