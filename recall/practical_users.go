package recall

import (
	"context"
	"sort"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

// PracticalPurposeUsers 是用户族策略 2：实用目的召回。
//
// 根据请求者的"需求标签"召回能提供对应能力的用户，按匹配标签数倒序。
// 此场景只看请求者的诉求，不考虑对方的偏好。
type PracticalPurposeUsers struct {
	Tags  core.TagStore
	Cards core.CardStore
}

func (r *PracticalPurposeUsers) Name() string { return "recall.practical_purpose" }

func (r *PracticalPurposeUsers) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	if rctx.Anonymous() {
		return nil, nil
	}

	needTags, err := r.Tags.GetUserTags(ctx, rctx.UserID, core.TagTypePurpose)
	if err != nil {
		return nil, err
	}
	if len(needTags) == 0 {
		return nil, nil
	}

	// 统计每个用户命中的需求标签数。
	matchCount := make(map[string]int)
	order := make([]string, 0)
	seen := make(map[string]struct{})
	for _, tagID := range needTags {
		members, err := r.Tags.GetTagMembers(ctx, tagID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if m.UserID == rctx.UserID || rctx.Exclusions.ExcludesUser(m.UserID) {
				continue
			}
			matchCount[m.UserID]++
			order = uniqueAppend(order, seen, m.UserID)
		}
	}
	if len(order) == 0 {
		return nil, nil
	}

	// 匹配数倒序；相同匹配数保持首次出现顺序。
	sort.SliceStable(order, func(i, j int) bool {
		return matchCount[order[i]] > matchCount[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}

	out, err := cardsForUsers(ctx, r.Cards, order)
	if err != nil {
		return nil, err
	}
	for _, c := range out {
		c.PutLabel(LabelReason, utils.Label{Value: ReasonPracticalMatch, Source: "recall"})
	}
	return out, nil
}
