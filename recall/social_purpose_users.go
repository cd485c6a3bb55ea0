package recall

import (
	"context"
	"sort"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

// SocialPurposeUsers 是用户族策略 3：社交目的召回。
//
// 基于画像标签重合度召回请求者可能想认识的用户，偏好双向匹配：
// 先按单向命中数取 2 倍候选，再做准入判断——
// 双向标签重合 > 0，或单向命中 >= 2。
type SocialPurposeUsers struct {
	Tags  core.TagStore
	Cards core.CardStore
}

func (r *SocialPurposeUsers) Name() string { return "recall.social_purpose" }

func (r *SocialPurposeUsers) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	if rctx.Anonymous() {
		return nil, nil
	}

	profileTags, err := r.Tags.GetUserTags(ctx, rctx.UserID, core.TagTypeProfile)
	if err != nil {
		return nil, err
	}
	if len(profileTags) == 0 {
		return nil, nil
	}
	myTags := make(map[int64]struct{}, len(profileTags))
	for _, id := range profileTags {
		myTags[id] = struct{}{}
	}

	matchCount := make(map[string]int)
	order := make([]string, 0)
	seen := make(map[string]struct{})
	for _, tagID := range profileTags {
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

	sort.SliceStable(order, func(i, j int) bool {
		return matchCount[order[i]] > matchCount[order[j]]
	})
	// 取 2 倍候选做准入判断，避免双向检查把结果掏空。
	breadth := limit * 2
	if len(order) > breadth {
		order = order[:breadth]
	}

	admitted := make([]string, 0, limit)
	for _, uid := range order {
		theirTags, err := r.Tags.GetUserTags(ctx, uid, core.TagTypeProfile)
		if err != nil {
			return nil, err
		}
		mutual := 0
		for _, id := range theirTags {
			if _, ok := myTags[id]; ok {
				mutual++
			}
		}
		if mutual > 0 || matchCount[uid] >= 2 {
			admitted = append(admitted, uid)
		}
		if len(admitted) >= limit {
			break
		}
	}
	if len(admitted) == 0 {
		return nil, nil
	}

	out, err := cardsForUsers(ctx, r.Cards, admitted)
	if err != nil {
		return nil, err
	}
	for _, c := range out {
		c.PutLabel(LabelReason, utils.Label{Value: ReasonSocialMatch, Source: "recall"})
	}
	return out, nil
}
