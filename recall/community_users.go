package recall

import (
	"context"
	"sort"
	"time"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

// CommunityUsers 是用户族策略 1：社群用户召回。
//
// 召回与请求者持有共同社群标签的用户，按加入社群的时间倒序
// （优先把社群新人介绍给老成员）。
type CommunityUsers struct {
	Tags  core.TagStore
	Cards core.CardStore
}

func (r *CommunityUsers) Name() string { return "recall.community_users" }

func (r *CommunityUsers) Recall(
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

	// 同一用户可能出现在多个社群中，取最近一次加入时间。
	latestJoin := make(map[string]time.Time)
	for _, tagID := range tagIDs {
		members, err := r.Tags.GetTagMembers(ctx, tagID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if m.UserID == rctx.UserID || rctx.Exclusions.ExcludesUser(m.UserID) {
				continue
			}
			if t, ok := latestJoin[m.UserID]; !ok || m.JoinedAt.After(t) {
				latestJoin[m.UserID] = m.JoinedAt
			}
		}
	}
	if len(latestJoin) == 0 {
		return nil, nil
	}

	userIDs := make([]string, 0, len(latestJoin))
	for uid := range latestJoin {
		userIDs = append(userIDs, uid)
	}
	sort.SliceStable(userIDs, func(i, j int) bool {
		ti, tj := latestJoin[userIDs[i]], latestJoin[userIDs[j]]
		if ti.Equal(tj) {
			return userIDs[i] < userIDs[j]
		}
		return ti.After(tj)
	})
	if len(userIDs) > limit {
		userIDs = userIDs[:limit]
	}

	out, err := cardsForUsers(ctx, r.Cards, userIDs)
	if err != nil {
		return nil, err
	}
	for _, c := range out {
		c.PutLabel(LabelReason, utils.Label{Value: ReasonCommunityMember, Source: "recall"})
	}
	return out, nil
}
