package recall

import (
	"context"
	"sort"
	"time"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

// SocialRelationUsers 是用户族策略 4：社交关系召回。
//
// 召回久未联络的熟人：
//  1. 最近（窗口内）访问过请求者主页的用户，最近访问在前
//  2. 请求者很久以前访问过的用户，最久远在前
//
// 两段合并，近期访客优先。
type SocialRelationUsers struct {
	Connections core.ConnectionStore
	Cards       core.CardStore

	// Window 是"最近"的时间窗口（默认 14 天）。
	Window time.Duration
	Clock  core.Clock
}

func (r *SocialRelationUsers) Name() string { return "recall.social_relations" }

func (r *SocialRelationUsers) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	if rctx.Anonymous() {
		return nil, nil
	}

	window := r.Window
	if window <= 0 {
		window = core.DefaultRecentViewDays * 24 * time.Hour
	}
	clock := r.Clock
	if clock == nil {
		clock = core.SystemClock{}
	}
	cutoff := clock.Now().Add(-window)

	conns, err := r.Connections.GetConnections(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}

	var recentVisitors, staleVisited []core.Connection
	for _, c := range conns {
		if c.Type != core.ConnectionVisit {
			continue
		}
		switch {
		case c.ToUserID == rctx.UserID && !c.UpdatedAt.Before(cutoff):
			recentVisitors = append(recentVisitors, c)
		case c.FromUserID == rctx.UserID && c.UpdatedAt.Before(cutoff):
			staleVisited = append(staleVisited, c)
		}
	}

	// 近期访客：最近在前；久远访问：最旧在前。
	sort.SliceStable(recentVisitors, func(i, j int) bool {
		return recentVisitors[i].UpdatedAt.After(recentVisitors[j].UpdatedAt)
	})
	sort.SliceStable(staleVisited, func(i, j int) bool {
		return staleVisited[i].UpdatedAt.Before(staleVisited[j].UpdatedAt)
	})

	order := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, c := range recentVisitors {
		if c.FromUserID == rctx.UserID || rctx.Exclusions.ExcludesUser(c.FromUserID) {
			continue
		}
		order = uniqueAppend(order, seen, c.FromUserID)
		if len(order) >= limit {
			break
		}
	}
	for _, c := range staleVisited {
		if len(order) >= limit {
			break
		}
		if rctx.Exclusions.ExcludesUser(c.ToUserID) {
			continue
		}
		order = uniqueAppend(order, seen, c.ToUserID)
	}
	if len(order) == 0 {
		return nil, nil
	}

	out, err := cardsForUsers(ctx, r.Cards, order)
	if err != nil {
		return nil, err
	}
	for _, c := range out {
		c.PutLabel(LabelReason, utils.Label{Value: ReasonLongNoVisit, Source: "recall"})
	}
	return out, nil
}
