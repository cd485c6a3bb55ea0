package recall

import (
	"context"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

// ActiveUsers 是用户族策略 5：活跃用户补充召回。
//
// 其他策略不足以填满召回池时，用最近活跃的用户补位。
type ActiveUsers struct {
	Users core.UserStore
	Cards core.CardStore
}

func (r *ActiveUsers) Name() string { return "recall.active_users" }

func (r *ActiveUsers) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	users, err := r.Users.QueryActive(ctx, core.ActiveUserQuery{
		ExcludeUserID: rctx.UserID,
		Limit:         limit * 2, // 预留排除余量
	})
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, u := range users {
		if u == nil || rctx.Exclusions.ExcludesUser(u.ID) {
			continue
		}
		order = uniqueAppend(order, seen, u.ID)
		if len(order) >= limit {
			break
		}
	}
	if len(order) == 0 {
		return nil, nil
	}

	out, err := cardsForUsers(ctx, r.Cards, order)
	if err != nil {
		return nil, err
	}
	for _, c := range out {
		c.PutLabel(LabelReason, utils.Label{Value: ReasonActiveUser, Source: "recall"})
	}
	return out, nil
}
