package filter

import (
	"context"
	"time"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

// ExclusionBuilder 构建排除集：近期浏览过、已建立连接的用户，
// 以及这些用户名下的全部卡片。召回前构建一次，整条流水线共用。
type ExclusionBuilder struct {
	// Connections 提供浏览记录与连接关系
	Connections core.ConnectionStore

	// Cards 用于把排除用户展开成其名下的卡片 ID
	Cards core.CardStore

	// Content 用于内容范围下排除请求者自己发布的话题/投票
	Content core.ContentStore

	// Votes 用于内容范围下排除已参与过的投票
	Votes core.VoteStore

	// Window 是浏览记录的回看窗口，默认 14 天
	Window time.Duration

	Clock core.Clock
}

// Build 为指定用户构建排除集。
// 匿名请求（userID 为空）返回空集。
// contentScope 为 true 时额外排除用户自己发布的内容和已投过的投票。
// 任一信号源失败时降级为跳过该信号，排除集只会变小不会报错。
func (b *ExclusionBuilder) Build(
	ctx context.Context,
	userID string,
	contentScope bool,
) *core.ExclusionSet {
	if userID == "" {
		return core.EmptyExclusionSet()
	}

	users := map[string]struct{}{userID: {}}
	cards := make(map[string]struct{})

	window := b.Window
	if window <= 0 {
		window = time.Duration(core.DefaultRecentViewDays) * 24 * time.Hour
	}

	if b.Connections != nil {
		if viewed, err := b.Connections.GetRecentViews(ctx, userID, window); err == nil {
			for _, id := range viewed {
				users[id] = struct{}{}
			}
		}
		if conns, err := b.Connections.GetConnections(ctx, userID); err == nil {
			for _, c := range conns {
				if c.Type != core.ConnectionFollow {
					continue
				}
				users[c.FromUserID] = struct{}{}
				users[c.ToUserID] = struct{}{}
			}
		}
	}

	if b.Cards != nil {
		ids := make([]string, 0, len(users))
		for id := range users {
			ids = append(ids, id)
		}
		if owned, err := b.Cards.QueryByOwner(ctx, core.CardQuery{OwnerIDs: ids}); err == nil {
			for _, c := range owned {
				cards[c.ID] = struct{}{}
			}
		}
	}

	if contentScope {
		b.contentExclusions(ctx, userID, cards)
	}

	userIDs := make([]string, 0, len(users))
	for id := range users {
		userIDs = append(userIDs, id)
	}
	cardIDs := make([]string, 0, len(cards))
	for id := range cards {
		cardIDs = append(cardIDs, id)
	}
	return core.NewExclusionSet(userIDs, cardIDs)
}

// contentExclusions 添加内容范围的排除项：自己发布的话题/投票、投过的投票。
func (b *ExclusionBuilder) contentExclusions(
	ctx context.Context,
	userID string,
	cards map[string]struct{},
) {
	if b.Content != nil {
		own := core.ContentQuery{OwnerIDs: []string{userID}}
		if topics, err := b.Content.QueryTopics(ctx, own); err == nil {
			for _, c := range topics {
				cards[c.ID] = struct{}{}
			}
		}
		if votes, err := b.Content.QueryVotes(ctx, own); err == nil {
			for _, c := range votes {
				cards[c.ID] = struct{}{}
			}
		}
	}
	if b.Votes != nil {
		if voted, err := b.Votes.GetVotedCardIDs(ctx, userID); err == nil {
			for _, id := range voted {
				cards[id] = struct{}{}
			}
		}
	}
}

// ExclusionFilter 按排除集过滤候选。召回策略已经预先应用过排除集，
// 这里作为流水线上的兜底，保证漏网的候选不会进入排序。
type ExclusionFilter struct{}

func (f *ExclusionFilter) Name() string {
	return "filter.exclusion"
}

func (f *ExclusionFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if rctx == nil || rctx.Exclusions == nil {
		return false, nil
	}
	return rctx.Exclusions.Excludes(c), nil
}
