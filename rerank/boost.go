package rerank

import (
	"context"
	"sort"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pipeline"
)

// CreatorBoost 把指定创建者的内容卡片提到队首（按创建时间倒序，
// 最多 Limit 条），其余候选保持原有顺序。社群筛选模式下用来置顶
// 社群主理人的近期内容。
type CreatorBoost struct {
	// CreatorID 要置顶的创建者，为空时节点不生效
	CreatorID string

	// Limit 置顶条数上限，非正时取 3
	Limit int
}

func (n *CreatorBoost) Name() string {
	return "rerank.creator_boost"
}

func (n *CreatorBoost) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *CreatorBoost) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.CreatorID == "" || len(items) == 0 {
		return items, nil
	}

	limit := n.Limit
	if limit <= 0 {
		limit = core.DefaultCreatorBoostLimit
	}

	var boosted, rest []*core.Candidate
	for _, c := range items {
		if c != nil && c.IsContent() && c.OwnerID == n.CreatorID {
			boosted = append(boosted, c)
			continue
		}
		rest = append(rest, c)
	}
	if len(boosted) == 0 {
		return items, nil
	}

	sort.SliceStable(boosted, func(i, j int) bool {
		return boosted[i].CreatedAt.After(boosted[j].CreatedAt)
	})
	if len(boosted) > limit {
		// 超出上限的部分回落到原序列，不丢弃
		rest = append(boosted[limit:], rest...)
		boosted = boosted[:limit]
	}

	return append(boosted, rest...), nil
}
