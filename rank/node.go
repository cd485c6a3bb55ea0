package rank

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/feature"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pipeline"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

// Node 是排序 Node：给全部候选打分，按分数降序稳定排序并截断。
// - 写入 labels：rank_scorer
// - 更新 candidate.Score
type Node struct {
	Scorer *Scorer

	// Limit 截断长度，0 表示不截断
	Limit int

	// Features 可选的实时特征服务，为内容候选提供实时互动量。
	// 拉取失败时降级为存储快照，不中断请求。
	Features feature.Service

	Logger zerolog.Logger
}

func (n *Node) Name() string        { return "rank.scorer" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.Scorer == nil || len(items) == 0 {
		return items, nil
	}

	realtime := n.fetchRealtime(ctx, items)

	for _, c := range items {
		if c == nil {
			continue
		}
		c.Score = n.Scorer.Score(rctx, c, realtime[c.ID])
		c.PutLabel("rank_scorer", utils.Label{Value: n.Name(), Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})

	if n.Limit > 0 && len(items) > n.Limit {
		items = items[:n.Limit]
	}
	return items, nil
}

// fetchRealtime 批量拉取内容候选的实时特征。失败时返回 nil，打分退回快照计数。
func (n *Node) fetchRealtime(ctx context.Context, items []*core.Candidate) map[string]map[string]float64 {
	if n.Features == nil {
		return nil
	}
	ids := make([]string, 0, len(items))
	for _, c := range items {
		if c != nil && c.IsContent() {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	realtime, err := n.Features.BatchGetCardFeatures(ctx, ids)
	if err != nil {
		n.Logger.Warn().Err(err).Str("service", n.Features.Name()).
			Msg("realtime features unavailable, falling back to stored counts")
		return nil
	}
	return realtime
}
