package pipeline

import (
	"context"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

// Pipeline 把一个候选族的推荐逻辑拆成可组合的 Node 链：
// 召回 -> 过滤 -> 排序 -> 重排。feed.Service 为用户族与内容族各组装一条。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := candidates
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
