package recall

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pipeline"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

// Cascade 是一个 Recall Node：按固定优先级依次执行召回策略，
// 累积去重后的候选，达到 Limit 即跳过剩余策略（early termination）。
//
// 失败语义：单个策略出错或超时只记日志并贡献零候选，不中断请求；
// 所有策略都失败时返回 STRATEGY_FAILED，由 feed 层决定降级。
//
// Parallel 为 true 时策略并发执行（每策略一个 goroutine），
// 合并仍严格按优先级顺序进行，排序语义与串行一致。
type Cascade struct {
	Sources []Source

	// TopUp 是补量策略：仅当主策略有产出但未足量时按序执行，
	// 主策略全空时跳过（空产出交由 feed 层兜底，而不是在这里补量）。
	TopUp []Source

	// Limit 是累积候选上限（RECALL_LIMIT）。
	Limit int

	// PerSourceLimit 是传递给单个策略的召回上限；0 表示使用 Limit。
	PerSourceLimit int

	// Timeout 是单个策略的超时时间；超时视为策略失败。
	Timeout time.Duration

	// DedupOwners 为 true 时每个 owner 至多保留一张卡片（用户族规则）。
	DedupOwners bool

	Parallel bool

	Logger zerolog.Logger
}

func (n *Cascade) Name() string        { return "recall.cascade" }
func (n *Cascade) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Cascade) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	limit := n.Limit
	if limit <= 0 {
		limit = core.DefaultRecallLimit
	}
	perSource := n.PerSourceLimit
	if perSource <= 0 {
		perSource = limit
	}

	m := newMerger(limit, n.DedupOwners)
	var failed int
	if n.Parallel {
		results, parallelFailed := n.recallParallel(ctx, rctx, perSource, limit)
		failed = parallelFailed
		for i, items := range results {
			m.add(items, n.Sources[i].Name(), i)
		}
	} else {
		failed = n.recallSequential(ctx, rctx, m, perSource)
	}

	if failed == len(n.Sources) {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeStrategyFailed,
			"recall: all sources failed")
	}

	if len(m.out) > 0 && len(m.out) < limit {
		n.topUp(ctx, rctx, m, perSource)
	}
	return m.out, nil
}

// topUp 串行执行补量策略；失败只记日志。
func (n *Cascade) topUp(
	ctx context.Context,
	rctx *core.RecommendContext,
	m *merger,
	perSource int,
) {
	for i, src := range n.TopUp {
		if m.full() {
			return
		}
		items, err := n.callSource(ctx, rctx, src, perSource)
		if err != nil {
			n.Logger.Warn().
				Str("request_id", rctx.RequestID).
				Str("source", src.Name()).
				Err(err).
				Msg("补量策略失败，跳过")
			continue
		}
		m.add(items, src.Name(), len(n.Sources)+i)
	}
}

// recallSequential 按优先级串行执行，边执行边合并去重；
// 累积的去重候选足量后跳过剩余策略。
func (n *Cascade) recallSequential(
	ctx context.Context,
	rctx *core.RecommendContext,
	m *merger,
	perSource int,
) int {
	failed := 0
	for i, src := range n.Sources {
		if m.full() {
			break
		}
		items, err := n.callSource(ctx, rctx, src, perSource)
		if err != nil {
			failed++
			n.Logger.Warn().
				Str("request_id", rctx.RequestID).
				Str("source", src.Name()).
				Err(err).
				Msg("召回策略失败，跳过")
			continue
		}
		m.add(items, src.Name(), i)
	}
	return failed
}

// recallParallel 并发执行全部策略；合并阶段按优先级截断，
// 排序语义（优先级优先、足量截断）与串行一致。
func (n *Cascade) recallParallel(
	ctx context.Context,
	rctx *core.RecommendContext,
	perSource, limit int,
) ([][]*core.Candidate, int) {
	results := make([][]*core.Candidate, len(n.Sources))
	failures := make([]bool, len(n.Sources))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, src := range n.Sources {
		i, src := i, src
		eg.Go(func() error {
			items, err := n.callSource(egCtx, rctx, src, perSource)
			if err != nil {
				failures[i] = true
				n.Logger.Warn().
					Str("request_id", rctx.RequestID).
					Str("source", src.Name()).
					Err(err).
					Msg("召回策略失败，跳过")
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = eg.Wait()

	failed := 0
	for _, f := range failures {
		if f {
			failed++
		}
	}
	return results, failed
}

// callSource 执行单个策略并套上超时。
func (n *Cascade) callSource(
	ctx context.Context,
	rctx *core.RecommendContext,
	src Source,
	limit int,
) ([]*core.Candidate, error) {
	recallCtx := ctx
	if n.Timeout > 0 {
		var cancel context.CancelFunc
		recallCtx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}
	return src.Recall(recallCtx, rctx, limit)
}

// merger 按优先级顺序增量合并：卡片 ID 去重；dedupOwners 时 owner
// 去重；累积达到 limit 即停止接收。
type merger struct {
	seenIDs     map[string]struct{}
	seenOwners  map[string]struct{}
	out         []*core.Candidate
	limit       int
	dedupOwners bool
}

func newMerger(limit int, dedupOwners bool) *merger {
	return &merger{
		seenIDs:     make(map[string]struct{}, limit),
		seenOwners:  make(map[string]struct{}, limit),
		out:         make([]*core.Candidate, 0, limit),
		limit:       limit,
		dedupOwners: dedupOwners,
	}
}

func (m *merger) full() bool { return len(m.out) >= m.limit }

func (m *merger) add(items []*core.Candidate, sourceName string, priority int) {
	if m.full() {
		return
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, ok := m.seenIDs[it.ID]; ok {
			continue
		}
		if m.dedupOwners {
			if _, ok := m.seenOwners[it.OwnerID]; ok {
				continue
			}
		}
		m.seenIDs[it.ID] = struct{}{}
		m.seenOwners[it.OwnerID] = struct{}{}

		it.PutLabel(LabelRecallSource, utils.Label{Value: sourceName, Source: "recall"})
		it.PutLabel(LabelRecallPriority, utils.Label{Value: strconv.Itoa(priority), Source: "recall"})

		m.out = append(m.out, it)
		if m.full() {
			return
		}
	}
}
