package rerank

import (
	"context"
	"strings"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pipeline"
)

// TitleDedup 按标题相似度去重的 ReRank 节点：保留每组近重复标题中
// 首个出现的候选，其余丢弃。只作用于内容卡片，用户卡片一律放行。
//
// 相似度是小写标题字符集上的 Jaccard 系数（|A∩B| / |A∪B|）。
// 字符集对短标题区分度有限，但分布上能挡住模板化灌水内容。
type TitleDedup struct {
	// Threshold 判定为近重复的相似度阈值，非正时取 0.8
	Threshold float64
}

func (n *TitleDedup) Name() string {
	return "rerank.title_dedup"
}

func (n *TitleDedup) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TitleDedup) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(items) < 2 {
		return items, nil
	}

	threshold := n.Threshold
	if threshold <= 0 {
		threshold = core.DefaultDedupThreshold
	}

	kept := make([]map[rune]struct{}, 0, len(items))
	out := make([]*core.Candidate, 0, len(items))

	for _, c := range items {
		if c == nil {
			continue
		}
		if !c.IsContent() {
			out = append(out, c)
			continue
		}

		set := charSet(c.Title())
		dup := false
		for _, prev := range kept {
			if jaccard(set, prev) > threshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		kept = append(kept, set)
		out = append(out, c)
	}

	return out, nil
}

func charSet(title string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(title))
	for _, r := range strings.ToLower(title) {
		set[r] = struct{}{}
	}
	return set
}

func jaccard(a, b map[rune]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		// 两个空标题视为相同
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for r := range a {
		if _, ok := b[r]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
