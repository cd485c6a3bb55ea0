package rerank

import (
	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

// Mix 按固定配比交错合并两条有序候选流：每轮先取 userRatio 个主流
// 候选，再取 contentRatio 个次流候选，直到两条流都耗尽；一条流
// 先耗尽时按序放完另一条。输入有序则输出确定。
//
// 默认配比 2:1（用户卡片:内容卡片）。
func Mix(primary, secondary []*core.Candidate, userRatio, contentRatio int) []*core.Candidate {
	if userRatio <= 0 {
		userRatio = core.DefaultUserRatio
	}
	if contentRatio <= 0 {
		contentRatio = core.DefaultContentRatio
	}

	out := make([]*core.Candidate, 0, len(primary)+len(secondary))
	pi, si := 0, 0

	for pi < len(primary) || si < len(secondary) {
		for n := 0; n < userRatio && pi < len(primary); n++ {
			out = append(out, primary[pi])
			pi++
		}
		for n := 0; n < contentRatio && si < len(secondary); n++ {
			out = append(out, secondary[si])
			si++
		}
	}
	return out
}
