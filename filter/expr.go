package filter

import (
	"context"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/dsl"
)

// ExprFilter 按 CEL 表达式过滤候选，表达式来自请求参数。
// 表达式描述的是"保留"条件：不匹配的候选会被过滤掉。
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译表达式并创建过滤器。
// 空表达式返回保留一切的过滤器；编译失败返回 INVALID_FILTER 错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleFilter, core.ErrorCodeInvalidFilter, err.Error())
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	ok, err := f.prg.Match(c, rctx)
	if err != nil {
		// 单个候选求值失败时保留该候选，不让表达式错误放空整个结果
		return false, nil
	}
	return !ok, nil
}
