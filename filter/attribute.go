package filter

import (
	"context"
	"strings"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

// AttributeFilter 按请求方指定的属性条件过滤用户卡片。
// 只作用于用户卡片，话题/投票卡片一律放行。
type AttributeFilter struct {
	Filters *core.AttributeFilters
}

func (f *AttributeFilter) Name() string {
	return "filter.attribute"
}

func (f *AttributeFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if f.Filters == nil || f.Filters.Empty() {
		return false, nil
	}
	if c == nil || c.User == nil {
		return false, nil
	}

	// 性别取值是固定枚举，按全等比较。
	if f.Filters.Gender != "" && c.User.Gender != f.Filters.Gender {
		return true, nil
	}
	if f.Filters.City != "" && !containsFold(c.User.Location, f.Filters.City) {
		return true, nil
	}
	return false, nil
}

// containsFold 判断 s 是否包含 substr，忽略大小写。
// 地区字段是自由文本（如 "上海·静安"），用包含匹配而不是全等。
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
