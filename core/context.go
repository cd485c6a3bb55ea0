package core

// AttributeFilters 是请求携带的结构化筛选条件。
// 字段为空串表示不筛选；City 按 Location 子串匹配。
type AttributeFilters struct {
	Gender string
	City   string
}

// Empty 表示没有任何筛选条件。
func (f *AttributeFilters) Empty() bool {
	return f == nil || (f.Gender == "" && f.City == "")
}

// RecommendContext 承载一次 Feed 请求的全部上下文，贯穿整个链路透传。
// 生命周期与请求一致：构建一次，请求结束即丢弃，任何组件不得跨请求缓存。
type RecommendContext struct {
	// RequestID 用于日志串联。
	RequestID string

	// UserID 为空表示匿名请求（冷启动路径）。
	UserID string

	// CommunityTagID 非 nil 时进入社群筛选模式，其余召回策略全部停用。
	CommunityTagID *int64

	// Filters 是结构化筛选；FilterExpr 是请求级 CEL 表达式（可为空）。
	Filters    *AttributeFilters
	FilterExpr string

	Page     int
	PageSize int

	// Exclusions 由 filter.BuildExclusions 构建一次，此后只读。
	Exclusions *ExclusionSet

	// RequesterTags 是请求者的全量标签 ID 集合，打分阶段用于计算标签匹配度。
	RequesterTags map[int64]struct{}

	// InterestedOwners 是请求者"感兴趣的人"集合（近期主动访问过的用户），
	// 内容卡片的创作者匹配加分依赖它。
	InterestedOwners map[string]struct{}

	// Params 请求级扩展参数。
	Params map[string]any
}

// Anonymous 表示是否为匿名请求。
func (rctx *RecommendContext) Anonymous() bool {
	return rctx.UserID == ""
}

// CommunityMode 表示是否为社群筛选模式。
func (rctx *RecommendContext) CommunityMode() bool {
	return rctx.CommunityTagID != nil
}

// InterestedIn 判断 ownerID 是否在请求者的感兴趣集合中。
func (rctx *RecommendContext) InterestedIn(ownerID string) bool {
	if rctx.InterestedOwners == nil {
		return false
	}
	_, ok := rctx.InterestedOwners[ownerID]
	return ok
}

// HasTag 判断请求者是否持有某标签。
func (rctx *RecommendContext) HasTag(tagID int64) bool {
	if rctx.RequesterTags == nil {
		return false
	}
	_, ok := rctx.RequesterTags[tagID]
	return ok
}
