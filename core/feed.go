package core

import "time"

// VoteOption 是投票卡片的一个选项及其票数。
type VoteOption struct {
	ID    int64  `json:"id"`
	Text  string `json:"text"`
	Count int64  `json:"count"`
}

// VoteResults 是投票卡片的聚合结果，用于在 Feed 项上回显投票状态。
type VoteResults struct {
	Options   []VoteOption `json:"options"`
	HasVoted  bool         `json:"has_voted"`
	UserVotes []int64      `json:"user_votes"`
}

// FeedItem 是对外输出的单个 Feed 项（JSON 形态与小程序端约定一致）。
// 按 CardType 填充对应字段，其余为零值省略。
type FeedItem struct {
	ID       string   `json:"id"`
	CardType CardType `json:"card_type"`
	OwnerID  string   `json:"user_id"`

	// 用户名片字段
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatar,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Occupation  string `json:"occupation,omitempty"`
	Location    string `json:"location,omitempty"`

	// 内容卡片字段
	Title        string       `json:"title,omitempty"`
	Content      string       `json:"content,omitempty"`
	Category     string       `json:"category,omitempty"`
	LikeCount    int64        `json:"like_count,omitempty"`
	CommentCount int64        `json:"comment_count,omitempty"`
	ViewCount    int64        `json:"view_count,omitempty"`
	IsAnonymous  bool         `json:"is_anonymous,omitempty"`
	VoteKind     VoteKind     `json:"vote_type,omitempty"`
	TotalVotes   int64        `json:"total_votes,omitempty"`
	VoteDeadline *time.Time   `json:"vote_deadline,omitempty"`
	VoteResults  *VoteResults `json:"vote_results,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// 推荐元信息
	IsRecommendation     bool    `json:"isRecommendation"`
	RecommendationReason string  `json:"recommendationReason,omitempty"`
	RecommendScore       float64 `json:"recommend_score"`
}

// FeedResult 是一次 Feed 请求的完整响应。
type FeedResult struct {
	Items      []*FeedItem `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
	HasNext    bool        `json:"has_next"`
	HasPrev    bool        `json:"has_prev"`

	// IsFallback 表示 items 来自兜底召回（个性化召回过滤后为空）。
	IsFallback bool `json:"is_fallback"`

	// IsColdStart 表示本次走了匿名/新用户冷启动路径。
	IsColdStart bool `json:"is_cold_start,omitempty"`

	// Degraded 表示请求期间所有策略均失败，返回了降级空结果。
	Degraded bool `json:"degraded,omitempty"`
}

// EmptyFeedResult 返回指定分页参数下的空结果。
// 原始行为：total==0 时 total_pages 仍为 1。
func EmptyFeedResult(page, pageSize int) *FeedResult {
	return &FeedResult{
		Items:      []*FeedItem{},
		Total:      0,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: 1,
		HasNext:    false,
		HasPrev:    false,
	}
}
