package recall

import (
	"context"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

// Source 表示一个可复用的召回策略（社群/实用目的/社交关系/...）。
// 约定：
//   - 信号缺失（用户没有标签、没有连接等）不是错误，返回空列表即可
//   - 返回的候选必须已经剔除 rctx.Exclusions 命中的用户与卡片
//   - limit 是本策略的召回上限，返回有序列表
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext, limit int) ([]*core.Candidate, error)
}

// Label key 约定：由 Cascade 与各 Source 写入，feed 层转换为对外的推荐理由。
const (
	LabelRecallSource   = "recall_source"
	LabelRecallPriority = "recall_priority"
	LabelReason         = "reason"
)

// 推荐理由文案（与小程序端约定）。
const (
	ReasonCommunityMember = "社群成员"
	ReasonPracticalMatch  = "需求匹配"
	ReasonSocialMatch     = "兴趣相投"
	ReasonLongNoVisit     = "最久未访问"
	ReasonActiveUser      = "活跃用户"
	ReasonHotTopic        = "热门话题"
	ReasonHotVote         = "热门投票"
	ReasonRecommendTopic  = "推荐话题"
	ReasonRecommendVote   = "推荐投票"
	ReasonRandomPick      = "随机推荐"
	ReasonHotPick         = "热门推荐"
)
