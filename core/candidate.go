package core

import (
	"time"

	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

// CardType 是候选卡片的类型判别符，贯穿召回/排序/混排/输出全链路。
type CardType string

const (
	CardTypeUser  CardType = "user"  // 用户名片
	CardTypeTopic CardType = "topic" // 话题卡片
	CardTypeVote  CardType = "vote"  // 投票卡片
)

// Visibility 是卡片可见性。
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// VoteKind 是投票类型：单选 / 多选。
type VoteKind string

const (
	VoteKindSingle   VoteKind = "single"
	VoteKindMultiple VoteKind = "multiple"
)

// Candidate 是推荐链路中的统一承载结构：一个可被召回的实体
// （用户名片 / 话题卡片 / 投票卡片）。
//
// 通过 CardType + 对应的 payload 指针构成 tagged union，
// 避免在打分/去重/混排处对 map 做键检查。
// 公共字段放在外层；Score 用于排序决策；Labels 用于解释与策略驱动。
type Candidate struct {
	ID       string
	CardType CardType

	// OwnerID 是卡片创建者/所属用户。
	OwnerID string

	CreatedAt time.Time
	UpdatedAt time.Time

	Visibility Visibility
	Active     bool
	Deleted    bool

	// Score 是打分阶段写入的相关性分数，范围 [0,100]。
	// 召回阶段为 0；排序之外的组件不应解释其数值。
	Score float64

	// 按 CardType 恰好一个非 nil。
	User  *UserCard
	Topic *TopicCard
	Vote  *VoteCard

	Labels map[string]utils.Label
}

// UserCard 是用户名片的专有字段。
type UserCard struct {
	DisplayName string
	AvatarURL   string
	Bio         string
	Gender      string
	Occupation  string
	Location    string
	TagIDs      []int64
}

// TopicCard 是话题卡片的专有字段。
type TopicCard struct {
	Title           string
	Description     string
	Category        string
	TagIDs          []int64
	DiscussionCount int64
	LikeCount       int64
	ViewCount       int64
	IsAnonymous     bool
}

// VoteCard 是投票卡片的专有字段。
type VoteCard struct {
	Title       string
	Description string
	Category    string
	VoteKind    VoteKind
	TotalVotes  int64
	ViewCount   int64
	EndTime     *time.Time
}

// NewUserCandidate 创建一个用户名片候选。
func NewUserCandidate(id, ownerID string, card *UserCard) *Candidate {
	return &Candidate{
		ID:       id,
		CardType: CardTypeUser,
		OwnerID:  ownerID,
		User:     card,
		Labels:   make(map[string]utils.Label),
	}
}

// NewTopicCandidate 创建一个话题卡片候选。
func NewTopicCandidate(id, ownerID string, card *TopicCard) *Candidate {
	return &Candidate{
		ID:       id,
		CardType: CardTypeTopic,
		OwnerID:  ownerID,
		Topic:    card,
		Labels:   make(map[string]utils.Label),
	}
}

// NewVoteCandidate 创建一个投票卡片候选。
func NewVoteCandidate(id, ownerID string, card *VoteCard) *Candidate {
	return &Candidate{
		ID:       id,
		CardType: CardTypeVote,
		OwnerID:  ownerID,
		Vote:     card,
		Labels:   make(map[string]utils.Label),
	}
}

// IsContent 表示候选是否为内容类卡片（话题/投票）。
func (c *Candidate) IsContent() bool {
	return c.CardType == CardTypeTopic || c.CardType == CardTypeVote
}

// Surfaceable 表示候选是否可出现在 Feed 中：公开、活跃、未删除。
func (c *Candidate) Surfaceable() bool {
	return c.Visibility == VisibilityPublic && c.Active && !c.Deleted
}

// Title 返回内容卡片的标题；用户名片返回空串。
func (c *Candidate) Title() string {
	switch c.CardType {
	case CardTypeTopic:
		if c.Topic != nil {
			return c.Topic.Title
		}
	case CardTypeVote:
		if c.Vote != nil {
			return c.Vote.Title
		}
	}
	return ""
}

// Engagement 返回内容卡片的综合互动量：
// 话题取 讨论数+点赞数，投票取总票数。用户名片返回 0。
func (c *Candidate) Engagement() int64 {
	switch c.CardType {
	case CardTypeTopic:
		if c.Topic != nil {
			return c.Topic.DiscussionCount + c.Topic.LikeCount
		}
	case CardTypeVote:
		if c.Vote != nil {
			return c.Vote.TotalVotes
		}
	}
	return 0
}

// TagIDs 返回候选携带的标签 ID 列表（用户名片与话题卡片）。
func (c *Candidate) TagIDs() []int64 {
	switch c.CardType {
	case CardTypeUser:
		if c.User != nil {
			return c.User.TagIDs
		}
	case CardTypeTopic:
		if c.Topic != nil {
			return c.Topic.TagIDs
		}
	}
	return nil
}

// Clone 返回候选的深拷贝。候选生命周期是请求级的：存储实现在
// 返回候选前应当拷贝，避免流水线写入 Score/Labels 污染共享数据。
func (c *Candidate) Clone() *Candidate {
	if c == nil {
		return nil
	}
	out := *c
	if c.Labels != nil {
		out.Labels = make(map[string]utils.Label, len(c.Labels))
		for k, v := range c.Labels {
			out.Labels[k] = v
		}
	}
	if c.User != nil {
		u := *c.User
		u.TagIDs = append([]int64(nil), c.User.TagIDs...)
		out.User = &u
	}
	if c.Topic != nil {
		t := *c.Topic
		t.TagIDs = append([]int64(nil), c.Topic.TagIDs...)
		out.Topic = &t
	}
	if c.Vote != nil {
		v := *c.Vote
		if c.Vote.EndTime != nil {
			end := *c.Vote.EndTime
			v.EndTime = &end
		}
		out.Vote = &v
	}
	return &out
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// SetLabel 覆盖写入 Label，不做 Merge。
func (c *Candidate) SetLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	c.Labels[key] = lbl
}

// GetLabel 读取 Label 的 Value；不存在时返回空串。
func (c *Candidate) GetLabel(key string) string {
	if c.Labels == nil {
		return ""
	}
	return c.Labels[key].Value
}
