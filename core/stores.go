package core

import (
	"context"
	"time"
)

// 本文件定义推荐引擎消费的只读协作方接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 引擎自身不做任何写入，底层存储支持多读并发即可

// UserInfo 是用户的基础信息（召回/打分所需的投影，不是完整账号模型）。
type UserInfo struct {
	ID          string
	DisplayName string
	AvatarURL   string
	Bio         string
	Gender      string
	Occupation  string
	Location    string
	Active      bool
	UpdatedAt   time.Time
}

// ActiveUserQuery 是活跃用户查询条件。
type ActiveUserQuery struct {
	// ExcludeUserID 非空时排除该用户自身。
	ExcludeUserID string
	// Limit 为最大返回条数；按 UpdatedAt 倒序。
	Limit int
}

// UserStore 提供用户读取。
type UserStore interface {
	// Get 读取单个用户；不存在或已注销返回 ErrStoreNotFound。
	Get(ctx context.Context, id string) (*UserInfo, error)

	// QueryActive 按最近活跃（UpdatedAt 倒序）查询活跃用户。
	QueryActive(ctx context.Context, q ActiveUserQuery) ([]*UserInfo, error)
}

// CardQuery 是用户名片查询条件。
type CardQuery struct {
	// OwnerIDs 限定名片所属用户；为空表示不限。
	OwnerIDs []string
	// PublicOnly / ActiveOnly 限定可见性与活跃状态。
	PublicOnly bool
	ActiveOnly bool
	Limit      int
}

// CardStore 提供用户名片读取。返回的候选 CardType 均为 user。
type CardStore interface {
	// QueryByOwner 查询指定用户的名片，按 UpdatedAt 倒序。
	QueryByOwner(ctx context.Context, q CardQuery) ([]*Candidate, error)
}

// ContentOrder 是内容查询的排序方式。
type ContentOrder string

const (
	// ContentOrderNewest 按创建时间倒序。
	ContentOrderNewest ContentOrder = "newest"
	// ContentOrderRecentlyUpdated 按更新时间倒序。
	ContentOrderRecentlyUpdated ContentOrder = "recently_updated"
	// ContentOrderPopular 按互动量倒序（话题：讨论+点赞；投票：总票数、浏览量），时间兜底。
	ContentOrderPopular ContentOrder = "popular"
)

// ContentQuery 是话题/投票卡片查询条件。
type ContentQuery struct {
	// OwnerIDs 限定创作者；为空表示不限。
	OwnerIDs []string
	// ExcludeOwnerID 非空时排除该创作者的内容。
	ExcludeOwnerID string
	PublicOnly     bool
	ActiveOnly     bool
	OrderBy        ContentOrder
	Limit          int
}

// ContentStore 提供话题/投票卡片读取。
type ContentStore interface {
	// QueryTopics 查询话题卡片，CardType 均为 topic。
	QueryTopics(ctx context.Context, q ContentQuery) ([]*Candidate, error)

	// QueryVotes 查询投票卡片，CardType 均为 vote。
	QueryVotes(ctx context.Context, q ContentQuery) ([]*Candidate, error)
}

// TagType 是标签类型。
type TagType string

const (
	// TagTypeCommunity 社群标签：用户自建群组，可用于 Feed 筛选。
	TagTypeCommunity TagType = "user_community"
	// TagTypePurpose 需求/目的标签：表达用户的具体诉求。
	TagTypePurpose TagType = "user_purpose"
	// TagTypeProfile 画像标签：用户特征与偏好。
	TagTypeProfile TagType = "user_profile"
	// TagTypeAny 不限类型。
	TagTypeAny TagType = ""
)

// TagInfo 是标签元信息。
type TagInfo struct {
	ID        int64
	Name      string
	TagType   TagType
	CreatorID string
	Deleted   bool
}

// TagMember 是标签成员及其加入时间。
type TagMember struct {
	UserID   string
	JoinedAt time.Time
}

// TagStore 提供标签读取。
type TagStore interface {
	// GetTag 读取标签元信息；不存在返回 ErrStoreNotFound。
	GetTag(ctx context.Context, tagID int64) (*TagInfo, error)

	// GetUserTags 读取用户持有的标签 ID；tagType 为 TagTypeAny 时不限类型。
	GetUserTags(ctx context.Context, userID string, tagType TagType) ([]int64, error)

	// GetTagMembers 读取标签的活跃成员，按加入时间倒序。
	GetTagMembers(ctx context.Context, tagID int64) ([]TagMember, error)
}

// ConnectionType 是用户连接类型。
type ConnectionType string

const (
	// ConnectionView 浏览：在 Feed 中看到过对方。
	ConnectionView ConnectionType = "view"
	// ConnectionVisit 访问：主动进入对方主页。
	ConnectionVisit ConnectionType = "visit"
	// ConnectionFollow 关注。
	ConnectionFollow ConnectionType = "follow"
)

// Connection 是一条方向性的用户连接记录。
type Connection struct {
	FromUserID string
	ToUserID   string
	Type       ConnectionType
	UpdatedAt  time.Time
}

// ConnectionStore 提供用户连接读取。
type ConnectionStore interface {
	// GetRecentViews 返回 userID 在时间窗口内浏览过的用户 ID（去重）。
	GetRecentViews(ctx context.Context, userID string, window time.Duration) ([]string, error)

	// GetConnections 返回与 userID 相关的全部连接（双向）。
	GetConnections(ctx context.Context, userID string) ([]Connection, error)
}

// VoteStore 提供投票记录读取。
type VoteStore interface {
	// GetVotedCardIDs 返回用户投过票的投票卡片 ID。
	GetVotedCardIDs(ctx context.Context, userID string) ([]string, error)

	// GetVoteResults 返回卡片的投票聚合结果；userID 非空时附带该用户的投票状态。
	GetVoteResults(ctx context.Context, cardID, userID string) (*VoteResults, error)
}

// Stores 将全部协作方接口打包，便于注入 feed.Service。
type Stores struct {
	Users       UserStore
	Cards       CardStore
	Content     ContentStore
	Tags        TagStore
	Connections ConnectionStore
	Votes       VoteStore
}
