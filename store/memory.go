package store

import (
	"context"
	"sort"
	"time"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

// Memory 是全部协作方接口的内存实现，多用于测试和本地开发。
// 通过 Add* 方法预置数据，查询方法返回候选的深拷贝，
// 流水线对 Score/Labels 的写入不会污染预置数据。
type Memory struct {
	Clock core.Clock

	users       map[string]*core.UserInfo
	cards       map[string]*core.Candidate
	topics      map[string]*core.Candidate
	votes       map[string]*core.Candidate
	tags        map[int64]*core.TagInfo
	tagMembers  map[int64][]core.TagMember
	connections []core.Connection
	votedCards  map[string][]string
	voteResults map[string]*core.VoteResults
}

// NewMemory 创建空的内存存储。
func NewMemory() *Memory {
	return &Memory{
		Clock:       core.SystemClock{},
		users:       make(map[string]*core.UserInfo),
		cards:       make(map[string]*core.Candidate),
		topics:      make(map[string]*core.Candidate),
		votes:       make(map[string]*core.Candidate),
		tags:        make(map[int64]*core.TagInfo),
		tagMembers:  make(map[int64][]core.TagMember),
		votedCards:  make(map[string][]string),
		voteResults: make(map[string]*core.VoteResults),
	}
}

// Stores 把内存存储打包为 core.Stores。
func (m *Memory) Stores() *core.Stores {
	return &core.Stores{
		Users:       m,
		Cards:       m,
		Content:     m,
		Tags:        m,
		Connections: m,
		Votes:       m,
	}
}

// ---- 数据预置 ----

func (m *Memory) AddUser(u *core.UserInfo) { m.users[u.ID] = u }

func (m *Memory) AddCard(c *core.Candidate) { m.cards[c.ID] = c }

func (m *Memory) AddContent(c *core.Candidate) {
	switch c.CardType {
	case core.CardTypeTopic:
		m.topics[c.ID] = c
	case core.CardTypeVote:
		m.votes[c.ID] = c
	}
}

func (m *Memory) AddTag(t *core.TagInfo) { m.tags[t.ID] = t }

func (m *Memory) AddTagMember(tagID int64, userID string, joinedAt time.Time) {
	m.tagMembers[tagID] = append(m.tagMembers[tagID], core.TagMember{
		UserID:   userID,
		JoinedAt: joinedAt,
	})
}

func (m *Memory) AddConnection(c core.Connection) {
	m.connections = append(m.connections, c)
}

func (m *Memory) AddVotedCard(userID, cardID string) {
	m.votedCards[userID] = append(m.votedCards[userID], cardID)
}

func (m *Memory) SetVoteResults(cardID string, r *core.VoteResults) {
	m.voteResults[cardID] = r
}

// ---- core.UserStore ----

func (m *Memory) Get(ctx context.Context, id string) (*core.UserInfo, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	out := *u
	return &out, nil
}

func (m *Memory) QueryActive(ctx context.Context, q core.ActiveUserQuery) ([]*core.UserInfo, error) {
	out := make([]*core.UserInfo, 0, len(m.users))
	for _, u := range m.users {
		if !u.Active || u.ID == q.ExcludeUserID {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// ---- core.CardStore ----

func (m *Memory) QueryByOwner(ctx context.Context, q core.CardQuery) ([]*core.Candidate, error) {
	owners := toSet(q.OwnerIDs)
	out := make([]*core.Candidate, 0, len(q.OwnerIDs))
	for _, c := range m.cards {
		if owners != nil {
			if _, ok := owners[c.OwnerID]; !ok {
				continue
			}
		}
		if q.PublicOnly && c.Visibility != core.VisibilityPublic {
			continue
		}
		if q.ActiveOnly {
			if !c.Active || c.Deleted {
				continue
			}
			// 所有者已停用时名片不对外露出
			if owner, ok := m.users[c.OwnerID]; ok && !owner.Active {
				continue
			}
		}
		out = append(out, c.Clone())
	}
	sortByUpdated(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// ---- core.ContentStore ----

func (m *Memory) QueryTopics(ctx context.Context, q core.ContentQuery) ([]*core.Candidate, error) {
	return m.queryContent(m.topics, q), nil
}

func (m *Memory) QueryVotes(ctx context.Context, q core.ContentQuery) ([]*core.Candidate, error) {
	return m.queryContent(m.votes, q), nil
}

func (m *Memory) queryContent(pool map[string]*core.Candidate, q core.ContentQuery) []*core.Candidate {
	owners := toSet(q.OwnerIDs)
	out := make([]*core.Candidate, 0, len(pool))
	for _, c := range pool {
		if owners != nil {
			if _, ok := owners[c.OwnerID]; !ok {
				continue
			}
		}
		if q.ExcludeOwnerID != "" && c.OwnerID == q.ExcludeOwnerID {
			continue
		}
		if q.PublicOnly && c.Visibility != core.VisibilityPublic {
			continue
		}
		if q.ActiveOnly && (!c.Active || c.Deleted) {
			continue
		}
		out = append(out, c.Clone())
	}

	switch q.OrderBy {
	case core.ContentOrderRecentlyUpdated:
		sortByUpdated(out)
	case core.ContentOrderPopular:
		sort.Slice(out, func(i, j int) bool {
			if out[i].Engagement() == out[j].Engagement() {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].Engagement() > out[j].Engagement()
		})
	default: // newest
		sort.Slice(out, func(i, j int) bool {
			if out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].ID < out[j].ID
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// ---- core.TagStore ----

func (m *Memory) GetTag(ctx context.Context, tagID int64) (*core.TagInfo, error) {
	t, ok := m.tags[tagID]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	out := *t
	return &out, nil
}

func (m *Memory) GetUserTags(ctx context.Context, userID string, tagType core.TagType) ([]int64, error) {
	var out []int64
	for tagID, members := range m.tagMembers {
		tag, ok := m.tags[tagID]
		if !ok || tag.Deleted {
			continue
		}
		if tagType != core.TagTypeAny && tag.TagType != tagType {
			continue
		}
		for _, mem := range members {
			if mem.UserID == userID {
				out = append(out, tagID)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m *Memory) GetTagMembers(ctx context.Context, tagID int64) ([]core.TagMember, error) {
	members := m.tagMembers[tagID]
	out := make([]core.TagMember, 0, len(members))
	for _, mem := range members {
		if u, ok := m.users[mem.UserID]; ok && !u.Active {
			continue
		}
		out = append(out, mem)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].UserID < out[j].UserID
		}
		return out[i].JoinedAt.After(out[j].JoinedAt)
	})
	return out, nil
}

// ---- core.ConnectionStore ----

func (m *Memory) GetRecentViews(ctx context.Context, userID string, window time.Duration) ([]string, error) {
	cutoff := m.now().Add(-window)
	seen := make(map[string]struct{})
	var out []string
	for _, c := range m.connections {
		if c.FromUserID != userID || c.Type != core.ConnectionView {
			continue
		}
		if c.UpdatedAt.Before(cutoff) {
			continue
		}
		if _, ok := seen[c.ToUserID]; ok {
			continue
		}
		seen[c.ToUserID] = struct{}{}
		out = append(out, c.ToUserID)
	}
	return out, nil
}

func (m *Memory) GetConnections(ctx context.Context, userID string) ([]core.Connection, error) {
	var out []core.Connection
	for _, c := range m.connections {
		if c.FromUserID == userID || c.ToUserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

// ---- core.VoteStore ----

func (m *Memory) GetVotedCardIDs(ctx context.Context, userID string) ([]string, error) {
	return append([]string(nil), m.votedCards[userID]...), nil
}

func (m *Memory) GetVoteResults(ctx context.Context, cardID, userID string) (*core.VoteResults, error) {
	r, ok := m.voteResults[cardID]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	out := *r
	out.Options = append([]core.VoteOption(nil), r.Options...)
	if userID != "" {
		for _, id := range m.votedCards[userID] {
			if id == cardID {
				out.HasVoted = true
				break
			}
		}
	}
	return &out, nil
}

func (m *Memory) now() time.Time {
	if m.Clock != nil {
		return m.Clock.Now()
	}
	return time.Now()
}

func toSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortByUpdated(items []*core.Candidate) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
}

var (
	_ core.UserStore       = (*Memory)(nil)
	_ core.CardStore       = (*Memory)(nil)
	_ core.ContentStore    = (*Memory)(nil)
	_ core.TagStore        = (*Memory)(nil)
	_ core.ConnectionStore = (*Memory)(nil)
	_ core.VoteStore       = (*Memory)(nil)
)
