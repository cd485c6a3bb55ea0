package core

// ExclusionSet 是请求级的排除集合：本次请求绝不允许出现的用户与卡片。
// 构建完成后不可变；membership 判断为 O(1)。
type ExclusionSet struct {
	users map[string]struct{}
	cards map[string]struct{}
}

// NewExclusionSet 由用户 ID 与卡片 ID 列表构建排除集合。
func NewExclusionSet(userIDs, cardIDs []string) *ExclusionSet {
	s := &ExclusionSet{
		users: make(map[string]struct{}, len(userIDs)),
		cards: make(map[string]struct{}, len(cardIDs)),
	}
	for _, id := range userIDs {
		s.users[id] = struct{}{}
	}
	for _, id := range cardIDs {
		s.cards[id] = struct{}{}
	}
	return s
}

// EmptyExclusionSet 返回空排除集合（匿名/冷启动路径）。
func EmptyExclusionSet() *ExclusionSet {
	return &ExclusionSet{
		users: make(map[string]struct{}),
		cards: make(map[string]struct{}),
	}
}

// ExcludesUser 判断用户是否被排除。
func (s *ExclusionSet) ExcludesUser(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.users[id]
	return ok
}

// ExcludesCard 判断卡片是否被排除。
func (s *ExclusionSet) ExcludesCard(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.cards[id]
	return ok
}

// Excludes 判断候选是否命中排除集合（owner 或卡片本身任一命中即排除）。
func (s *ExclusionSet) Excludes(c *Candidate) bool {
	if s == nil || c == nil {
		return false
	}
	return s.ExcludesUser(c.OwnerID) || s.ExcludesCard(c.ID)
}

// UserIDs 返回被排除用户 ID 的快照（仅用于构建派生查询）。
func (s *ExclusionSet) UserIDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.users))
	for id := range s.users {
		out = append(out, id)
	}
	return out
}

// UserCount 返回被排除用户数。
func (s *ExclusionSet) UserCount() int {
	if s == nil {
		return 0
	}
	return len(s.users)
}

// CardCount 返回被排除卡片数。
func (s *ExclusionSet) CardCount() int {
	if s == nil {
		return 0
	}
	return len(s.cards)
}
