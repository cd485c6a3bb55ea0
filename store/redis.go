package store

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

// Redis 是协作方接口的 Redis 实现。引擎侧只读；Add* 写入方法
// 供数据同步任务使用，与查询共用同一套键结构。
//
// 键结构：
//
//	feed:user:{id}            string  UserInfo JSON
//	feed:users:active         zset    score=UpdatedAt  member=userID
//	feed:card:{id}            string  Candidate JSON
//	feed:cards:owner:{uid}    zset    score=UpdatedAt  member=cardID
//	feed:topic:{id}           string  Candidate JSON
//	feed:topics:created       zset    score=CreatedAt  member=cardID
//	feed:topics:owner:{uid}   set     cardID
//	feed:vote:{id} / feed:votes:* 同话题
//	feed:tag:{id}             string  TagInfo JSON
//	feed:tag:members:{id}     zset    score=JoinedAt   member=userID
//	feed:user:tags:{uid}      hash    field=tagID value=tagType
//	feed:views:{uid}          zset    score=viewedAt   member=toUserID
//	feed:conns:{uid}          list    Connection JSON（双向各写一份）
//	feed:voted:{uid}          set     cardID
//	feed:vote:results:{id}    string  VoteResults JSON
type Redis struct {
	client *redis.Client
	Clock  core.Clock
}

// NewRedis 连接 Redis 并做一次连通性检查。
func NewRedis(addr string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, core.ErrStoreUnavailable
	}
	return &Redis{client: client, Clock: core.SystemClock{}}, nil
}

func (r *Redis) Stores() *core.Stores {
	return &core.Stores{
		Users:       r,
		Cards:       r,
		Content:     r,
		Tags:        r,
		Connections: r,
		Votes:       r,
	}
}

func (r *Redis) Close() error { return r.client.Close() }

const keyPrefix = "feed:"

func userKey(id string) string       { return keyPrefix + "user:" + id }
func cardKey(id string) string       { return keyPrefix + "card:" + id }
func topicKey(id string) string      { return keyPrefix + "topic:" + id }
func voteKey(id string) string       { return keyPrefix + "vote:" + id }
func ownerCardsKey(uid string) string { return keyPrefix + "cards:owner:" + uid }
func tagKey(id int64) string         { return keyPrefix + "tag:" + strconv.FormatInt(id, 10) }
func tagMembersKey(id int64) string  { return keyPrefix + "tag:members:" + strconv.FormatInt(id, 10) }
func userTagsKey(uid string) string  { return keyPrefix + "user:tags:" + uid }
func viewsKey(uid string) string     { return keyPrefix + "views:" + uid }
func connsKey(uid string) string     { return keyPrefix + "conns:" + uid }
func votedKey(uid string) string     { return keyPrefix + "voted:" + uid }
func voteResultsKey(id string) string { return keyPrefix + "vote:results:" + id }

func contentKeys(ct core.CardType) (itemKey func(string) string, createdKey, ownerPrefix string) {
	if ct == core.CardTypeVote {
		return voteKey, keyPrefix + "votes:created", keyPrefix + "votes:owner:"
	}
	return topicKey, keyPrefix + "topics:created", keyPrefix + "topics:owner:"
}

// ---- 写入（数据同步任务使用） ----

func (r *Redis) PutUser(ctx context.Context, u *core.UserInfo) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	pipe := r.client.Pipeline()
	pipe.Set(ctx, userKey(u.ID), data, 0)
	if u.Active {
		pipe.ZAdd(ctx, keyPrefix+"users:active", redis.Z{
			Score:  float64(u.UpdatedAt.Unix()),
			Member: u.ID,
		})
	} else {
		pipe.ZRem(ctx, keyPrefix+"users:active", u.ID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Redis) PutCard(ctx context.Context, c *core.Candidate) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	pipe := r.client.Pipeline()
	pipe.Set(ctx, cardKey(c.ID), data, 0)
	pipe.ZAdd(ctx, ownerCardsKey(c.OwnerID), redis.Z{
		Score:  float64(c.UpdatedAt.Unix()),
		Member: c.ID,
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Redis) PutContent(ctx context.Context, c *core.Candidate) error {
	itemKey, createdKey, ownerPrefix := contentKeys(c.CardType)
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	pipe := r.client.Pipeline()
	pipe.Set(ctx, itemKey(c.ID), data, 0)
	pipe.ZAdd(ctx, createdKey, redis.Z{Score: float64(c.CreatedAt.Unix()), Member: c.ID})
	pipe.SAdd(ctx, ownerPrefix+c.OwnerID, c.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Redis) PutTag(ctx context.Context, t *core.TagInfo) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, tagKey(t.ID), data, 0).Err()
}

func (r *Redis) PutTagMember(ctx context.Context, tagID int64, userID string, tagType core.TagType, joinedAt time.Time) error {
	pipe := r.client.Pipeline()
	pipe.ZAdd(ctx, tagMembersKey(tagID), redis.Z{
		Score:  float64(joinedAt.Unix()),
		Member: userID,
	})
	pipe.HSet(ctx, userTagsKey(userID), strconv.FormatInt(tagID, 10), string(tagType))
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) PutConnection(ctx context.Context, c core.Connection) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	pipe := r.client.Pipeline()
	pipe.RPush(ctx, connsKey(c.FromUserID), data)
	pipe.RPush(ctx, connsKey(c.ToUserID), data)
	if c.Type == core.ConnectionView {
		pipe.ZAdd(ctx, viewsKey(c.FromUserID), redis.Z{
			Score:  float64(c.UpdatedAt.Unix()),
			Member: c.ToUserID,
		})
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Redis) PutVoted(ctx context.Context, userID, cardID string) error {
	return r.client.SAdd(ctx, votedKey(userID), cardID).Err()
}

func (r *Redis) PutVoteResults(ctx context.Context, cardID string, res *core.VoteResults) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, voteResultsKey(cardID), data, 0).Err()
}

// ---- core.UserStore ----

func (r *Redis) Get(ctx context.Context, id string) (*core.UserInfo, error) {
	data, err := r.client.Get(ctx, userKey(id)).Bytes()
	if err == redis.Nil {
		return nil, core.ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	var u core.UserInfo
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Redis) QueryActive(ctx context.Context, q core.ActiveUserQuery) ([]*core.UserInfo, error) {
	// 排除自身时多取一个名额
	stop := int64(-1)
	if q.Limit > 0 {
		stop = int64(q.Limit)
	}
	ids, err := r.client.ZRevRange(ctx, keyPrefix+"users:active", 0, stop).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*core.UserInfo, 0, len(ids))
	for _, id := range ids {
		if id == q.ExcludeUserID {
			continue
		}
		u, err := r.Get(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, u)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

// ---- core.CardStore ----

func (r *Redis) QueryByOwner(ctx context.Context, q core.CardQuery) ([]*core.Candidate, error) {
	var ids []string
	for _, owner := range q.OwnerIDs {
		ownerIDs, err := r.client.ZRevRange(ctx, ownerCardsKey(owner), 0, -1).Result()
		if err != nil {
			return nil, err
		}
		ids = append(ids, ownerIDs...)
	}

	out, err := r.loadCandidates(ctx, cardKey, ids)
	if err != nil {
		return nil, err
	}
	out = r.filterCards(ctx, out, q)
	sortByUpdated(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *Redis) filterCards(ctx context.Context, items []*core.Candidate, q core.CardQuery) []*core.Candidate {
	out := items[:0]
	for _, c := range items {
		if q.PublicOnly && c.Visibility != core.VisibilityPublic {
			continue
		}
		if q.ActiveOnly {
			if !c.Active || c.Deleted {
				continue
			}
			if owner, err := r.Get(ctx, c.OwnerID); err == nil && !owner.Active {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// ---- core.ContentStore ----

func (r *Redis) QueryTopics(ctx context.Context, q core.ContentQuery) ([]*core.Candidate, error) {
	return r.queryContent(ctx, core.CardTypeTopic, q)
}

func (r *Redis) QueryVotes(ctx context.Context, q core.ContentQuery) ([]*core.Candidate, error) {
	return r.queryContent(ctx, core.CardTypeVote, q)
}

func (r *Redis) queryContent(ctx context.Context, ct core.CardType, q core.ContentQuery) ([]*core.Candidate, error) {
	itemKey, createdKey, ownerPrefix := contentKeys(ct)

	var ids []string
	var err error
	if len(q.OwnerIDs) > 0 {
		keys := make([]string, len(q.OwnerIDs))
		for i, owner := range q.OwnerIDs {
			keys[i] = ownerPrefix + owner
		}
		ids, err = r.client.SUnion(ctx, keys...).Result()
	} else {
		ids, err = r.client.ZRevRange(ctx, createdKey, 0, -1).Result()
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadCandidates(ctx, itemKey, ids)
	if err != nil {
		return nil, err
	}

	out := items[:0]
	for _, c := range items {
		if q.ExcludeOwnerID != "" && c.OwnerID == q.ExcludeOwnerID {
			continue
		}
		if q.PublicOnly && c.Visibility != core.VisibilityPublic {
			continue
		}
		if q.ActiveOnly && (!c.Active || c.Deleted) {
			continue
		}
		out = append(out, c)
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
	default:
		sort.Slice(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *Redis) loadCandidates(ctx context.Context, itemKey func(string) string, ids []string) ([]*core.Candidate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = itemKey(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*core.Candidate, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var c core.Candidate
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			continue
		}
		out = append(out, &c)
	}
	return out, nil
}

// ---- core.TagStore ----

func (r *Redis) GetTag(ctx context.Context, tagID int64) (*core.TagInfo, error) {
	data, err := r.client.Get(ctx, tagKey(tagID)).Bytes()
	if err == redis.Nil {
		return nil, core.ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	var t core.TagInfo
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Redis) GetUserTags(ctx context.Context, userID string, tagType core.TagType) ([]int64, error) {
	fields, err := r.client.HGetAll(ctx, userTagsKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(fields))
	for field, typ := range fields {
		if tagType != core.TagTypeAny && core.TagType(typ) != tagType {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *Redis) GetTagMembers(ctx context.Context, tagID int64) ([]core.TagMember, error) {
	zs, err := r.client.ZRevRangeWithScores(ctx, tagMembersKey(tagID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]core.TagMember, 0, len(zs))
	for _, z := range zs {
		userID, ok := z.Member.(string)
		if !ok {
			continue
		}
		if u, err := r.Get(ctx, userID); err == nil && !u.Active {
			continue
		}
		out = append(out, core.TagMember{
			UserID:   userID,
			JoinedAt: time.Unix(int64(z.Score), 0),
		})
	}
	return out, nil
}

// ---- core.ConnectionStore ----

func (r *Redis) GetRecentViews(ctx context.Context, userID string, window time.Duration) ([]string, error) {
	cutoff := r.now().Add(-window).Unix()
	return r.client.ZRangeByScore(ctx, viewsKey(userID), &redis.ZRangeBy{
		Min: strconv.FormatInt(cutoff, 10),
		Max: "+inf",
	}).Result()
}

func (r *Redis) GetConnections(ctx context.Context, userID string) ([]core.Connection, error) {
	vals, err := r.client.LRange(ctx, connsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]core.Connection, 0, len(vals))
	for _, v := range vals {
		var c core.Connection
		if err := json.Unmarshal([]byte(v), &c); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// ---- core.VoteStore ----

func (r *Redis) GetVotedCardIDs(ctx context.Context, userID string) ([]string, error) {
	return r.client.SMembers(ctx, votedKey(userID)).Result()
}

func (r *Redis) GetVoteResults(ctx context.Context, cardID, userID string) (*core.VoteResults, error) {
	data, err := r.client.Get(ctx, voteResultsKey(cardID)).Bytes()
	if err == redis.Nil {
		return nil, core.ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	var res core.VoteResults
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	if userID != "" {
		voted, err := r.client.SIsMember(ctx, votedKey(userID), cardID).Result()
		if err == nil && voted {
			res.HasVoted = true
		}
	}
	return &res, nil
}

func (r *Redis) now() time.Time {
	if r.Clock != nil {
		return r.Clock.Now()
	}
	return time.Now()
}

var (
	_ core.UserStore       = (*Redis)(nil)
	_ core.CardStore       = (*Redis)(nil)
	_ core.ContentStore    = (*Redis)(nil)
	_ core.TagStore        = (*Redis)(nil)
	_ core.ConnectionStore = (*Redis)(nil)
	_ core.VoteStore       = (*Redis)(nil)
)
