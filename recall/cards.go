package recall

import (
	"context"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

// cardsForUsers 把一组用户 ID 转换为用户名片候选，保持入参顺序。
//
// 族内去重规则：每个用户至多产出一张名片，取该用户最近更新的
// 公开、活跃、未删除的一张；没有可用名片的用户被跳过。
func cardsForUsers(
	ctx context.Context,
	store core.CardStore,
	userIDs []string,
) ([]*core.Candidate, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	cards, err := store.QueryByOwner(ctx, core.CardQuery{
		OwnerIDs:   userIDs,
		PublicOnly: true,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, err
	}

	// QueryByOwner 按 UpdatedAt 倒序，首次出现即该用户的最新名片。
	best := make(map[string]*core.Candidate, len(userIDs))
	for _, c := range cards {
		if c == nil || !c.Surfaceable() {
			continue
		}
		if _, ok := best[c.OwnerID]; !ok {
			best[c.OwnerID] = c
		}
	}

	out := make([]*core.Candidate, 0, len(best))
	for _, uid := range userIDs {
		if c, ok := best[uid]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// uniqueAppend 在保持顺序的前提下追加未见过的用户 ID。
func uniqueAppend(ids []string, seen map[string]struct{}, id string) []string {
	if _, ok := seen[id]; ok {
		return ids
	}
	seen[id] = struct{}{}
	return append(ids, id)
}
