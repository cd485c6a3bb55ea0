package filter

import (
	"context"
	"testing"
	"time"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/store"
)

func TestExclusionBuilder_Anonymous(t *testing.T) {
	b := &ExclusionBuilder{}
	set := b.Build(context.Background(), "", true)
	if set.UserCount() != 0 || set.CardCount() != 0 {
		t.Error("anonymous request should get an empty exclusion set")
	}
}

func TestExclusionBuilder_Build(t *testing.T) {
	mem := store.NewMemory()
	now := time.Now()

	mem.AddUser(&core.UserInfo{ID: "me", Active: true})
	for _, id := range []string{"viewed", "followed", "stranger"} {
		mem.AddUser(&core.UserInfo{ID: id, Active: true})
		mem.AddCard(&core.Candidate{
			ID:         "card-" + id,
			CardType:   core.CardTypeUser,
			OwnerID:    id,
			Visibility: core.VisibilityPublic,
			Active:     true,
			User:       &core.UserCard{},
		})
	}

	mem.AddConnection(core.Connection{
		FromUserID: "me", ToUserID: "viewed",
		Type: core.ConnectionView, UpdatedAt: now.Add(-time.Hour),
	})
	mem.AddConnection(core.Connection{
		FromUserID: "followed", ToUserID: "me",
		Type: core.ConnectionFollow, UpdatedAt: now.Add(-time.Hour),
	})

	mem.AddContent(&core.Candidate{
		ID: "topic-own", CardType: core.CardTypeTopic, OwnerID: "me",
		Visibility: core.VisibilityPublic, Active: true, Topic: &core.TopicCard{},
	})
	mem.AddVotedCard("me", "vote-participated")

	b := &ExclusionBuilder{
		Connections: mem,
		Cards:       mem,
		Content:     mem,
		Votes:       mem,
		Window:      14 * 24 * time.Hour,
		Clock:       core.SystemClock{},
	}
	set := b.Build(context.Background(), "me", true)

	for _, uid := range []string{"me", "viewed", "followed"} {
		if !set.ExcludesUser(uid) {
			t.Errorf("user %s should be excluded", uid)
		}
	}
	if set.ExcludesUser("stranger") {
		t.Error("stranger should not be excluded")
	}

	for _, cid := range []string{"card-viewed", "card-followed", "topic-own", "vote-participated"} {
		if !set.ExcludesCard(cid) {
			t.Errorf("card %s should be excluded", cid)
		}
	}
	if set.ExcludesCard("card-stranger") {
		t.Error("stranger's card should not be excluded")
	}
}

func TestExclusionBuilder_ViewWindowExpires(t *testing.T) {
	mem := store.NewMemory()
	now := time.Now()
	mem.AddUser(&core.UserInfo{ID: "me", Active: true})
	mem.AddConnection(core.Connection{
		FromUserID: "me", ToUserID: "old-view",
		Type: core.ConnectionView, UpdatedAt: now.Add(-20 * 24 * time.Hour),
	})

	b := &ExclusionBuilder{
		Connections: mem,
		Cards:       mem,
		Window:      14 * 24 * time.Hour,
		Clock:       core.SystemClock{},
	}
	set := b.Build(context.Background(), "me", false)
	if set.ExcludesUser("old-view") {
		t.Error("views outside the window should not be excluded")
	}
}

func TestExclusionFilter_Node(t *testing.T) {
	rctx := &core.RecommendContext{
		UserID:     "me",
		Exclusions: core.NewExclusionSet([]string{"bad"}, []string{"card-x"}),
	}
	node := &FilterNode{Filters: []Filter{&ExclusionFilter{}}}

	items := []*core.Candidate{
		core.NewUserCandidate("card-1", "ok", &core.UserCard{}),
		core.NewUserCandidate("card-2", "bad", &core.UserCard{}),
		core.NewTopicCandidate("card-x", "other", &core.TopicCard{}),
	}
	got, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "card-1" {
		t.Errorf("filter kept wrong candidates: %v", got)
	}
}
