package rerank

import (
	"context"
	"testing"
	"time"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

func ownerTopic(id, owner string, age time.Duration) *core.Candidate {
	c := core.NewTopicCandidate(id, owner, &core.TopicCard{Title: id})
	c.CreatedAt = time.Now().Add(-age)
	return c
}

func TestCreatorBoost_MovesCreatorContentToFront(t *testing.T) {
	node := &CreatorBoost{CreatorID: "owner", Limit: 3}
	items := []*core.Candidate{
		ownerTopic("other-1", "member", time.Hour),
		ownerTopic("own-old", "owner", 48*time.Hour),
		ownerTopic("other-2", "member", 2*time.Hour),
		ownerTopic("own-new", "owner", time.Hour),
	}
	got, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// 群主内容置顶，组内按创建时间倒序
	want := []string{"own-new", "own-old", "other-1", "other-2"}
	for i, c := range got {
		if c.ID != want[i] {
			t.Errorf("position %d = %s, want %s", i, c.ID, want[i])
		}
	}
}

func TestCreatorBoost_CapsAtLimit(t *testing.T) {
	node := &CreatorBoost{CreatorID: "owner", Limit: 3}
	items := []*core.Candidate{
		ownerTopic("own-1", "owner", time.Hour),
		ownerTopic("own-2", "owner", 2*time.Hour),
		ownerTopic("own-3", "owner", 3*time.Hour),
		ownerTopic("own-4", "owner", 4*time.Hour),
		ownerTopic("member-1", "member", time.Minute),
	}
	got, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("boost must not drop items: got %d, want 5", len(got))
	}
	for i, id := range []string{"own-1", "own-2", "own-3"} {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestCreatorBoost_NoCreatorContent(t *testing.T) {
	node := &CreatorBoost{CreatorID: "owner", Limit: 3}
	items := []*core.Candidate{
		ownerTopic("a", "member", time.Hour),
		ownerTopic("b", "member", 2*time.Hour),
	}
	got, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Error("order must be unchanged when the creator has no content")
	}
}

func TestCreatorBoost_EmptyCreatorDisabled(t *testing.T) {
	node := &CreatorBoost{}
	items := []*core.Candidate{ownerTopic("a", "member", time.Hour)}
	got, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("disabled boost should pass items through")
	}
}
