package rerank

import (
	"context"
	"testing"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

func topic(id, title string) *core.Candidate {
	return core.NewTopicCandidate(id, "u-"+id, &core.TopicCard{Title: title})
}

func TestTitleDedup_IdenticalTitles(t *testing.T) {
	node := &TitleDedup{}
	items := []*core.Candidate{
		topic("t1", "周末去哪儿"),
		topic("t2", "周末去哪儿"),
	}
	got, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].ID != "t1" {
		t.Errorf("kept %s, want the first occurrence t1", got[0].ID)
	}
}

func TestTitleDedup_NearDuplicateCharacterSet(t *testing.T) {
	node := &TitleDedup{}
	items := []*core.Candidate{
		topic("t1", "周末去哪儿玩"),
		topic("t2", "玩去哪儿周末"), // 同字符集，不同顺序
		topic("t3", "今晚吃什么"),
	}
	got, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].ID != "t1" || got[1].ID != "t3" {
		t.Errorf("kept [%s %s], want [t1 t3]", got[0].ID, got[1].ID)
	}
}

func TestTitleDedup_DistinctTitlesKept(t *testing.T) {
	node := &TitleDedup{}
	items := []*core.Candidate{
		topic("t1", "周末去哪儿"),
		topic("t2", "上海美食推荐"),
		topic("t3", "求拼车伙伴"),
	}
	got, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d candidates, want all 3 kept", len(got))
	}
}

func TestTitleDedup_UserCardsPassThrough(t *testing.T) {
	node := &TitleDedup{}
	items := []*core.Candidate{
		core.NewUserCandidate("c1", "u1", &core.UserCard{}),
		core.NewUserCandidate("c2", "u2", &core.UserCard{}),
		topic("t1", "周末去哪儿"),
	}
	got, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("user cards must never be deduped by title: got %d, want 3", len(got))
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abc", "abc", 1},
		{"abc", "abd", 0.5},
		{"abc", "xyz", 0},
		{"", "", 1},
		{"abc", "", 0},
	}
	for _, tt := range tests {
		got := jaccard(charSet(tt.a), charSet(tt.b))
		if got != tt.want {
			t.Errorf("jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
