package dsl

import (
	"testing"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

func topicCandidate() *core.Candidate {
	c := core.NewTopicCandidate("topic-1", "alice", &core.TopicCard{
		Title:           "周末去哪儿玩",
		Category:        "旅行",
		DiscussionCount: 8,
		LikeCount:       5,
	})
	c.Score = 62.5
	c.PutLabel("recall_source", utils.Label{Value: "recall.community_content", Source: "recall"})
	return c
}

func TestCompileAndMatch(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "me", Page: 1, PageSize: 10}

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"card type match", `card.card_type == "topic"`, true},
		{"card type mismatch", `card.card_type == "vote"`, false},
		{"title contains", `card.title.contains("周末")`, true},
		{"numeric score", `card.score > 50.0`, true},
		{"engagement sum", `card.engagement >= 13`, true},
		{"category field", `card.category == "旅行"`, true},
		{"label access", `label.recall_source == "recall.community_content"`, true},
		{"rctx access", `rctx.user_id == "me" && rctx.page == 1`, true},
		{"combined", `card.card_type == "topic" && card.score > 90.0`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prg, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.expr, err)
			}
			got, err := prg.Match(topicCandidate(), rctx)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompile_EmptyExpression(t *testing.T) {
	prg, err := Compile("")
	if err != nil {
		t.Fatalf("Compile(\"\") error = %v", err)
	}
	if prg != nil {
		t.Fatal("empty expression should compile to a nil program")
	}
	got, err := prg.Match(topicCandidate(), nil)
	if err != nil || !got {
		t.Errorf("nil program Match = (%v, %v), want (true, nil)", got, err)
	}
}

func TestCompile_SyntaxError(t *testing.T) {
	if _, err := Compile(`card.card_type ==`); err == nil {
		t.Fatal("malformed expression should fail to compile")
	}
}

func TestMatch_NonBooleanResult(t *testing.T) {
	prg, err := Compile(`card.title`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if _, err := prg.Match(topicCandidate(), nil); err == nil {
		t.Fatal("non-boolean expression should fail at eval time")
	}
}

func TestMatch_UnknownLabelKey(t *testing.T) {
	prg, err := Compile(`label.nonexistent == "x"`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if _, err := prg.Match(topicCandidate(), nil); err == nil {
		t.Fatal("accessing a missing label key should surface an eval error")
	}
}

func TestMatch_UserCardFields(t *testing.T) {
	c := core.NewUserCandidate("card-1", "bob", &core.UserCard{
		Gender:     "male",
		Occupation: "工程师",
		Location:   "北京·朝阳",
	})
	prg, err := Compile(`card.gender == "male" && card.location.contains("北京")`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	got, err := prg.Match(c, nil)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if !got {
		t.Error("user card fields should be visible to the expression")
	}
}
