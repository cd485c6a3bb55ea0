package filter

import (
	"context"
	"testing"

	"github.com/xxcj-sh/vive-agent-backend-sub000/core"
)

func TestAttributeFilter(t *testing.T) {
	userCard := func(gender, location string) *core.Candidate {
		return core.NewUserCandidate("c1", "u1", &core.UserCard{Gender: gender, Location: location})
	}

	tests := []struct {
		name    string
		filters *core.AttributeFilters
		c       *core.Candidate
		want    bool
	}{
		{
			name:    "no filters keeps everything",
			filters: nil,
			c:       userCard("female", "上海"),
			want:    false,
		},
		{
			name:    "gender mismatch filtered",
			filters: &core.AttributeFilters{Gender: "male"},
			c:       userCard("female", "上海"),
			want:    true,
		},
		{
			name:    "gender match kept",
			filters: &core.AttributeFilters{Gender: "female"},
			c:       userCard("female", "上海"),
			want:    false,
		},
		{
			name:    "gender compares exactly, not case-insensitively",
			filters: &core.AttributeFilters{Gender: "Female"},
			c:       userCard("female", "上海"),
			want:    true,
		},
		{
			name:    "city substring match kept",
			filters: &core.AttributeFilters{City: "上海"},
			c:       userCard("female", "上海·静安"),
			want:    false,
		},
		{
			name:    "city mismatch filtered",
			filters: &core.AttributeFilters{City: "北京"},
			c:       userCard("female", "上海"),
			want:    true,
		},
		{
			name:    "content cards always pass",
			filters: &core.AttributeFilters{Gender: "male"},
			c:       core.NewTopicCandidate("t1", "u1", &core.TopicCard{Title: "标题"}),
			want:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &AttributeFilter{Filters: tt.filters}
			got, err := f.ShouldFilter(context.Background(), &core.RecommendContext{}, tt.c)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExprFilter(t *testing.T) {
	f, err := NewExprFilter(`card.card_type != "vote"`)
	if err != nil {
		t.Fatalf("NewExprFilter() error = %v", err)
	}

	topic := core.NewTopicCandidate("t1", "u1", &core.TopicCard{Title: "话题"})
	vote := core.NewVoteCandidate("v1", "u1", &core.VoteCard{Title: "投票"})
	rctx := &core.RecommendContext{UserID: "me"}

	if drop, _ := f.ShouldFilter(context.Background(), rctx, topic); drop {
		t.Error("topic should be kept by the expression")
	}
	if drop, _ := f.ShouldFilter(context.Background(), rctx, vote); !drop {
		t.Error("vote should be filtered by the expression")
	}
}

func TestNewExprFilter_Invalid(t *testing.T) {
	_, err := NewExprFilter(`card.card_type ==`)
	if err == nil {
		t.Fatal("invalid expression should fail to compile")
	}
	if !core.IsInvalidFilter(err) {
		t.Errorf("error = %v, want INVALID_FILTER", err)
	}
}
