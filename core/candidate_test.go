package core

import (
	"testing"

	"github.com/xxcj-sh/vive-agent-backend-sub000/pkg/utils"
)

func TestCandidate_Surfaceable(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
		want bool
	}{
		{"public active", Candidate{Visibility: VisibilityPublic, Active: true}, true},
		{"private", Candidate{Visibility: VisibilityPrivate, Active: true}, false},
		{"inactive", Candidate{Visibility: VisibilityPublic, Active: false}, false},
		{"deleted", Candidate{Visibility: VisibilityPublic, Active: true, Deleted: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Surfaceable(); got != tt.want {
				t.Errorf("Surfaceable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCandidate_Engagement(t *testing.T) {
	topic := NewTopicCandidate("t1", "u1", &TopicCard{DiscussionCount: 12, LikeCount: 30})
	if got := topic.Engagement(); got != 42 {
		t.Errorf("topic engagement = %d, want 42", got)
	}

	vote := NewVoteCandidate("v1", "u1", &VoteCard{TotalVotes: 25})
	if got := vote.Engagement(); got != 25 {
		t.Errorf("vote engagement = %d, want 25", got)
	}

	user := NewUserCandidate("c1", "u1", &UserCard{})
	if got := user.Engagement(); got != 0 {
		t.Errorf("user engagement = %d, want 0", got)
	}
}

func TestCandidate_Clone(t *testing.T) {
	orig := NewUserCandidate("c1", "u1", &UserCard{DisplayName: "A", TagIDs: []int64{1, 2}})
	orig.PutLabel("reason", utils.Label{Value: "社群成员", Source: "recall"})

	clone := orig.Clone()
	clone.Score = 88
	clone.User.DisplayName = "B"
	clone.User.TagIDs[0] = 99
	clone.PutLabel("reason", utils.Label{Value: "热门推荐", Source: "fallback"})

	if orig.Score != 0 {
		t.Error("clone score write leaked into original")
	}
	if orig.User.DisplayName != "A" {
		t.Error("clone payload write leaked into original")
	}
	if orig.User.TagIDs[0] != 1 {
		t.Error("clone tag write leaked into original")
	}
	if got := orig.GetLabel("reason"); got != "社群成员" {
		t.Errorf("clone label write leaked into original: %q", got)
	}
}
