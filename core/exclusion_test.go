package core

import "testing"

func TestExclusionSet_Membership(t *testing.T) {
	set := NewExclusionSet([]string{"u1", "u2"}, []string{"c1"})

	tests := []struct {
		name      string
		candidate *Candidate
		want      bool
	}{
		{
			name:      "excluded owner",
			candidate: &Candidate{ID: "c9", OwnerID: "u1"},
			want:      true,
		},
		{
			name:      "excluded card id",
			candidate: &Candidate{ID: "c1", OwnerID: "u9"},
			want:      true,
		},
		{
			name:      "not excluded",
			candidate: &Candidate{ID: "c9", OwnerID: "u9"},
			want:      false,
		},
		{
			name:      "nil candidate",
			candidate: nil,
			want:      false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.Excludes(tt.candidate); got != tt.want {
				t.Errorf("Excludes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExclusionSet_NilSafe(t *testing.T) {
	var set *ExclusionSet
	if set.ExcludesUser("u1") {
		t.Error("nil set should exclude nothing")
	}
	if set.Excludes(&Candidate{ID: "c1", OwnerID: "u1"}) {
		t.Error("nil set should exclude nothing")
	}
	if set.UserCount() != 0 || set.CardCount() != 0 {
		t.Error("nil set should report zero sizes")
	}
}

func TestEmptyExclusionSet(t *testing.T) {
	set := EmptyExclusionSet()
	if set.ExcludesUser("anyone") {
		t.Error("empty set should exclude nothing")
	}
	if set.ExcludesCard("anything") {
		t.Error("empty set should exclude nothing")
	}
}
