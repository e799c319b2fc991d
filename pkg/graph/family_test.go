package graph

import "testing"

func TestIsFamilyRole(t *testing.T) {
	tests := []struct {
		name  string
		role  string
		extra []string
		want  bool
	}{
		{"Mother", "Mother", nil, true},
		{"Stepbrother", "Stepbrother", nil, true},
		{"Godfather", "Godfather", nil, true},
		{"GrandchildLowercase", "grandchild", nil, true},
		{"ExWife", "Ex-Wife", nil, true},
		{"Mentor", "Mentor", nil, false},
		{"Rival", "Rival", nil, false},
		{"LocalizedSynonym", "Madre", []string{"madre"}, true},
		{"LocalizedMiss", "Madre", nil, false},
		{"Empty", "", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsFamilyRole(tc.role, tc.extra); got != tc.want {
				t.Fatalf("IsFamilyRole(%q) = %v, want %v", tc.role, got, tc.want)
			}
		})
	}
}
