package util

import "testing"

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"friend", "Friend"},
		{"best friend", "Best Friend"},
		{"  mentor ", "Mentor"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := TitleCase(tc.in); got != tc.want {
			t.Fatalf("TitleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Smith", "smith"},
		{"Best Friend", "best-friend"},
		{"  O'Brien  ", "o-brien"},
		{"--weird--", "weird"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := Slug(tc.in); got != tc.want {
			t.Fatalf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
