package models

import (
	"strings"
	"testing"
)

func TestValidUID(t *testing.T) {
	tests := []struct {
		name string
		uid  string
		want bool
	}{
		{"typical random uid", "E9qSzKDhygpUGXe1qhcbH7A2ovkxwEo9", true},
		{"minimum length", strings.Repeat("a", 20), true},
		{"url-safe base64 chars", "abc-DEF_0123456789xyz", true},
		{"too short", "shortuid", false},
		{"empty", "", false},
		{"path traversal", "../../../../etc/passwd12345", false},
		{"plus is not url-safe", "abcdefghij+abcdefghij", false},
		{"whitespace", "abcdefghij abcdefghij", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidUID(tt.uid); got != tt.want {
				t.Errorf("ValidUID(%q) = %v, want %v", tt.uid, got, tt.want)
			}
		})
	}
}

func TestNewStokenUID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		uid := NewStokenUID()
		if len(uid) != StokenUIDLength {
			t.Fatalf("expected length %d, got %d (%q)", StokenUIDLength, len(uid), uid)
		}
		if !ValidUID(uid) {
			t.Fatalf("generated uid %q is not valid", uid)
		}
		if seen[uid] {
			t.Fatalf("duplicate uid generated: %q", uid)
		}
		seen[uid] = true
	}
}
