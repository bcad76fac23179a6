package helper

import "testing"

func TestShortID(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"abc-1234-def-5678", 8, "abc-1234"},
		{"abc", 8, "abc"},
		{"", 8, ""},
		{"abcdef", 0, ""},
		{"abcdef", -1, ""},
	}
	for _, tt := range tests {
		if got := ShortID(tt.in, tt.n); got != tt.want {
			t.Fatalf("ShortID(%q, %v) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
