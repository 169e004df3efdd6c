package handlers

import "testing"

func TestBoolFlag(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"True", true},
		{"TRUE", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"yes", false},
	}
	for _, tt := range tests {
		if got := boolFlag(tt.value); got != tt.want {
			t.Errorf("boolFlag(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
