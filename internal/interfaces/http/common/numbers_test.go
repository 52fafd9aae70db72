package common

import "testing"

func TestParseNonNegativeInt(t *testing.T) {
	tests := []struct {
		value  string
		want   int
		wantOK bool
	}{
		{"", 7, true},
		{"  ", 7, true},
		{"0", 0, true},
		{"12", 12, true},
		{" 3 ", 3, true},
		{"-1", 7, false},
		{"abc", 7, false},
		{"1.5", 7, false},
	}

	for _, tt := range tests {
		got, ok := ParseNonNegativeInt(tt.value, 7)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseNonNegativeInt(%q) = %d, %v; want %d, %v", tt.value, got, ok, tt.want, tt.wantOK)
		}
	}
}
