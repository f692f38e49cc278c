package palette

import "testing"

func TestIsValid(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"blue-500", true},
		{"green-700", true},
		{"slate-100", true},
		{"violet-900", true},
		{"blue", false},        // legacy bare family
		{"blue-550", false},    // off-step shade
		{"blue-1000", false},   // out of range
		{"blue-0", false},      // out of range
		{"crimson-500", false}, // unknown family
		{"", false},
		{"-500", false},
		{"blue-", false},
		{"blue-abc", false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.token); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestIsLegacy(t *testing.T) {
	if !IsLegacy("blue") {
		t.Error("IsLegacy(blue) = false, want true")
	}
	if IsLegacy("blue-500") {
		t.Error("IsLegacy(blue-500) = true, want false")
	}
	if IsLegacy("crimson") {
		t.Error("IsLegacy(crimson) = true, want false")
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		token string
		want  string
		ok    bool
	}{
		{"blue", "blue-500", true},
		{"green", "green-500", true},
		{"green-700", "green-700", true},
		{"crimson", "", false},
		{"blue-550", "", false},
	}

	for _, tt := range tests {
		got, ok := Canonicalize(tt.token)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Canonicalize(%q) = (%q, %v), want (%q, %v)", tt.token, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDefaultsAreValid(t *testing.T) {
	if !IsValid(DefaultTheme) {
		t.Errorf("DefaultTheme %q is not a valid token", DefaultTheme)
	}
	if !IsValid(DefaultSurface) {
		t.Errorf("DefaultSurface %q is not a valid token", DefaultSurface)
	}
	if IsValid(DeprecatedTheme) {
		t.Errorf("DeprecatedTheme %q should not be a valid token", DeprecatedTheme)
	}
}
