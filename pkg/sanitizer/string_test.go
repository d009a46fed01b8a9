package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"leading and trailing", "  hello  ", "hello"},
		{"internal runs collapsed", "a   b\t\tc", "a b c"},
		{"newlines collapsed", "line1\n\nline2", "line1 line2"},
		{"already clean", "clean string", "clean string"},
		{"unicode preserved", "  Café  München ", "Café München"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	if got := NormalizeLabel("  SUV   Premium "); got != "suv premium" {
		t.Errorf("NormalizeLabel = %q, want %q", got, "suv premium")
	}
}

func TestNormalizeLocation(t *testing.T) {
	// Locations keep their case for display.
	if got := NormalizeLocation("  New   Delhi "); got != "New Delhi" {
		t.Errorf("NormalizeLocation = %q, want %q", got, "New Delhi")
	}
}
