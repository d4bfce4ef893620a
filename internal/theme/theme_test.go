package theme

import (
	"strings"
	"testing"
)

func TestBackgroundFor(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantShade   string
	}{
		{"clear sky", "clear sky", "from-blue-400"},
		{"sunny", "Sunny", "from-blue-400"},
		{"clouds", "scattered clouds", "from-gray-400"},
		{"rain", "light rain", "from-blue-700"},
		{"drizzle", "Drizzle", "from-blue-700"},
		{"snow", "heavy snow", "from-blue-100"},
		{"thunderstorm", "thunderstorm with hail", "from-purple-800"},
		{"mist", "mist", "from-gray-300"},
		{"fog", "Fog", "from-gray-300"},
		{"unknown falls back to clear", "sandstorm", "from-blue-400"},
		{"empty falls back to clear", "", "from-blue-400"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BackgroundFor(tc.description)
			if !strings.Contains(got, tc.wantShade) {
				t.Errorf("BackgroundFor(%q) = %q, want gradient containing %q", tc.description, got, tc.wantShade)
			}
		})
	}
}

func TestBackgroundFor_CaseInsensitive(t *testing.T) {
	if BackgroundFor("CLEAR SKY") != BackgroundFor("clear sky") {
		t.Error("matching should be case-insensitive")
	}
}

// "clear" outranks "cloud": "clear with clouds" picks the clear
// gradient because clear is checked first.
func TestBackgroundFor_MatchOrder(t *testing.T) {
	got := BackgroundFor("clear with clouds")
	if !strings.Contains(got, "from-blue-400") {
		t.Errorf("BackgroundFor(clear with clouds) = %q, want clear gradient", got)
	}
}
