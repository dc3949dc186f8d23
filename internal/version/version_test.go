package version

import (
	"strings"
	"testing"
)

func TestNotice(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		latest     string
		wantNotice bool
	}{
		{"newer available", "v1.0.0", "v1.1.0", true},
		{"same version", "v1.1.0", "v1.1.0", false},
		{"current is newer", "v2.0.0", "v1.9.0", false},
		{"missing v prefix normalized", "1.0.0", "1.2.0", true},
		{"garbage latest", "v1.0.0", "latest", false},
		{"empty latest", "v1.0.0", "", false},
		{"patch bump", "v1.1.0", "v1.1.1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Notice(tt.current, tt.latest)
			if (got != "") != tt.wantNotice {
				t.Errorf("Notice(%q, %q) = %q, wantNotice=%v", tt.current, tt.latest, got, tt.wantNotice)
			}
			if got != "" && !strings.Contains(got, tt.latest) && !strings.Contains(got, "v"+tt.latest) {
				t.Errorf("notice %q does not mention latest version", got)
			}
		})
	}
}
