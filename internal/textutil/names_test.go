package textutil

import "testing"

func TestFoldName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "   ", ""},
		{"ascii", "Charles Leclerc", "charles leclerc"},
		{"accents", "Sergio Pérez", "sergio perez"},
		{"umlaut", "Nico Hülkenberg", "nico hulkenberg"},
		{"whitespace", "  Max   Verstappen ", "max verstappen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FoldName(tt.in); got != tt.want {
				t.Errorf("FoldName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNameContains(t *testing.T) {
	if !NameContains("Sergio Pérez", "sergio perez") {
		t.Error("expected folded names to match")
	}
	if !NameContains("Charles Leclerc", "leclerc") {
		t.Error("expected surname substring to match")
	}
	if NameContains("Carlos Sainz", "Charles Leclerc") {
		t.Error("unexpected match between different drivers")
	}
	if NameContains("Carlos Sainz", "  ") {
		t.Error("empty target must not match")
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("charles  leclerc"); got != "Charles Leclerc" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := DisplayName("Kimi Antonelli"); got != "Kimi Antonelli" {
		t.Errorf("DisplayName = %q", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Charles Leclerc", "charles_leclerc"},
		{"Sergio Pérez", "sergio_perez"},
		{"", "unknown"},
		{"!!!", "unknown"},
		{"max-verstappen_33", "max-verstappen_33"},
	}
	for _, tt := range tests {
		if got := SanitizeToken(tt.in); got != tt.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
