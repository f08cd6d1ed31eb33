package styles

import (
	"image/color"
	"strings"
	"testing"
)

// The theme is package state, so these tests do not run in parallel.

func TestInit(t *testing.T) {
	tests := []struct {
		name string
		want Theme
	}{
		{name: "", want: DefaultTheme},
		{name: "default", want: DefaultTheme},
		{name: "dracula", want: DraculaTheme},
		{name: "nord", want: NordTheme},
		{name: "none", want: NoneTheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Init(tt.name); err != nil {
				t.Fatalf("Init(%q) error = %v", tt.name, err)
			}
			if Current() != tt.want {
				t.Errorf("Current() = %v, want %v", Current(), tt.want)
			}
			if got := StateStyle("success").GetForeground(); got != tt.want.Success {
				t.Errorf("success foreground = %v, want %v", got, tt.want.Success)
			}
		})
	}
	t.Cleanup(func() { _ = Init("") })
}

func TestInit_Unknown(t *testing.T) {
	if err := Init("solarized"); err == nil || !strings.Contains(err.Error(), "solarized") {
		t.Errorf("Init(solarized) error = %v", err)
	}
	if Current() != DefaultTheme {
		t.Error("unknown theme changed the active theme")
	}
}

func TestStateStyle(t *testing.T) {
	if err := Init("default"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		state string
		want  color.Color
	}{
		{"success", DefaultTheme.Success},
		{"failure", DefaultTheme.Failure},
		{"error", DefaultTheme.Failure},
		{"pending", DefaultTheme.Pending},
		{"no status", DefaultTheme.Muted},
	}
	for _, tt := range tests {
		if got := StateStyle(tt.state).GetForeground(); got != tt.want {
			t.Errorf("StateStyle(%q) foreground = %v, want %v", tt.state, got, tt.want)
		}
		if got := RenderState(tt.state); !strings.Contains(got, tt.state) {
			t.Errorf("RenderState(%q) = %q, want the state text", tt.state, got)
		}
	}
}
