// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}
	if got := theme.UserLabel.Render("You"); !strings.Contains(got, "You") {
		t.Errorf("UserLabel.Render lost text: %q", got)
	}
	if !theme.AssistantLabel.GetBold() {
		t.Error("AssistantLabel should be bold")
	}
}

func TestRenderHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"success", RenderSuccess("saved"), "[OK] saved"},
		{"error", RenderError("failed"), "[ERROR] failed"},
		{"warning", RenderWarning("stale"), "[WARN] stale"},
		{"on", RenderToggle(true), "on"},
		{"off", RenderToggle(false), "off"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("got %q, want it to contain %q", tt.got, tt.want)
			}
		})
	}
}
