package ui

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func forceColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = original })
}

func TestFormatterWithColor(t *testing.T) {
	forceColor(t)

	result := Code.Sprint("keyward init")
	if strings.Contains(result, "`") {
		t.Errorf("Code.Sprint should not contain backticks when color is enabled, got: %s", result)
	}
	if !strings.Contains(result, "\x1b[") {
		t.Errorf("Code.Sprint should contain ANSI escape codes when color is enabled, got: %s", result)
	}
}

func TestFormatterWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name      string
		formatter Formatter
		input     string
		want      string
	}{
		{"Code adds backticks", Code, "keyward encrypt", "`keyward encrypt`"},
		{"Path has no decoration", Path, "keyward.key", "keyward.key"},
		{"Flag has no decoration", Flag, "--password", "--password"},
		{"Error has no decoration", Error, "✗", "✗"},
		{"Highlight adds quotes", Highlight, "secret-service", "'secret-service'"},
		{"Muted adds parentheses", Muted, "not created", "(not created)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.formatter.Sprint(tt.input)
			if got != tt.want {
				t.Errorf("%s.Sprint(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatterSprintf(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	result := Code.Sprintf("keyward %s --password", "decrypt")
	want := "`keyward decrypt --password`"
	if result != want {
		t.Errorf("Code.Sprintf() = %q, want %q", result, want)
	}
}

func TestMarkAndYesNo(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := Mark(true); got != "✓" {
		t.Errorf("Mark(true) = %q", got)
	}
	if got := Mark(false); got != "✗" {
		t.Errorf("Mark(false) = %q", got)
	}
	if got := YesNo(true); got != "yes" {
		t.Errorf("YesNo(true) = %q", got)
	}
	if got := YesNo(false); got != "(no)" {
		t.Errorf("YesNo(false) = %q", got)
	}
}

func TestEnsureNewline(t *testing.T) {
	cases := map[string]string{
		"":       "\n",
		"done":   "done\n",
		"done\n": "done\n",
	}
	for in, want := range cases {
		if got := EnsureNewline(in); got != want {
			t.Errorf("EnsureNewline(%q) = %q, want %q", in, got, want)
		}
	}
}
