package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestMessageFormat(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		msg      Message
		contains []string
		excludes []string
	}{
		{
			name: "context header",
			msg: Message{
				Level:   LevelError,
				Context: "Item not found",
				Problem: "No item named 'Pst'.",
				NoColor: true,
			},
			contains: []string{"❌ ITEM NOT FOUND\n", "   No item named 'Pst'.\n"},
		},
		{
			name:     "problem only",
			msg:      Message{Level: LevelWarning, Problem: "icon skipped", NoColor: true},
			contains: []string{"⚠️ icon skipped\n"},
			excludes: []string{"Did you mean"},
		},
		{
			name: "suggestions and hints",
			msg: Message{
				Level:       LevelInfo,
				Problem:     "x",
				Suggestions: []string{"Iron Ore", "Iron Plate"},
				Hints:       []string{"Get help: wikiwriter --help"},
				NoColor:     true,
			},
			contains: []string{
				"ℹ️ x",
				"Did you mean: Iron Ore, Iron Plate?",
				"→ Get help: wikiwriter --help",
			},
		},
		{
			name: "consequence",
			msg: Message{
				Problem:     "bad",
				Consequence: "No pages were written.",
				NoColor:     true,
			},
			contains: []string{"\n   No pages were written.\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.msg.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("expected output not to contain %q, got:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestItemNotFound(t *testing.T) {
	out := ItemNotFound("Iron Plte", []string{"Iron Plate"}, true).String()

	for _, want := range []string{"ITEM NOT FOUND", "'Iron Plte'", "Did you mean: Iron Plate?", "wikiwriter classify --list"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSnapshotError(t *testing.T) {
	out := SnapshotError("game.json", errors.New("unexpected EOF"), true).String()

	if !strings.Contains(out, "Cannot load 'game.json': unexpected EOF") {
		t.Errorf("expected load failure in output:\n%s", out)
	}
	if !strings.Contains(out, "No pages were written.") {
		t.Errorf("expected consequence in output:\n%s", out)
	}
}

func TestConfigError(t *testing.T) {
	out := ConfigError("invalid tables.format", true).String()
	if !strings.Contains(out, "CONFIGURATION ERROR") || !strings.Contains(out, "wikiwriter.yml") {
		t.Errorf("unexpected config error output:\n%s", out)
	}
}

func TestWriteHelpers(t *testing.T) {
	var buf bytes.Buffer
	Warning("careful", true).Write(&buf)
	WriteSuccess(&buf, "Wrote 12 pages", true)

	out := buf.String()
	if !strings.Contains(out, "⚠️ careful") {
		t.Errorf("expected warning, got %q", out)
	}
	if !strings.HasSuffix(out, "✓ Wrote 12 pages\n") {
		t.Errorf("expected success line, got %q", out)
	}
}
