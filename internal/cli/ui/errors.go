package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Level is the severity of a message
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// Message is a structured terminal message with optional suggestions and
// follow-up commands
type Message struct {
	Level       Level
	Context     string
	Problem     string
	Consequence string
	Suggestions []string
	Hints       []string
	NoColor     bool
}

func (m Message) palette() (header, body *color.Color, symbol string) {
	switch m.Level {
	case LevelWarning:
		header, body, symbol = color.New(color.FgYellow, color.Bold), color.New(color.FgYellow), "⚠️"
	case LevelInfo:
		header, body, symbol = color.New(color.FgCyan, color.Bold), color.New(color.FgCyan), "ℹ️"
	default:
		header, body, symbol = color.New(color.FgRed, color.Bold), color.New(color.FgRed), "❌"
	}
	if m.NoColor {
		header.DisableColor()
		body.DisableColor()
	}
	return header, body, symbol
}

// String renders the message
//
// Example output:
//
//	❌ ITEM NOT FOUND: Iron Plte
//	   No item named 'Iron Plte' in the snapshot.
//
//	   Did you mean: Iron Plate?
//
//	   → List items: wikiwriter classify --list
func (m Message) String() string {
	var b strings.Builder
	header, body, symbol := m.palette()

	if m.Context != "" {
		header.Fprintf(&b, "%s %s\n", symbol, strings.ToUpper(m.Context))
		if m.Problem != "" {
			body.Fprintf(&b, "   %s\n", m.Problem)
		}
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, m.Problem)
	}

	if m.Consequence != "" {
		b.WriteString("\n")
		body.Fprintf(&b, "   %s\n", m.Consequence)
	}

	if len(m.Suggestions) > 0 {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if m.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(m.Suggestions, ", "))
	}

	if len(m.Hints) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if m.NoColor {
			cyan.DisableColor()
		}
		for _, hint := range m.Hints {
			cyan.Fprintf(&b, "   → %s\n", hint)
		}
	}

	return b.String()
}

// Write writes the formatted message to w
func (m Message) Write(w io.Writer) {
	fmt.Fprint(w, m.String())
}

// FormatSuccess renders a success line
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success line to w
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// ItemNotFound reports an unknown item name
func ItemNotFound(name string, suggestions []string, noColor bool) Message {
	return Message{
		Level:       LevelError,
		Context:     "Item not found",
		Problem:     fmt.Sprintf("No item named '%s' in the snapshot.", name),
		Suggestions: suggestions,
		Hints:       []string{"List items: wikiwriter classify --list"},
		NoColor:     noColor,
	}
}

// SnapshotError reports a snapshot that could not be loaded
func SnapshotError(path string, err error, noColor bool) Message {
	return Message{
		Level:       LevelError,
		Context:     "Snapshot unreadable",
		Problem:     fmt.Sprintf("Cannot load '%s': %v", path, err),
		Consequence: "No pages were written.",
		Hints: []string{
			"Point at another file: wikiwriter export --snapshot <path>",
			"Get help: wikiwriter --help",
		},
		NoColor: noColor,
	}
}

// ConfigError reports an invalid configuration
func ConfigError(message string, noColor bool) Message {
	return Message{
		Level:   LevelError,
		Context: "Configuration error",
		Problem: message,
		Hints: []string{
			"View config: cat wikiwriter.yml",
			"Get help: wikiwriter --help",
		},
		NoColor: noColor,
	}
}

// Warning builds a warning message
func Warning(message string, noColor bool) Message {
	return Message{Level: LevelWarning, Problem: message, NoColor: noColor}
}
