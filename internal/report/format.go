// Package report renders benchmark comparisons as a terminal table,
// markdown or JSON.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Format selects the rendering.
type Format string

const (
	// FormatTable renders a lipgloss table per text.
	FormatTable Format = "table"
	// FormatMarkdown renders markdown tables with timings in seconds.
	FormatMarkdown Format = "markdown"
	// FormatJSON renders the report as indented JSON.
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatMarkdown, FormatJSON}

// ParseFormat returns the Format named by s. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q (valid: table, markdown, json)", s)
}

// ColorMode controls whether table output is styled.
type ColorMode string

// Color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode returns the ColorMode named by s. Empty means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	}
	return "", fmt.Errorf("unknown color mode %q (valid: auto, always, never)", s)
}

// ShouldColor resolves mode for writer w. Auto colours only terminals, and
// never when NO_COLOR is set.
func ShouldColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return IsTTY(w) && !DetectNoColor()
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}

	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}
