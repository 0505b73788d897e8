// Package display wraps text in terminal colors. Callers invoke Colorize
// explicitly where colored output is wanted; escapes are omitted
// automatically when stdout is not a terminal or NO_COLOR is set.
package display

import (
	"strings"

	fcolor "github.com/fatih/color"
)

// Color is a named display color.
type Color int

const (
	Blue Color = iota
	Red
	Green
	Yellow
)

var attributes = map[Color]fcolor.Attribute{
	Red:    fcolor.FgHiRed,
	Green:  fcolor.FgHiGreen,
	Yellow: fcolor.FgHiYellow,
	Blue:   fcolor.FgHiBlue,
}

// Colorize returns text wrapped in the escape sequence for c. Unknown colors
// fall back to blue.
func Colorize(text string, c Color) string {
	attr, ok := attributes[c]
	if !ok {
		attr = attributes[Blue]
	}
	return fcolor.New(attr).Sprint(text)
}

// ParseColor maps a color name from configuration to a Color, defaulting to
// blue for unknown names.
func ParseColor(name string) Color {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "red":
		return Red
	case "green":
		return Green
	case "yellow":
		return Yellow
	default:
		return Blue
	}
}

// SetEnabled forces colors on or off regardless of terminal detection.
func SetEnabled(enabled bool) {
	fcolor.NoColor = !enabled
}
