package terminal

import (
	"strings"
	"unicode/utf8"
)

// ColorString is text with a format prefix. Its length is the length of the
// text alone.
type ColorString struct {
	Text   string
	Format string
	reset  string
	brk    bool
}

// Color returns text formatted with the capabilities named in caps, reset
// afterwards.
func (c *Controller) Color(text string, caps ...string) ColorString {
	var format strings.Builder
	for _, name := range caps {
		format.WriteString(c.Capability(name))
	}
	return ColorString{Text: text, Format: format.String(), reset: c.Capability(Normal)}
}

// Plain returns an unformatted ColorString.
func Plain(text string) ColorString {
	return ColorString{Text: text}
}

// LineBreak separates lines in a list of color strings.
func LineBreak() ColorString {
	return ColorString{brk: true}
}

// IsBreak reports whether s is a LineBreak.
func (s ColorString) IsBreak() bool { return s.brk }

// Len is the visible length in runes.
func (s ColorString) Len() int {
	return utf8.RuneCountInString(s.Text)
}

func (s ColorString) String() string {
	if s.Format == "" {
		return s.Text
	}
	return s.Format + s.Text + s.reset
}

// Split cuts s after n runes, keeping the format on both halves.
func (s ColorString) Split(n int) (ColorString, ColorString) {
	runes := []rune(s.Text)
	if n > len(runes) {
		n = len(runes)
	}
	head, tail := s, s
	head.Text = string(runes[:n])
	tail.Text = string(runes[n:])
	return head, tail
}

// BreakColorStrings joins parts into lines of at most cols visible runes,
// splitting parts where needed.
func BreakColorStrings(parts []ColorString, cols int) []string {
	var lines []string
	var current strings.Builder
	width := 0
	for _, s := range parts {
		for cols > 0 && width+s.Len() > cols {
			var head ColorString
			head, s = s.Split(cols - width)
			current.WriteString(head.String())
			lines = append(lines, current.String())
			current.Reset()
			width = 0
		}
		current.WriteString(s.String())
		width += s.Len()
	}
	return append(lines, current.String())
}

// SplitAtLineBreak groups parts into lines at each LineBreak.
func SplitAtLineBreak(parts []ColorString) [][]ColorString {
	lines := [][]ColorString{{}}
	for _, s := range parts {
		if s.brk {
			lines = append(lines, []ColorString{})
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], s)
	}
	return lines
}

func totalLen(parts []ColorString) int {
	n := 0
	for _, s := range parts {
		n += s.Len()
	}
	return n
}

func joinColorStrings(parts []ColorString) string {
	var b strings.Builder
	for _, s := range parts {
		b.WriteString(s.String())
	}
	return b.String()
}
