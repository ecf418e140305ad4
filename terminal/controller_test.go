package terminal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController(t *testing.T) {
	t.Run("NotATerminal", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewController(&buf)
		assert.False(t, c.Enabled())
		assert.Empty(t, c.Capability(Bold))
		assert.Equal(t, "green", c.Render("${GREEN}green${NORMAL}"))
		assert.Zero(t, c.Cols)
	})

	t.Run("ANSI", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewANSIController(&buf, 80, 24)
		assert.True(t, c.Enabled())
		assert.Equal(t, 80, c.Cols)

		tests := map[string]string{
			Up:         "\x1b[1A",
			Left:       "\x1b[1D",
			ClearEOL:   "\x1b[0K",
			ClearEOS:   "\x1b[0J",
			Bold:       "\x1b[1m",
			Normal:     "\x1b[0m",
			HideCursor: "\x1b[?25l",
			"GREEN":    "\x1b[32m",
			"BG_RED":   "\x1b[41m",
			"NONSENSE": "",
		}
		for name, want := range tests {
			assert.Equal(t, want, c.Capability(name), name)
		}

		assert.Equal(t, "\x1b[32mgreen\x1b[0m", c.Render("${GREEN}green${NORMAL}"))
		assert.Equal(t, "costs $$5", c.Render("costs $$5"))
		assert.Equal(t, "x", c.Render("${UNKNOWN}x"))

		c.Write("buffered")
		assert.Empty(t, buf.String())
		require.NoError(t, c.Flush())
		assert.Equal(t, "buffered", buf.String())
	})
}

func TestColorStrings(t *testing.T) {
	c := NewANSIController(&bytes.Buffer{}, 80, 24)

	s := c.Color("hi", Bold, "RED")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "\x1b[1m\x1b[31mhi\x1b[0m", s.String())
	assert.Equal(t, "plain", Plain("plain").String())
	assert.Equal(t, 3, Plain("äöü").Len())

	head, tail := s.Split(1)
	assert.Equal(t, "h", head.Text)
	assert.Equal(t, "i", tail.Text)
	assert.Equal(t, s.Format, tail.Format)

	t.Run("Break", func(t *testing.T) {
		assert.Equal(t, []string{"abc", "def", "g"},
			BreakColorStrings([]ColorString{Plain("abcd"), Plain("efg")}, 3))

		red := c.Color("abcd", "RED")
		assert.Equal(t, []string{"\x1b[31mab\x1b[0m", "\x1b[31mcd\x1b[0m"},
			BreakColorStrings([]ColorString{red}, 2))
	})

	t.Run("SplitAtLineBreak", func(t *testing.T) {
		a, b, d := Plain("a"), Plain("b"), Plain("d")
		got := SplitAtLineBreak([]ColorString{a, LineBreak(), b, d})
		assert.Equal(t, [][]ColorString{{a}, {b, d}}, got)
		assert.True(t, LineBreak().IsBreak())
	})
}
