// Package terminal writes formatted output to a TTY: capability strings,
// colored text that keeps its visible length, a line stack that can be popped
// off the screen again and a raw mode line editor.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sync"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Capability names understood by Controller.Capability and Render.
const (
	BOL         = "BOL"
	Up          = "UP"
	Down        = "DOWN"
	Left        = "LEFT"
	Right       = "RIGHT"
	ClearScreen = "CLEAR_SCREEN"
	ClearEOL    = "CLEAR_EOL"
	ClearBOL    = "CLEAR_BOL"
	ClearEOS    = "CLEAR_EOS"
	Bold        = "BOLD"
	Blink       = "BLINK"
	Dim         = "DIM"
	Reverse     = "REVERSE"
	Underline   = "UNDERLINE"
	Normal      = "NORMAL"
	HideCursor  = "HIDE_CURSOR"
	ShowCursor  = "SHOW_CURSOR"
)

var colorNames = []string{"BLACK", "RED", "GREEN", "YELLOW", "BLUE", "MAGENTA", "CYAN", "WHITE"}

var renderPattern = regexp.MustCompile(`\$\$|\$\{\w+\}`)

// Controller holds the control sequences of one output stream. All
// capabilities are empty when the stream is not a terminal, color and style
// capabilities also when the color profile is plain ASCII.
type Controller struct {
	mu   sync.Mutex
	out  *bufio.Writer
	caps map[string]string

	// Cols and Lines are the terminal size, zero when unknown.
	Cols  int
	Lines int
}

// NewController inspects out and returns its controller.
func NewController(out io.Writer) *Controller {
	c := &Controller{out: bufio.NewWriter(out), caps: make(map[string]string)}

	f, ok := out.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return c
	}
	if w, h, err := term.GetSize(f.Fd()); err == nil {
		c.Cols, c.Lines = w, h
	}
	profile := termenv.NewOutput(out).EnvColorProfile()
	c.setCapabilities(profile != termenv.Ascii)
	return c
}

// NewANSIController returns a controller with all ANSI capabilities enabled
// and a fixed size, regardless of what out is.
func NewANSIController(out io.Writer, cols, lines int) *Controller {
	c := &Controller{out: bufio.NewWriter(out), caps: make(map[string]string), Cols: cols, Lines: lines}
	c.setCapabilities(true)
	return c
}

func (c *Controller) setCapabilities(styles bool) {
	csi := func(seq string, args ...any) string {
		return termenv.CSI + fmt.Sprintf(seq, args...)
	}
	c.caps[BOL] = "\r"
	c.caps[Up] = csi(termenv.CursorUpSeq, 1)
	c.caps[Down] = csi(termenv.CursorDownSeq, 1)
	c.caps[Left] = csi(termenv.CursorBackSeq, 1)
	c.caps[Right] = csi(termenv.CursorForwardSeq, 1)
	c.caps[ClearScreen] = csi(termenv.CursorPositionSeq, 1, 1) + csi(termenv.EraseDisplaySeq, 2)
	c.caps[ClearEOL] = csi(termenv.EraseLineRightSeq)
	c.caps[ClearBOL] = csi(termenv.EraseLineLeftSeq)
	c.caps[ClearEOS] = csi(termenv.EraseDisplaySeq, 0)
	c.caps[HideCursor] = csi(termenv.HideCursorSeq)
	c.caps[ShowCursor] = csi(termenv.ShowCursorSeq)
	if !styles {
		return
	}

	sgr := func(seq string) string { return termenv.CSI + seq + "m" }
	c.caps[Bold] = sgr(termenv.BoldSeq)
	c.caps[Blink] = sgr(termenv.BlinkSeq)
	c.caps[Dim] = sgr(termenv.FaintSeq)
	c.caps[Reverse] = sgr(termenv.ReverseSeq)
	c.caps[Underline] = sgr(termenv.UnderlineSeq)
	c.caps[Normal] = sgr(termenv.ResetSeq)
	for i, name := range colorNames {
		color := termenv.ANSIColor(i)
		c.caps[name] = sgr(color.Sequence(false))
		c.caps["BG_"+name] = sgr(color.Sequence(true))
	}
}

// Capability returns the control sequence for name, or "" if unsupported.
func (c *Controller) Capability(name string) string {
	return c.caps[name]
}

// Enabled reports whether the controller emits any control sequences.
func (c *Controller) Enabled() bool {
	return len(c.caps) > 0
}

// Render replaces each ${NAME} in template with its control sequence.
// "$$" is kept as is.
func (c *Controller) Render(template string) string {
	return renderPattern.ReplaceAllStringFunc(template, func(m string) string {
		if m == "$$" {
			return m
		}
		return c.caps[m[2:len(m)-1]]
	})
}

// Write buffers s for output.
func (c *Controller) Write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out.WriteString(s)
}

// Flush writes buffered output.
func (c *Controller) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.Flush()
}
