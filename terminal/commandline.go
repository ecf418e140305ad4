package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// DefaultSuffix ends each prompt level.
const DefaultSuffix = ">"

// levelColors cycle through nesting levels: green, cyan, red, yellow.
var levelColors = []lipgloss.Color{"2", "6", "1", "3"}

// CommandLine prints messages behind a prompt built from nested levels,
// each colored by its depth.
type CommandLine struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *lipgloss.Renderer
	prefixes []string
	suffixes []string
	prompt   string
}

// NewCommandLine returns a command line printing to out.
func NewCommandLine(out io.Writer) *CommandLine {
	return NewCommandLineWithRenderer(out, lipgloss.NewRenderer(out))
}

// NewCommandLineWithRenderer uses r to color the prompt.
func NewCommandLineWithRenderer(out io.Writer, r *lipgloss.Renderer) *CommandLine {
	return &CommandLine{out: out, renderer: r}
}

var (
	stdCLOnce sync.Once
	stdCL     *CommandLine
)

// StdCommandLine returns the command line on stdout.
func StdCommandLine() *CommandLine {
	stdCLOnce.Do(func() { stdCL = NewCommandLine(os.Stdout) })
	return stdCL
}

// LevelUp adds a prompt level with the default suffix.
func (c *CommandLine) LevelUp(prefix string) {
	c.LevelUpWith(prefix, DefaultSuffix)
}

// LevelUpWith adds a prompt level.
func (c *CommandLine) LevelUpWith(prefix, suffix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefixes = append(c.prefixes, prefix)
	c.suffixes = append(c.suffixes, suffix)
	c.reconstructPrompt()
}

// LevelDown removes the last count levels.
func (c *CommandLine) LevelDown(count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := max(len(c.prefixes)-count, 0)
	c.prefixes = c.prefixes[:n]
	c.suffixes = c.suffixes[:n]
	c.reconstructPrompt()
}

// Prompt returns the current prompt, empty without levels.
func (c *CommandLine) Prompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prompt
}

func (c *CommandLine) reconstructPrompt() {
	parts := make([]string, len(c.prefixes))
	for i, prefix := range c.prefixes {
		style := c.renderer.NewStyle().Foreground(levelColors[i%len(levelColors)])
		parts[i] = style.Render(prefix + c.suffixes[i])
	}
	c.prompt = strings.Join(parts, " ")
}

// Print writes each line of msg behind the prompt.
func (c *CommandLine) Print(msg any) {
	if lines, ok := msg.([]string); ok {
		for _, l := range lines {
			c.Print(l)
		}
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(fmt.Sprint(msg), "\n"), "\n") {
		c.printLine(line)
	}
}

// Printf formats and prints a message.
func (c *CommandLine) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...))
}

func (c *CommandLine) printLine(line string) {
	if c.prompt != "" {
		fmt.Fprintf(c.out, "%s %s\n", c.prompt, line)
		return
	}
	fmt.Fprintln(c.out, line)
}

// PrefixPrinter holds one command line level until closed.
type PrefixPrinter struct {
	cl   *CommandLine
	once sync.Once
}

// Enter adds a prompt level that the returned printer removes on Close.
func (c *CommandLine) Enter(prefix string) *PrefixPrinter {
	c.LevelUp(prefix)
	return &PrefixPrinter{cl: c}
}

// Print prints through the command line.
func (p *PrefixPrinter) Print(msg any) { p.cl.Print(msg) }

// Close removes the level. Further calls do nothing.
func (p *PrefixPrinter) Close() error {
	p.once.Do(func() { p.cl.LevelDown(1) })
	return nil
}
