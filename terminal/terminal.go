package terminal

import (
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/tekutils/tek/logging"
)

// Terminal writes lines and keeps track of them while locked, so groups of
// lines can be pushed and popped off the screen again. Push-locks nest: each
// PopLock removes the groups pushed since the matching PushLock.
type Terminal struct {
	mu     sync.Mutex
	ctl    *Controller
	in     io.Reader
	lines  int
	locked bool
	stack  []int
	locks  []int
	logger zerolog.Logger
}

// New returns a terminal writing to out and reading from in.
func New(ctl *Controller, in io.Reader) *Terminal {
	return &Terminal{ctl: ctl, in: in, logger: logging.Component("terminal")}
}

var (
	stdOnce sync.Once
	std     *Terminal
)

// Std returns the terminal on stdin and stdout.
func Std() *Terminal {
	stdOnce.Do(func() {
		std = New(NewController(os.Stdout), os.Stdin)
	})
	return std
}

// Controller returns the capability controller.
func (t *Terminal) Controller() *Controller { return t.ctl }

// Write outputs s unchanged.
func (t *Terminal) Write(s string) {
	t.ctl.Write(s)
}

// Move moves the cursor count times in direction (Up, Down, Left, Right or BOL).
func (t *Terminal) Move(direction string, count int) {
	if count <= 0 {
		return
	}
	t.ctl.Write(strings.Repeat(t.ctl.Capability(direction), count))
}

// HideCursor hides the cursor until ShowCursor.
func (t *Terminal) HideCursor() { t.ctl.Write(t.ctl.Capability(HideCursor)) }

// ShowCursor makes the cursor visible again.
func (t *Terminal) ShowCursor() { t.ctl.Write(t.ctl.Capability(ShowCursor)) }

// Flush writes buffered output.
func (t *Terminal) Flush() error { return t.ctl.Flush() }

// Lines returns the number of lines written since the terminal was locked.
func (t *Terminal) Lines() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lines
}

// Locked reports whether lines are being counted.
func (t *Terminal) Locked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.locked
}

// Lock starts counting lines and forgets pushed groups.
func (t *Terminal) Lock() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lock()
}

func (t *Terminal) lock() {
	t.lines = 0
	t.locked = true
	t.stack = t.stack[:0]
}

// Unlock stops counting lines and drops all push-locks.
func (t *Terminal) Unlock() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unlock()
}

func (t *Terminal) unlock() {
	t.lines = 0
	t.locked = false
	t.locks = t.locks[:0]
}

// PushLock opens a nested lock level, locking the terminal if needed.
func (t *Terminal) PushLock() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.locked {
		t.lock()
	}
	t.locks = append(t.locks, 0)
}

// PopLock removes the groups pushed since the last PushLock. Popping the
// outermost level unlocks the terminal.
func (t *Terminal) PopLock() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.locks) == 0 {
		return
	}
	t.pop(t.locks[len(t.locks)-1])
	t.locks = t.locks[:len(t.locks)-1]
	if len(t.locks) == 0 {
		t.unlock()
	}
}

// WriteLine starts a new line with data. Lines wider than the terminal are
// wrapped.
func (t *Terminal) WriteLine(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeLine(data, true)
}

func (t *Terminal) writeLine(data string, checkLength bool) {
	cols := t.ctl.Cols
	if checkLength && cols > 0 && utf8.RuneCountInString(data) > cols {
		runes := []rune(data)
		t.writeLine(string(runes[:cols]), true)
		t.writeLine(string(runes[cols:]), true)
		return
	}
	if t.locked {
		t.lines++
	}
	t.ctl.Write("\n" + data)
}

// WriteLines writes each element of lines, splitting embedded newlines.
// No arguments write one empty line.
func (t *Terminal) WriteLines(lines ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeLines(lines)
}

func (t *Terminal) writeLines(lines []string) {
	if len(lines) == 0 {
		lines = []string{""}
	}
	for _, data := range lines {
		if data == "" {
			t.writeLine("", true)
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(data, "\n"), "\n") {
			t.writeLine(line, true)
		}
	}
}

// WriteColorStrings writes parts as lines, starting a new line at every
// LineBreak and wrapping by visible length.
func (t *Terminal) WriteColorStrings(parts ...ColorString) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeColorStrings(parts)
}

func (t *Terminal) writeColorStrings(parts []ColorString) {
	for _, line := range SplitAtLineBreak(parts) {
		if cols := t.ctl.Cols; cols > 0 && totalLen(line) > cols {
			for _, l := range BreakColorStrings(line, cols) {
				t.writeLine(l, false)
			}
			continue
		}
		t.writeLine(joinColorStrings(line), false)
	}
}

// Push writes lines as one group that a later Pop removes.
func (t *Terminal) Push(lines ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	old := t.lines
	t.writeLines(lines)
	t.pushed(old)
}

// PushColorStrings is Push for color strings.
func (t *Terminal) PushColorStrings(parts ...ColorString) {
	t.mu.Lock()
	defer t.mu.Unlock()
	old := t.lines
	t.writeColorStrings(parts)
	t.pushed(old)
}

func (t *Terminal) pushed(old int) {
	if !t.locked {
		return
	}
	t.stack = append(t.stack, t.lines-old)
	if n := len(t.locks); n > 0 {
		t.locks[n-1]++
	}
}

// Pop deletes the last count pushed groups from the screen.
func (t *Terminal) Pop(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pop(count)
}

func (t *Terminal) pop(count int) {
	for i := 0; i < count; i++ {
		n := len(t.stack)
		if n == 0 {
			break
		}
		t.deleteLines(t.stack[n-1])
		t.stack = t.stack[:n-1]
	}
	if n := len(t.locks); n > 0 {
		t.locks[n-1] -= count
		if t.locks[n-1] < 0 {
			t.locks[n-1] = 0
		}
	}
}

// ClearLine clears the current line without moving up.
func (t *Terminal) ClearLine() {
	t.Move(BOL, 1)
	t.Write(t.ctl.Capability(ClearEOL))
}

// DeleteLines removes the last num lines from the screen.
func (t *Terminal) DeleteLines(num int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deleteLines(num)
}

func (t *Terminal) deleteLines(num int) {
	if num <= 0 {
		return
	}
	t.Move(BOL, 1)
	t.Move(Up, num-1)
	t.Write(t.ctl.Capability(ClearEOS))
	t.lines -= num
	t.Move(Up, 1)
}

// Clear deletes all lines written since locking and locks again.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deleteLines(t.lines)
	t.lock()
}
