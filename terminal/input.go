package terminal

import (
	"bufio"
	"errors"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/x/term"
)

const (
	keyEscape    = 27
	keyBackspace = 127
)

// InputReader is a minimal line editor: insertion at the cursor, backspace,
// delete, left and right, home and end. In single mode the first key ends
// the input and editing keys are ignored.
type InputReader struct {
	term   *Terminal
	r      *bufio.Reader
	single bool
	input  []rune
	cursor int
	done   bool
}

// NewInputReader returns a reader editing initial, reading keys from r.
func NewInputReader(t *Terminal, r io.Reader, single bool, initial string) *InputReader {
	return &InputReader{
		term:   t,
		r:      bufio.NewReader(r),
		single: single,
		input:  []rune(initial),
	}
}

// Input reads one line from the terminal input in raw mode.
func (t *Terminal) Input(single bool, initial string) (string, error) {
	if f, ok := t.in.(*os.File); ok && term.IsTerminal(f.Fd()) {
		state, err := term.MakeRaw(f.Fd())
		if err != nil {
			return "", err
		}
		defer func() {
			if err := term.Restore(f.Fd(), state); err != nil {
				t.logger.Warn().Err(err).Msg("Failed to restore terminal state")
			}
		}()
	}
	return NewInputReader(t, t.in, single, initial).Read()
}

// Read echoes the initial text and processes keys until a newline.
// If the input ends first, the text so far is returned with io.EOF.
func (ir *InputReader) Read() (string, error) {
	ir.cursor = len(ir.input)
	ir.term.Write(string(ir.input))
	defer ir.term.Flush()

	for !ir.done {
		ch, _, err := ir.r.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return string(ir.input), io.EOF
			}
			return string(ir.input), err
		}
		ir.term.logger.Debug().Int("key", int(ch)).Msg("Input key")
		switch ch {
		case keyEscape:
			if err := ir.escape(); err != nil {
				return string(ir.input), err
			}
		case keyBackspace:
			ir.backspace()
		default:
			ir.content(ch)
		}
		ir.term.Flush()
	}
	return string(ir.input), nil
}

func (ir *InputReader) next() (rune, error) {
	ch, _, err := ir.r.ReadRune()
	return ch, err
}

func (ir *InputReader) escape() error {
	ch2, err := ir.next()
	if err != nil {
		return err
	}
	ch3, err := ir.next()
	if err != nil {
		return err
	}
	if ir.single || ch2 != '[' {
		return nil
	}
	switch ch3 {
	case '3':
		ch4, err := ir.next()
		if err != nil {
			return err
		}
		if ch4 == '~' {
			ir.delete()
		}
	case 'F':
		ir.moveCursor(1, len(ir.input)-ir.cursor)
	case 'H':
		ir.moveCursor(-1, ir.cursor)
	case '2', '5', '6':
		if _, err := ir.next(); err != nil {
			return err
		}
	case 'C':
		ir.moveCursor(1, 1)
	case 'D':
		ir.moveCursor(-1, 1)
	}
	return nil
}

func (ir *InputReader) content(ch rune) {
	newline := ch == '\n' || ch == '\r'
	ir.done = newline || ir.single
	if newline {
		return
	}
	ir.input = slices.Insert(ir.input, ir.cursor, ch)
	ir.term.Write(string(ir.input[ir.cursor:]))
	ir.term.Move(Left, len(ir.input)-ir.cursor-1)
	ir.cursor++
}

func (ir *InputReader) delete() {
	if ir.single || ir.cursor >= len(ir.input) {
		return
	}
	ir.input = slices.Delete(ir.input, ir.cursor, ir.cursor+1)
	ir.term.Write(string(ir.input[ir.cursor:]) + " ")
	ir.term.Move(Left, len(ir.input)-ir.cursor+1)
}

func (ir *InputReader) backspace() {
	if ir.single || ir.cursor == 0 {
		return
	}
	ir.term.Move(Left, 1)
	ir.cursor--
	ir.delete()
}

func (ir *InputReader) moveCursor(direction, count int) {
	target := ir.cursor + direction*count
	if target < 0 || target > len(ir.input) {
		return
	}
	ir.cursor = target
	if direction > 0 {
		ir.term.Move(Right, count)
	} else {
		ir.term.Move(Left, count)
	}
}
