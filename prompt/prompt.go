// Package prompt reads validated answers from the user.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/tekutils/tek/errors"
)

// RetryText replaces the prompt after an invalid answer.
const RetryText = "Invalid input. Try again: "

// Option configures an Input.
type Option func(*Input)

// WithReader reads answers from r instead of stdin.
func WithReader(r io.Reader) Option {
	return func(in *Input) { in.reader = bufio.NewReader(r) }
}

// WithWriter writes prompts to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(in *Input) { in.writer = w }
}

// WithValidator accepts only answers matching re.
func WithValidator(re *regexp.Regexp) Option {
	return func(in *Input) { in.validator = re }
}

// NoValidate accepts any answer.
func NoValidate() Option {
	return func(in *Input) { in.validate = false }
}

// WithArgs splits the answer at whitespace: the first word is the value,
// the rest are available from Args.
func WithArgs() Option {
	return func(in *Input) { in.allowArgs = true }
}

// Input asks a question until the answer passes the validator.
type Input struct {
	text      []string
	validator *regexp.Regexp
	validate  bool
	allowArgs bool
	reader    *bufio.Reader
	writer    io.Writer

	input string
	args  []string
}

// NewInput prompts with the lines of text.
func NewInput(text []string, opts ...Option) *Input {
	in := &Input{
		text:     slices.Clone(text),
		validate: true,
		reader:   bufio.NewReader(os.Stdin),
		writer:   os.Stdout,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Read prints the prompt and reads lines until one is valid.
func (in *Input) Read() (string, error) {
	prompt := strings.Join(in.text, "\n") + " "
	for {
		if _, err := io.WriteString(in.writer, prompt); err != nil {
			return "", err
		}
		line, err := in.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", errors.Wrap(err, errors.ErrInvalidInput, "no answer")
		}
		if in.set(strings.TrimRight(line, "\r\n")) {
			return in.input, nil
		}
		if err == io.EOF {
			return "", errors.Newf(errors.ErrInvalidInput, "Invalid input: %s", in.input)
		}
		prompt = RetryText
	}
}

// Accept validates s without prompting.
func (in *Input) Accept(s string) (string, error) {
	if !in.set(s) {
		return "", errors.Newf(errors.ErrInvalidInput, "Invalid input: %s", s)
	}
	return in.input, nil
}

func (in *Input) set(s string) bool {
	in.args = nil
	if in.allowArgs {
		fields := strings.Fields(s)
		if len(fields) > 0 {
			s, in.args = fields[0], fields[1:]
		}
	}
	in.input = s
	return !in.validate || in.validator == nil || in.validator.MatchString(s)
}

// Value is the last accepted answer.
func (in *Input) Value() string { return in.input }

// Args are the words after the first one when WithArgs is set.
func (in *Input) Args() []string { return in.args }

// Text returns the prompt lines.
func (in *Input) Text() []string { return in.text }

func alternatives(values []string) *regexp.Regexp {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = regexp.QuoteMeta(v)
	}
	return regexp.MustCompile("^(" + strings.Join(quoted, "|") + ")$")
}

// NewSimpleChoice accepts one of elements, which are listed after the last
// text line, or one of the unlisted additional values.
func NewSimpleChoice(elements, text, additional []string, opts ...Option) *Input {
	if len(text) == 0 {
		text = []string{"Choose one"}
	}
	text = slices.Clone(text)
	if len(elements) > 0 {
		text[len(text)-1] += " [" + strings.Join(elements, "/") + "]"
	}
	opts = append(slices.Clone(opts), WithValidator(alternatives(slices.Concat(elements, additional))))
	return NewInput(text, opts...)
}

// YesNo asks for "y" or "n".
type YesNo struct {
	*Input
}

// NewYesNo asks the text, "Confirm" by default.
func NewYesNo(text []string, opts ...Option) *YesNo {
	if len(text) == 0 {
		text = []string{"Confirm"}
	}
	return &YesNo{NewSimpleChoice([]string{"y", "n"}, text, nil, opts...)}
}

// Read returns true for "y".
func (y *YesNo) Read() (bool, error) {
	answer, err := y.Input.Read()
	return answer == "y", err
}

// Accept validates s without prompting.
func (y *YesNo) Accept(s string) (bool, error) {
	answer, err := y.Input.Accept(s)
	return answer == "y", err
}

// Value reports whether the last answer was "y".
func (y *YesNo) Value() bool { return y.Input.Value() == "y" }

// SpecifiedChoice lists choices numbered from 1 and asks for a number.
// Simple literals are accepted too and returned as they are.
type SpecifiedChoice struct {
	*Input
	choices []string
	simple  []string
}

// NewSpecifiedChoice asks text followed by the numbered choices.
func NewSpecifiedChoice(choices, text, simple []string, opts ...Option) *SpecifiedChoice {
	text = slices.Clone(text)
	for i, c := range choices {
		text = append(text, fmt.Sprintf(" [%d] %s", i+1, c))
	}
	text = append(text, "Enter your choice:")
	numbers := make([]string, len(choices))
	for i := range choices {
		numbers[i] = strconv.Itoa(i + 1)
	}
	return &SpecifiedChoice{
		Input:   NewSimpleChoice(simple, text, numbers, opts...),
		choices: slices.Clone(choices),
		simple:  slices.Clone(simple),
	}
}

// Read returns the chosen element or simple literal.
func (s *SpecifiedChoice) Read() (string, error) {
	if _, err := s.Input.Read(); err != nil {
		return "", err
	}
	return s.Value()
}

// Accept validates answer without prompting.
func (s *SpecifiedChoice) Accept(answer string) (string, error) {
	if _, err := s.Input.Accept(answer); err != nil {
		return "", err
	}
	return s.Value()
}

// Value maps the last answer to its choice.
func (s *SpecifiedChoice) Value() (string, error) {
	answer := s.Input.Value()
	if slices.Contains(s.simple, answer) {
		return answer, nil
	}
	if n, err := strconv.Atoi(answer); err == nil && n > 0 && n <= len(s.choices) {
		return s.choices[n-1], nil
	}
	if !s.validate {
		return answer, nil
	}
	return "", errors.Newf(errors.ErrInternal, "SpecifiedChoice: strange input: %s", answer)
}
