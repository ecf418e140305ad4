package prompt

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekutils/tek/errors"
)

func session(answers string) (Option, Option, *strings.Builder) {
	var out strings.Builder
	return WithReader(strings.NewReader(answers)), WithWriter(&out), &out
}

func TestInput(t *testing.T) {
	t.Run("RetryUntilValid", func(t *testing.T) {
		r, w, out := session("abc\n42\n")
		in := NewInput([]string{"Number?"}, r, w, WithValidator(regexp.MustCompile(`^\d+$`)))

		got, err := in.Read()
		require.NoError(t, err)
		assert.Equal(t, "42", got)
		assert.Equal(t, "Number? "+RetryText, out.String())
	})

	t.Run("MultiLineText", func(t *testing.T) {
		r, w, out := session("x\n")
		_, err := NewInput([]string{"first", "second"}, r, w).Read()
		require.NoError(t, err)
		assert.Equal(t, "first\nsecond ", out.String())
	})

	t.Run("LastLineWithoutNewline", func(t *testing.T) {
		r, w, _ := session("value")
		got, err := NewInput([]string{"?"}, r, w).Read()
		require.NoError(t, err)
		assert.Equal(t, "value", got)
	})

	t.Run("NoAnswer", func(t *testing.T) {
		r, w, _ := session("")
		_, err := NewInput([]string{"?"}, r, w).Read()
		assert.True(t, errors.IsCode(err, errors.ErrInvalidInput))
	})

	t.Run("Accept", func(t *testing.T) {
		in := NewInput([]string{"?"}, WithValidator(regexp.MustCompile(`^a+$`)))
		got, err := in.Accept("aaa")
		require.NoError(t, err)
		assert.Equal(t, "aaa", got)

		_, err = in.Accept("b")
		assert.True(t, errors.IsCode(err, errors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "Invalid input: b")

		in = NewInput([]string{"?"}, WithValidator(regexp.MustCompile(`^a+$`)), NoValidate())
		_, err = in.Accept("b")
		assert.NoError(t, err)
	})

	t.Run("Args", func(t *testing.T) {
		in := NewInput([]string{"cmd:"}, WithArgs(), WithValidator(regexp.MustCompile(`^(get|put)$`)))
		got, err := in.Accept("get a.txt  b.txt")
		require.NoError(t, err)
		assert.Equal(t, "get", got)
		assert.Equal(t, []string{"a.txt", "b.txt"}, in.Args())
	})
}

func TestSimpleChoice(t *testing.T) {
	r, w, out := session("maybe\nc\n")
	in := NewSimpleChoice([]string{"a", "b"}, []string{"Pick"}, []string{"c"}, r, w)

	assert.Equal(t, []string{"Pick [a/b]"}, in.Text())
	got, err := in.Read()
	require.NoError(t, err)
	assert.Equal(t, "c", got)
	assert.Equal(t, "Pick [a/b] "+RetryText, out.String())

	_, err = in.Accept("a|b")
	assert.Error(t, err, "elements are matched literally")
}

func TestYesNo(t *testing.T) {
	r, w, out := session("yes\nn\n")
	yn := NewYesNo(nil, r, w)

	got, err := yn.Read()
	require.NoError(t, err)
	assert.False(t, got)
	assert.False(t, yn.Value())
	assert.True(t, strings.HasPrefix(out.String(), "Confirm [y/n] "))

	ok, err := yn.Accept("y")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSpecifiedChoice(t *testing.T) {
	r, w, out := session("3\n2\n")
	sc := NewSpecifiedChoice([]string{"red", "green"}, []string{"Color?"}, []string{"q"}, r, w)

	got, err := sc.Read()
	require.NoError(t, err)
	assert.Equal(t, "green", got)
	assert.Equal(t, "Color?\n [1] red\n [2] green\nEnter your choice: [q] "+RetryText, out.String())

	got, err = sc.Accept("q")
	require.NoError(t, err)
	assert.Equal(t, "q", got)

	_, err = sc.Accept("0")
	assert.Error(t, err)

	t.Run("Unvalidated", func(t *testing.T) {
		sc := NewSpecifiedChoice([]string{"red"}, []string{"Color?"}, nil, NoValidate())
		got, err := sc.Accept("blue")
		require.NoError(t, err)
		assert.Equal(t, "blue", got)
	})
}
