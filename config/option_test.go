// FILE: tek/config/option_test.go
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionCoerce(t *testing.T) {
	tests := []struct {
		name    string
		option  *Option
		input   any
		want    any
		wantErr bool
	}{
		{"bool true", Bool(false), "true", true, false},
		{"bool yes", Bool(false), "Yes", true, false},
		{"bool off", Bool(true), "off", false, false},
		{"bool zero", Bool(true), "0", false, false},
		{"bool invalid", Bool(false), "maybe", nil, true},
		{"int decimal", Int(0), "42", int64(42), false},
		{"int hex", Int(0), "0x1F", int64(31), false},
		{"int from float", Int(0), 3.0, int64(3), false},
		{"int fractional", Int(0), 3.5, nil, true},
		{"int invalid", Int(0), "abc", nil, true},
		{"float", Float(0), "2.5", 2.5, false},
		{"float from int", Float(0), int64(2), 2.0, false},
		{"string from int", String(""), 12, "12", false},
		{"list split and trim", List(nil), "a, b ,c", []string{"a", "b", "c"}, false},
		{"list empty", List(nil), "", []string{}, false},
		{"list from toml array", List(nil), []any{"x", 1}, []string{"x", "1"}, false},
		{"list custom separator", List(nil, Separator(":")), "a:b", []string{"a", "b"}, false},
		{"file size SI", FileSize("0"), "5.54G", int64(5540000000), false},
		{"file size IEC", FileSize("0"), "2 MiB", int64(2 * 1024 * 1024), false},
		{"file size plain", FileSize("0"), "5540000000", int64(5540000000), false},
		{"file size invalid", FileSize("0"), "lots", nil, true},
		{"duration", Duration(0), "1m30s", 90 * time.Second, false},
		{"duration invalid", Duration(0), "soon", nil, true},
		{"dict", Dict(""), "a:1,b:2", map[string]string{"a": "1", "b": "2"}, false},
		{"dict escapes", Dict(""), `a\:b:c\,d,e:f`, map[string]string{"a:b": "c,d", "e": "f"}, false},
		{"dict invalid entry", Dict(""), "a:b:c", nil, true},
		{"any uint", Any(uint(0)), "7", uint(7), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.option.Coerce(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDictOf(t *testing.T) {
	type wrapper struct{ Name string }

	opt := DictOf("1:foo,2:boo",
		func(s string) (int, error) { return strconv.Atoi(s) },
		func(s string) (wrapper, error) { return wrapper{Name: s}, nil },
	)

	assert.Equal(t, map[int]wrapper{1: {"foo"}, 2: {"boo"}}, opt.Default())
	assert.NotEqual(t, map[int]wrapper{1: {"afoo"}, 2: {"boo"}}, opt.Default())

	t.Run("WeakElementParsers", func(t *testing.T) {
		opt := DictOf[string, int]("a:1,b:2", nil, nil)
		assert.Equal(t, map[string]int{"a": 1, "b": 2}, opt.Default())
	})

	t.Run("BadKey", func(t *testing.T) {
		_, err := opt.Coerce("x:foo")
		assert.Error(t, err)
	})
}

func TestOptionFormatRoundTrip(t *testing.T) {
	options := map[string]*Option{
		"bool":     Bool(true),
		"int":      Int(-12),
		"float":    Float(0.1),
		"string":   String("hello world"),
		"list":     List([]string{"a", "b"}),
		"filesize": FileSize("5.54G"),
		"duration": Duration(90 * time.Second),
		"dict":     Dict(`k\:1:v\,1,k2:v2`),
	}

	for name, opt := range options {
		t.Run(name, func(t *testing.T) {
			formatted := opt.Format(opt.Default())
			parsed, err := opt.Coerce(formatted)
			require.NoError(t, err, "formatted value %q", formatted)
			assert.Equal(t, opt.Default(), parsed)
		})
	}

	assert.Equal(t, "5540000000", FileSize("5.54G").Format(int64(5540000000)))
	assert.Equal(t, "a:1,b:2", Dict("b:2,a:1").Format(Dict("b:2,a:1").Default()))
}

func TestPathOptions(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("ExpandHome", func(t *testing.T) {
		got, err := Path("").Coerce("~/music")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "music"), got)
	})

	t.Run("ExpandEnv", func(t *testing.T) {
		t.Setenv("TEK_TEST_DIR", "/srv/data")
		got, err := Path("").Coerce("$TEK_TEST_DIR/x")
		require.NoError(t, err)
		assert.Equal(t, "/srv/data/x", got)
	})

	t.Run("PathListGlob", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"a.txt", "b.txt", "c.log"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
		}

		got, err := PathList(nil).Coerce(filepath.Join(dir, "*.txt") + "," + filepath.Join(dir, "missing"))
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.txt"),
			filepath.Join(dir, "b.txt"),
			filepath.Join(dir, "missing"),
		}, got)
	})
}

func TestWrapInfersType(t *testing.T) {
	tests := []struct {
		value any
		kind  Kind
		def   any
	}{
		{true, KindBool, true},
		{8080, KindInt, int64(8080)},
		{int32(3), KindInt, int64(3)},
		{1.5, KindFloat, 1.5},
		{"x", KindString, "x"},
		{[]string{"a"}, KindList, []string{"a"}},
		{time.Second, KindDuration, time.Second},
		{map[string]string{"a": "b"}, KindDict, map[string]string{"a": "b"}},
		{uint64(9), KindAny, uint64(9)},
	}

	for _, tt := range tests {
		opt := wrap(tt.value)
		assert.Equal(t, tt.kind, opt.Kind(), "%T", tt.value)
		assert.Equal(t, tt.def, opt.Default(), "%T", tt.value)
	}

	t.Run("OptionIsCopied", func(t *testing.T) {
		orig := Int(1, Help("count"))
		opt := wrap(orig)
		require.NoError(t, opt.withDefault(2))
		assert.Equal(t, int64(1), orig.Default())
		assert.Equal(t, "count", opt.Help)
	})

	t.Run("BoolNegation", func(t *testing.T) {
		assert.True(t, Bool(false).Negatable)
		assert.False(t, Bool(false, NoNegation()).Negatable)
	})
}
