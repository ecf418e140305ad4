package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-file", "-", "--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTemplateCommand(t *testing.T) {
	spec := writeSpec(t, testSpec)

	out, err := execute(t, "template", spec)
	require.NoError(t, err)
	want := "[global]\n" +
		"\n# talk more\n" +
		"# verbose = false\n" +
		"\n" +
		"[net]\n" +
		"# hosts = a,b\n" +
		"# limit = 5540000000\n" +
		"# port = 8080\n" +
		"# timeout = 30s\n" +
		"\n"
	assert.Equal(t, want, out)

	t.Run("ToFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf", "app.conf")
		out, err := execute(t, "template", spec, path)
		require.NoError(t, err)
		assert.Contains(t, out, "Wrote "+path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	})
}

func TestShowCommand(t *testing.T) {
	spec := writeSpec(t, testSpec)
	conf := filepath.Join(t.TempDir(), "app.conf")
	require.NoError(t, os.WriteFile(conf, []byte("[net]\nport = 9000\n"), 0644))
	t.Setenv("TEKCONFTEST_NET_HOSTS", "x,y")

	out, err := execute(t, "show", "--config", conf, "--env-prefix", "TEKCONFTEST_", spec, "--", "--timeout", "1m")
	require.NoError(t, err)

	for _, want := range []string{"Section", "port", "9000", "file", "1m0s", "cli", "x,y", "env", "default"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "net.hosts <- TEKCONFTEST_NET_HOSTS")
}

func TestGetAndDump(t *testing.T) {
	spec := writeSpec(t, testSpec)
	conf := filepath.Join(t.TempDir(), "app.conf")
	require.NoError(t, os.WriteFile(conf, []byte("[net]\nport = 9000\n"), 0644))

	out, err := execute(t, "get", "-c", conf, spec, "net.port")
	require.NoError(t, err)
	assert.Equal(t, "9000\n", out)

	out, err = execute(t, "get", spec, "global.verbose", "--", "--verbose")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	_, err = execute(t, "get", spec, "nodot")
	assert.Error(t, err)

	_, err = execute(t, "get", spec, "missing.key")
	assert.Error(t, err)

	out, err = execute(t, "dump", "-c", conf, spec)
	require.NoError(t, err)
	assert.Contains(t, out, "port = 9000")
	assert.Contains(t, out, "[net]")
}
