package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapestone/yamill/internal/cache"
)

// execute runs the CLI with an isolated cache directory.
func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(t.TempDir(), "cache"))
	var out, errb bytes.Buffer
	code = run(args, &out, &errb)
	return code, out.String(), errb.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_NoArgs(t *testing.T) {
	code, _, stderr := execute(t)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "requires at least 1 arg")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := execute(t, "--version")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, Version)
}

func TestRun_Report(t *testing.T) {
	p := writeFile(t, t.TempDir(), "a.yaml", "a:   1\n")

	code, stdout, _ := execute(t, "--color", "off", p)
	require.Equal(t, 1, code)
	require.Contains(t, stdout, "would reformat "+p+"\n")
	require.Contains(t, stdout, "Oh no!")
	require.Contains(t, stdout, "1 files still need to be reformatted.")
	require.Equal(t, "a:   1\n", readFile(t, p))
}

func TestRun_Fix(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.yaml", "a:   1\n")
	writeFile(t, dir, "b.yaml", "b: 2\n")

	code, stdout, _ := execute(t, "--fix", "--color", "off", dir)
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "reformatted "+p+"\n")
	require.NotContains(t, stdout, "b.yaml")
	require.Contains(t, stdout, "All done!")
	require.Contains(t, stdout, "1 files reformatted.")
	require.Equal(t, "a: 1\n", readFile(t, p))
}

func TestRun_NothingToDo(t *testing.T) {
	p := writeFile(t, t.TempDir(), "a.yaml", "a: 1\n")

	code, stdout, _ := execute(t, "--color", "off", p)
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "No files changed.")
}

func TestRun_Quiet(t *testing.T) {
	p := writeFile(t, t.TempDir(), "a.yaml", "a:   1\n")

	code, stdout, _ := execute(t, "--fix", "--quiet", p)
	require.Equal(t, 0, code)
	require.Empty(t, stdout)
	require.Equal(t, "a: 1\n", readFile(t, p))
}

func TestRun_Unsafe(t *testing.T) {
	dir := t.TempDir()

	p := writeFile(t, dir, "refused.yaml", "mode: 0644\n")
	code, stdout, _ := execute(t, "--fix", "--color", "off", p)
	require.Equal(t, 1, code)
	require.Contains(t, stdout, "Oh my, failed to reformat "+p+"!")
	require.Contains(t, stdout, "Please report this as a bug!")
	require.Equal(t, "mode: 0644\n", readFile(t, p))

	code, _, _ = execute(t, "--fix", "--unsafe", p)
	require.Equal(t, 0, code)
	require.Equal(t, "mode: 644\n", readFile(t, p))
}

func TestRun_Failure(t *testing.T) {
	p := writeFile(t, t.TempDir(), "multi.yaml", "a\n---\nb\n")

	code, stdout, stderr := execute(t, "--color", "off", p)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "failed to reformat "+p+": ")
	require.Contains(t, stderr, "at 3:1", "position of the second document marker in the file")
	require.Contains(t, stdout, "1 files failed to reformat.")
}

func TestRun_Diff(t *testing.T) {
	p := writeFile(t, t.TempDir(), "a.yaml", "a:   1\nb: x\n")

	code, stdout, _ := execute(t, "--diff", "--color", "off", p)
	require.Equal(t, 1, code)
	require.Contains(t, stdout, "--- "+p+" (original)\n")
	require.Contains(t, stdout, "+++ "+p+" (formatted)\n")
	require.Contains(t, stdout, "\n-a:   1\n")
	require.Contains(t, stdout, "\n+a: 1\n")
	require.Contains(t, stdout, "\n+b: 'x'\n")
}

func TestRun_Check(t *testing.T) {
	p := writeFile(t, t.TempDir(), "a.yaml", "a:   1\n")

	code, stdout, _ := execute(t, "--fix", "--check", "--color", "off", p)
	require.Equal(t, 1, code)
	require.Contains(t, stdout, "would reformat")
	require.Equal(t, "a:   1\n", readFile(t, p))
}

func TestRun_Debug(t *testing.T) {
	p := writeFile(t, t.TempDir(), "a.yaml", "a: 1\n")

	code, _, stderr := execute(t, "--debug", p)
	require.Equal(t, 0, code)
	require.Contains(t, stderr, "level=DEBUG")
	require.Contains(t, stderr, "msg=config")
}

func TestRun_InvalidFlags(t *testing.T) {
	p := writeFile(t, t.TempDir(), "a.yaml", "a: 1\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"color", []string{"--color", "rainbow", p}, "invalid --color value"},
		{"jobs", []string{"--jobs", "0", p}, "jobs"},
		{"missing path", []string{filepath.Join(t.TempDir(), "nope.yaml")}, "no such file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(t, tt.args...)
			require.Equal(t, 1, code)
			require.Contains(t, stderr, tt.want)
		})
	}
}

func TestRun_NoFiles(t *testing.T) {
	code, _, stderr := execute(t, t.TempDir())
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "no YAML files found")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "custom.toml", "fix = true\nextensions = [\".conf\"]\n")
	p := writeFile(t, dir, "app.conf", "a:   1\n")
	skipped := writeFile(t, dir, "skipped.yaml", "a:   1\n")

	code, _, _ := execute(t, "--config", cfgPath, dir)
	require.Equal(t, 0, code)
	require.Equal(t, "a: 1\n", readFile(t, p))
	require.Equal(t, "a:   1\n", readFile(t, skipped))
}

func TestRun_Cache(t *testing.T) {
	cacheHome := filepath.Join(t.TempDir(), "cache")
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	p := writeFile(t, t.TempDir(), "a.yaml", "a:   1\n")

	var out bytes.Buffer
	require.Equal(t, 0, run([]string{"--fix", "--color", "off", p}, &out, &out))
	require.Contains(t, out.String(), "1 files reformatted.")
	require.FileExists(t, filepath.Join(cacheHome, "yamill", cache.FileName))

	out.Reset()
	require.Equal(t, 0, run([]string{"--debug", "--color", "off", p}, &out, &out))
	require.Contains(t, out.String(), "msg=cached")
	require.Contains(t, out.String(), "No files changed.")

	out.Reset()
	require.Equal(t, 0, run([]string{"--debug", "--no-cache", p}, &out, &out))
	require.False(t, strings.Contains(out.String(), "msg=cached"))
}
