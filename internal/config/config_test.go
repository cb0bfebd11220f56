package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapestone/yamill/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.True(t, cfg.DoubleCheck)
	require.False(t, cfg.Fix)
	require.Equal(t, runtime.GOMAXPROCS(0), cfg.Jobs)
	require.Equal(t, []string{".yaml", ".yml"}, cfg.Extensions)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(p, []byte(`
fix = true
double_check = false
jobs = 3
extensions = [".yaml"]
exclude = ["vendor", "*.generated.yaml"]
`), 0o644))

	cfg, err := config.Load(p)
	require.NoError(t, err)
	require.True(t, cfg.Fix)
	require.False(t, cfg.DoubleCheck)
	require.Equal(t, 3, cfg.Jobs)
	require.Equal(t, []string{".yaml"}, cfg.Extensions)
	require.Equal(t, []string{"vendor", "*.generated.yaml"}, cfg.Exclude)
	require.True(t, cfg.Rewrite())

	cfg.Check = true
	require.False(t, cfg.Rewrite(), "check overrides fix")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{"unknown key", "fixx = true\n", "unknown keys: fixx"},
		{"bad syntax", "fix = \n", "failed to parse TOML"},
		{"zero jobs", "jobs = 0\n", "jobs must be at least 1"},
		{"extension without dot", "extensions = [\"yaml\"]\n", "must start with a dot"},
		{"bad pattern", "exclude = [\"[\"]\n", "exclude pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), config.FileName)
			require.NoError(t, os.WriteFile(p, []byte(tt.content), 0o644))

			_, err := config.Load(p)
			require.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestFind_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	want := filepath.Join(root, config.FileName)
	require.NoError(t, os.WriteFile(want, []byte("jobs = 2\n"), 0o644))

	got, ok, err := config.Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)

	cfg, used, err := config.Resolve("", nested)
	require.NoError(t, err)
	require.Equal(t, want, used)
	require.Equal(t, 2, cfg.Jobs)
}

func TestResolve_NoFile(t *testing.T) {
	cfg, used, err := config.Resolve("", t.TempDir())
	require.NoError(t, err)
	require.Empty(t, used)
	require.Equal(t, config.Default(), cfg)
}
