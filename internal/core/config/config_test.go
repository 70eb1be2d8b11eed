package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, defaults.Roots, cfg.Roots)
	assert.Equal(t, defaults.Git, cfg.Git)
	assert.Equal(t, defaults.UI, cfg.UI)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "git", cfg.Git.Path)
	assert.Equal(t, 8, cfg.Git.Workers)
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
roots:
  - /srv/repos
  - ~/work
ignore:
  - "**/archive/**"
git:
  workers: 4
  timeout_secs: 10
ui:
  auto_refresh_secs: 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/srv/repos", "~/work"}, cfg.Roots)
	assert.Equal(t, []string{"**/archive/**"}, cfg.Ignore)
	assert.Equal(t, 4, cfg.Git.Workers)
	assert.Equal(t, 10, cfg.Git.TimeoutSecs)
	assert.Equal(t, 60, cfg.UI.AutoRefreshSecs)
	// unset fields fall back to defaults
	assert.Equal(t, "git", cfg.Git.Path)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("roots: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty git path",
			mutate:  func(c *Config) { c.Git.Path = "" },
			wantErr: "git.path",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Git.Workers = 0 },
			wantErr: "git.workers",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Git.TimeoutSecs = 0 },
			wantErr: "git.timeout_secs",
		},
		{
			name:    "negative auto refresh",
			mutate:  func(c *Config) { c.UI.AutoRefreshSecs = -1 },
			wantErr: "auto_refresh_secs",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.UI.Theme = "solarized-disco" },
			wantErr: "ui.theme",
		},
		{
			name:    "no roots",
			mutate:  func(c *Config) { c.Roots = nil },
			wantErr: "roots",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandedRoots(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := Config{Roots: []string{"~", "~/code", "/abs/path", "relative"}}
	roots, err := cfg.ExpandedRoots()
	require.NoError(t, err)

	assert.Equal(t, []string{
		home,
		filepath.Join(home, "code"),
		"/abs/path",
		"relative",
	}, roots)
}

func TestValidateDeepRejectsBadGlob(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Roots = []string{t.TempDir()}
	cfg.Ignore = []string{"[unclosed"}

	err := cfg.ValidateDeep("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ignore[0]")
}

func TestValidateDeepRejectsFileRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	cfg := DefaultConfig()
	cfg.Roots = []string{file}

	err := cfg.ValidateDeep("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestValidateDeepMissingRootIsFine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Roots = []string{filepath.Join(t.TempDir(), "not-yet")}

	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestTimeoutConversions(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "30s", cfg.Git.Timeout().String())

	cfg.UI.AutoRefreshSecs = 90
	assert.Equal(t, "1m30s", cfg.UI.AutoRefresh().String())
}
