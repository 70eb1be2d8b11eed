package discover

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mkRepo creates dir (plus parents) with a .git directory inside.
func mkRepo(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
}

func names(repos []Repo) []string {
	out := make([]string, 0, len(repos))
	for _, r := range repos {
		out = append(out, r.Name)
	}
	return out
}

func TestScanFindsNestedRepos(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, filepath.Join(root, "alpha"))
	mkRepo(t, filepath.Join(root, "work", "beta"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "notes"), 0o755)) // plain dir

	repos, err := Scan([]string{root}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta"}, names(repos))
	assert.Equal(t, filepath.Join(root, "work", "beta"), repos[1].Path)
}

func TestScanDoesNotDescendIntoRepos(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, filepath.Join(root, "outer"))
	// A submodule checkout inside a repo must not be listed on its own.
	mkRepo(t, filepath.Join(root, "outer", "vendor", "inner"))

	repos, err := Scan([]string{root}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"outer"}, names(repos))
}

func TestScanSkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, filepath.Join(root, ".cache", "secret"))
	mkRepo(t, filepath.Join(root, "visible"))

	repos, err := Scan([]string{root}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"visible"}, names(repos))
}

func TestScanRespectsDepthLimit(t *testing.T) {
	root := t.TempDir()
	shallow := filepath.Join(root, "a", "b", "c", "d", "repo")
	deep := filepath.Join(root, "a", "b", "c", "d", "e", "f", "repo2")
	mkRepo(t, shallow)
	mkRepo(t, deep)

	repos, err := Scan([]string{root}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"repo"}, names(repos))
}

func TestScanAppliesIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, filepath.Join(root, "keep"))
	mkRepo(t, filepath.Join(root, "archive", "old"))
	mkRepo(t, filepath.Join(root, "scratch"))

	repos, err := Scan([]string{root}, []string{"archive/**", "scratch"})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, names(repos))
}

func TestScanSkipsMissingRoot(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, filepath.Join(root, "only"))

	repos, err := Scan([]string{filepath.Join(root, "missing"), root}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, names(repos))
}

func TestScanSortsCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, filepath.Join(root, "Bravo"))
	mkRepo(t, filepath.Join(root, "alpha"))
	mkRepo(t, filepath.Join(root, "charlie"))

	repos, err := Scan([]string{root}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "Bravo", "charlie"}, names(repos))
}

func TestScanDeduplicatesOverlappingRoots(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, filepath.Join(root, "solo"))

	repos, err := Scan([]string{root, root}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"solo"}, names(repos))
}

func TestScanRootItselfIsARepo(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, root)

	repos, err := Scan([]string{root}, nil)
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, root, repos[0].Path)
	assert.False(t, strings.Contains(repos[0].Name, string(filepath.Separator)))
}
