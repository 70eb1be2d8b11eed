package fleet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/flotilla/internal/core/git"
)

// mockGit records operations and returns configured values.
type mockGit struct {
	status    git.RepoStatus
	statusErr error
	opErr     error
	ops       []string
}

func (m *mockGit) Status(context.Context, string) (git.RepoStatus, error) {
	m.ops = append(m.ops, "status")
	return m.status, m.statusErr
}

func (m *mockGit) Fetch(context.Context, string) error {
	m.ops = append(m.ops, "fetch")
	return m.opErr
}

func (m *mockGit) Pull(context.Context, string) error {
	m.ops = append(m.ops, "pull")
	return m.opErr
}

func (m *mockGit) Push(context.Context, string) error {
	m.ops = append(m.ops, "push")
	return m.opErr
}

func (m *mockGit) Checkout(_ context.Context, _ string, branch string) error {
	m.ops = append(m.ops, "checkout "+branch)
	return m.opErr
}

func (m *mockGit) RemoteURL(context.Context, string) (string, error) {
	return "git@github.com:acme/widgets.git", nil
}

// tempRepo creates a directory with a .git marker.
func tempRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func TestGitRunnerRefresh(t *testing.T) {
	repo := tempRepo(t)
	parsed := git.RepoStatus{Branch: "main", Ahead: 1, HasUpstream: true}
	g := &mockGit{status: parsed}
	r := NewGitRunner(g, testLogger())

	res := r.Run(context.Background(), Task{Repo: repo, Op: OpRefresh})
	require.True(t, res.OK())
	assert.Equal(t, parsed, res.Status)
	assert.Equal(t, []string{"status"}, g.ops)
}

func TestGitRunnerMutatingOpsRereadStatus(t *testing.T) {
	tests := []struct {
		op      Op
		branch  string
		wantOps []string
	}{
		{op: OpFetch, wantOps: []string{"fetch", "status"}},
		{op: OpPull, wantOps: []string{"pull", "status"}},
		{op: OpPush, wantOps: []string{"push", "status"}},
		{op: OpSync, wantOps: []string{"fetch", "pull", "push", "status"}},
		{op: OpCheckout, branch: "develop", wantOps: []string{"checkout develop", "status"}},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			repo := tempRepo(t)
			g := &mockGit{status: git.RepoStatus{Branch: "main"}}
			r := NewGitRunner(g, testLogger())

			res := r.Run(context.Background(), Task{Repo: repo, Op: tt.op, Branch: tt.branch})
			require.True(t, res.OK())
			assert.Equal(t, tt.wantOps, g.ops)
		})
	}
}

func TestGitRunnerMissingRepo(t *testing.T) {
	g := &mockGit{}
	r := NewGitRunner(g, testLogger())

	res := r.Run(context.Background(), Task{Repo: "/does/not/exist", Op: OpPull})
	assert.Equal(t, FailRepoUnavailable, res.Fail)
	// git is never invoked for a missing path.
	assert.Empty(t, g.ops)
}

func TestGitRunnerPlainDirectoryIsNotARepo(t *testing.T) {
	dir := t.TempDir() // no .git inside
	r := NewGitRunner(&mockGit{}, testLogger())

	res := r.Run(context.Background(), Task{Repo: dir, Op: OpRefresh})
	assert.Equal(t, FailRepoUnavailable, res.Fail)
}

func TestGitRunnerSyncStopsAtFirstFailure(t *testing.T) {
	repo := tempRepo(t)
	g := &mockGit{opErr: fmt.Errorf("fetch: %w", errors.New("remote hung up"))}
	r := NewGitRunner(g, testLogger())

	res := r.Run(context.Background(), Task{Repo: repo, Op: OpSync})
	assert.Equal(t, FailGitCommandFailed, res.Fail)
	assert.Equal(t, []string{"fetch"}, g.ops)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailKind
	}{
		{
			name: "timeout",
			err:  fmt.Errorf("exec git: %w", context.DeadlineExceeded),
			want: FailTimedOut,
		},
		{
			name: "cancelled",
			err:  fmt.Errorf("exec git: %w", context.Canceled),
			want: FailCancelled,
		},
		{
			name: "parse error",
			err:  fmt.Errorf("status: %w", &git.ParseError{Op: "rev-list", Raw: "x"}),
			want: FailParseError,
		},
		{
			name: "path error",
			err:  &os.PathError{Op: "chdir", Path: "/gone", Err: os.ErrNotExist},
			want: FailRepoUnavailable,
		},
		{
			name: "anything else",
			err:  errors.New("mysterious"),
			want: FailGitCommandFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, msg := classify(tt.err)
			assert.Equal(t, tt.want, kind)
			assert.NotEmpty(t, msg)
		})
	}
}
