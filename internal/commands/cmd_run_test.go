package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/flotilla/internal/core/discover"
	"github.com/colonyops/flotilla/internal/fleet"
)

func testEngine(paths ...string) *engine {
	repos := make([]discover.Repo, 0, len(paths))
	for _, p := range paths {
		repos = append(repos, discover.Repo{Path: p, Name: p[len("/r/"):]})
	}
	return &engine{
		repos: repos,
		table: fleet.NewTable(paths),
	}
}

func TestResolveTargetsByName(t *testing.T) {
	eng := testEngine("/r/alpha", "/r/beta", "/r/gamma")
	cmd := &RunCmd{}

	targets, err := cmd.resolveTargets(eng, []string{"beta", "alpha"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/r/beta", "/r/alpha"}, targets)
}

func TestResolveTargetsUnknownName(t *testing.T) {
	eng := testEngine("/r/alpha")
	cmd := &RunCmd{}

	_, err := cmd.resolveTargets(eng, []string{"zeta"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zeta")
}

func TestResolveTargetsAll(t *testing.T) {
	eng := testEngine("/r/alpha", "/r/beta")
	cmd := &RunCmd{all: true}

	targets, err := cmd.resolveTargets(eng, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/r/alpha", "/r/beta"}, targets)
}

func TestRunnableOps(t *testing.T) {
	for name, want := range map[string]fleet.Command{
		"fetch": fleet.CmdFetchSelected,
		"pull":  fleet.CmdPullSelected,
		"push":  fleet.CmdPushSelected,
		"sync":  fleet.CmdSyncSelected,
	} {
		assert.Equal(t, want, runnable[name], name)
	}
	_, ok := runnable["checkout"]
	assert.False(t, ok, "checkout is interactive only")
}
