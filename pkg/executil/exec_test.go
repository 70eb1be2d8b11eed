package executil

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitedWriter(t *testing.T) {
	tests := []struct {
		name      string
		max       int64
		writes    []string
		wantStore string
	}{
		{
			name:      "under limit",
			max:       10,
			writes:    []string{"hello"},
			wantStore: "hello",
		},
		{
			name:      "exactly at limit",
			max:       5,
			writes:    []string{"hello"},
			wantStore: "hello",
		},
		{
			name:      "over limit single write",
			max:       3,
			writes:    []string{"hello"},
			wantStore: "hel",
		},
		{
			name:      "over limit across writes",
			max:       6,
			writes:    []string{"abcd", "efgh"},
			wantStore: "abcdef",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := &limitedWriter{buf: &buf, max: tt.max}

			for _, s := range tt.writes {
				n, err := w.Write([]byte(s))
				require.NoError(t, err)
				// Write must report the full length so the producer
				// never sees a short-write error.
				assert.Equal(t, len(s), n)
			}

			assert.Equal(t, tt.wantStore, buf.String())
		})
	}
}

func TestRecordingExecutor(t *testing.T) {
	rec := &RecordingExecutor{
		Outputs: map[string][]byte{
			"status": []byte(" M main.go\n"),
		},
		Errors: map[string]error{},
	}

	out, err := rec.RunDir(context.Background(), "/repo", "git", "status", "--porcelain")
	require.NoError(t, err)
	assert.Equal(t, " M main.go\n", string(out.Stdout))

	require.Len(t, rec.Commands, 1)
	assert.Equal(t, "/repo", rec.Commands[0].Dir)
	assert.Equal(t, "git", rec.Commands[0].Cmd)
	assert.Equal(t, 1, rec.Calls("status"))
	assert.Equal(t, 0, rec.Calls("fetch"))

	rec.Reset()
	assert.Empty(t, rec.Commands)
}

func TestOutputStderrText(t *testing.T) {
	o := Output{Stderr: []byte("  fatal: not a git repository\n")}
	assert.Equal(t, "fatal: not a git repository", o.StderrText())
}

func TestRealExecutorCapturesOutput(t *testing.T) {
	e := &RealExecutor{}

	out, err := e.RunDir(context.Background(), "", "sh", "-c", "echo out; echo err 1>&2")
	require.NoError(t, err)
	assert.Equal(t, "out", strings.TrimSpace(string(out.Stdout)))
	assert.Equal(t, "err", out.StderrText())
}

func TestRealExecutorNonZeroExit(t *testing.T) {
	e := &RealExecutor{}

	out, err := e.RunDir(context.Background(), "", "sh", "-c", "echo boom 1>&2; exit 3")
	require.Error(t, err)
	assert.Equal(t, "boom", out.StderrText())
}
