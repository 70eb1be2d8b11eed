package executil

import (
	"context"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Dir  string
	Cmd  string
	Args []string
}

// RecordingExecutor captures commands for testing. Since every command in
// this codebase is a git invocation, outputs and errors are keyed by the
// git subcommand (the first argument), e.g. "status" or "rev-list".
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps subcommand names to their stdout.
	Outputs map[string][]byte

	// Errors maps subcommand names to their error.
	Errors map[string]error
}

// RunDir records the command and returns configured output/error.
func (e *RecordingExecutor) RunDir(_ context.Context, dir, cmd string, args ...string) (Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, RecordedCommand{
		Dir:  dir,
		Cmd:  cmd,
		Args: args,
	})

	key := ""
	if len(args) > 0 {
		key = args[0]
	}

	var out Output
	var err error

	if e.Outputs != nil {
		out.Stdout = e.Outputs[key]
	}
	if e.Errors != nil {
		err = e.Errors[key]
	}

	return out, err
}

// Calls returns how many commands ran with the given subcommand.
func (e *RecordingExecutor) Calls(sub string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, c := range e.Commands {
		if len(c.Args) > 0 && c.Args[0] == sub {
			n++
		}
	}
	return n
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
