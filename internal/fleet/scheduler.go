package fleet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultWorkers caps concurrent git subprocesses when no explicit
// capacity is configured.
const DefaultWorkers = 8

// DefaultTimeout bounds a single git operation; network fetches against a
// dead remote hang far longer than this without it.
const DefaultTimeout = 30 * time.Second

// ErrSchedulerClosed is returned by Submit after CancelAll.
var ErrSchedulerClosed = errors.New("scheduler closed")

// AlreadyInProgressError reports a submission for a repository that
// already has a task in flight. It is a dispatcher-level notice, not a
// task failure.
type AlreadyInProgressError struct {
	Repo string
	Op   Op // the operation currently in flight
}

func (e *AlreadyInProgressError) Error() string {
	return fmt.Sprintf("%s already in progress for %s", e.Op, e.Repo)
}

// Scheduler bounds the number of concurrently running tasks and owns
// cancellation. At most one task per repository is in flight at any time;
// the check and the reservation happen in the same critical section as
// submission.
//
// Completion delivery guarantees: every submitted task produces exactly
// one Result on the completions channel — including timed-out and
// cancelled tasks — except after CancelAll, which guarantees the opposite:
// once it returns, no further results are delivered and every worker
// goroutine (and therefore every subprocess) has been reaped.
type Scheduler struct {
	runner  Runner
	timeout time.Duration
	log     zerolog.Logger

	sem         chan struct{}
	completions chan Result
	quit        chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inflight map[string]Op
	closed   bool
}

// NewScheduler creates a scheduler running at most workers tasks at once,
// each bounded by timeout. Zero values select the defaults.
func NewScheduler(runner Runner, workers int, timeout time.Duration, log zerolog.Logger) *Scheduler {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		runner:      runner,
		timeout:     timeout,
		log:         log,
		sem:         make(chan struct{}, workers),
		completions: make(chan Result, workers),
		quit:        make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
		inflight:    make(map[string]Op),
	}
}

// Completions returns the channel terminal results are delivered on.
// CancelAll closes it once the scheduler is quiescent, so a blocked
// consumer is always released.
func (s *Scheduler) Completions() <-chan Result {
	return s.completions
}

// InFlight returns the number of tasks submitted but not yet completed.
func (s *Scheduler) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

// Submit queues a task for execution. It returns ErrSchedulerClosed after
// CancelAll and *AlreadyInProgressError when the repository is busy;
// rejected submissions produce no completion.
func (s *Scheduler) Submit(t Task) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSchedulerClosed
	}
	if op, busy := s.inflight[t.Repo]; busy {
		s.mu.Unlock()
		return &AlreadyInProgressError{Repo: t.Repo, Op: op}
	}
	s.inflight[t.Repo] = t.Op
	s.wg.Add(1)
	s.mu.Unlock()

	if t.SubmittedAt.IsZero() {
		t.SubmittedAt = time.Now()
	}

	go s.run(t)
	return nil
}

func (s *Scheduler) run(t Task) {
	defer s.wg.Done()

	res := s.execute(t)

	s.mu.Lock()
	delete(s.inflight, t.Repo)
	s.mu.Unlock()

	// During shutdown nobody drains completions; dropping the result here
	// is what lets CancelAll's wait terminate.
	select {
	case s.completions <- res:
	case <-s.quit:
		s.log.Debug().
			Str("repo", t.Repo).
			Str("op", t.Op.String()).
			Msg("result dropped during shutdown")
	}
}

func (s *Scheduler) execute(t Task) Result {
	// Wait for a capacity slot; queued tasks resolve to Cancelled when
	// the scheduler shuts down before they ever run.
	select {
	case s.sem <- struct{}{}:
	case <-s.ctx.Done():
		return Result{Repo: t.Repo, Op: t.Op, Fail: FailCancelled, Message: "cancelled"}
	}
	defer func() { <-s.sem }()

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	return s.runner.Run(ctx, t)
}

// CancelAll cancels queued and in-flight tasks and blocks until the
// scheduler is quiescent: all worker goroutines finished, all subprocess
// handles reaped, and the completions channel drained and closed. The
// close releases a consumer blocked on Completions. A result a worker was
// already handing to a concurrent consumer when cancellation began can
// still arrive there, so a consumer that must not observe post-cancel
// results has to stop applying them before initiating shutdown. Safe to
// call more than once.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	alreadyClosed := s.closed
	s.closed = true
	s.mu.Unlock()

	if alreadyClosed {
		s.wg.Wait()
		return
	}

	s.cancel()
	close(s.quit)
	s.wg.Wait()

	// A worker may have buffered a result in the window before quit
	// closed; discard anything left, then close the channel so a blocked
	// consumer observes the shutdown instead of a stale result.
	for {
		select {
		case <-s.completions:
		default:
			close(s.completions)
			return
		}
	}
}
